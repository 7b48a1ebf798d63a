// Copyright (c) 2026 FarmConnect. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenProvider] interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Distinct verification failures. Callers that need to branch on the reason
// a token was rejected match these with [errors.Is].
var (
	// ErrExpiredToken means the token was once valid but its expiry has passed.
	ErrExpiredToken = errors.New("sec: token expired")

	// ErrInvalidSignature means the signature does not verify under the
	// current signing secret.
	ErrInvalidSignature = errors.New("sec: invalid token signature")

	// ErrMalformedToken means the token structure could not be parsed at all.
	ErrMalformedToken = errors.New("sec: malformed token")

	// ErrInsecureSecret means the signing secret is unset, a known default,
	// or too short to resist brute force. The service refuses to start.
	ErrInsecureSecret = errors.New("sec: signing secret missing or insecure")
)

// minSecretLength is the smallest acceptable HMAC secret, in bytes.
const minSecretLength = 32

// insecureDefaultSecret is a placeholder value that has shipped in example
// configs before. Operating with it would make every token forgeable.
const insecureDefaultSecret = "fallback-secret"

// AuthClaims represents the payload embedded inside a session token.
//
// # Why custom claims?
//
// By embedding the account ID, email, and type directly inside the JWT,
// downstream services can identify the caller without an extra lookup. The
// authentication middleware still re-resolves the live account so that
// deleted accounts invalidate outstanding tokens.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Claim names match the wire contract consumed by the web client.
	AccountID   string      `json:"userId"`
	Email       string      `json:"email"`
	AccountType AccountType `json:"userType"`
}

// TokenService handles generation and verification of session tokens using
// HS256 with a process-wide secret.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenService creates a new TokenService.
//
// # Fail Closed
//
// A missing, default, or short secret is a configuration error, not a
// degraded mode: the constructor refuses it so the process never issues
// tokens signed with a guessable key.
func NewTokenService(secret, issuer, audience string) (*TokenService, error) {
	if secret == "" || secret == insecureDefaultSecret || len(secret) < minSecretLength {
		return nil, ErrInsecureSecret
	}

	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}, nil
}

// GenerateSessionToken creates a signed session token for an account.
func (service *TokenService) GenerateSessionToken(accountID, email string, accountType AccountType, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{service.audience},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		AccountID:   accountID,
		Email:       email,
		AccountType: accountType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature, expiry, issuer, and audience of a token
// string and returns its claims.
//
// Expiry is inclusive of the configured window: a token is accepted up to its
// expiry instant and rejected strictly after.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(service.audience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}

	return claims, nil
}

// classifyTokenError maps jwt library errors onto the package sentinels.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		// Issuer/audience mismatches and anything else the parser rejects.
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
}
