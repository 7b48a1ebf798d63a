// Copyright (c) 2026 FarmConnect. All rights reserved.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/platform/constants"
	"github.com/farmconnect/api/internal/platform/ctxutil"
	"github.com/farmconnect/api/internal/platform/respond"
	"github.com/farmconnect/api/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec` token
// service implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// AccountSource resolves a token's account ID against live storage.
//
// Token claims alone are not trusted as identity: the account must still
// exist at verification time, so deleting an account invalidates every
// outstanding token signed for it.
type AccountSource interface {
	ResolveIdentity(ctx context.Context, accountID string) (*sec.Identity, error)
}

// Authenticate extracts and verifies the session token on every request.
//
// # Flow
//  1. Look for 'Authorization: Bearer <token>', then the auth_token cookie.
//  2. If neither is present, the request proceeds as anonymous.
//  3. If present, parse and verify the token via [TokenVerifier].
//  4. Re-resolve the live account via [AccountSource]; a vanished account
//     fails with ACCOUNT_NOT_FOUND.
//  5. Inject the resolved [*sec.Identity] into the request context.
func Authenticate(verifier TokenVerifier, accounts AccountSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction (header takes precedence over cookie) ─────
			tokenStr, err := extractToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.InvalidToken())
				return
			}

			// ── 4. Live Account Resolution ────────────────────────────────────
			identity, err := accounts.ResolveIdentity(request.Context(), claims.AccountID)
			if err != nil {
				var appError *apperr.AppError
				if errors.As(err, &appError) && appError.HTTPStatus == http.StatusNotFound {
					respond.Error(writer, request, apperr.AccountNotFound())
					return
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAccountType blocks requests whose resolved identity does not carry
// the expected discriminator.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// A missing identity is an authentication failure (401); a mismatched
// discriminator is an authorization failure (403). The distinction matters
// to clients deciding between re-login and access denial.
func RequireAccountType(accountType sec.AccountType, denial string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if identity.AccountType != accountType {
				respond.Error(writer, request, apperr.Forbidden(denial))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAdmin gates a route to ADMIN accounts.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireAccountType(sec.AccountTypeAdmin, "Admin access required")(next)
}

// RequireFarmer gates a route to FARMER accounts.
func RequireFarmer(next http.Handler) http.Handler {
	return RequireAccountType(sec.AccountTypeFarmer, "Farmer access required")(next)
}

// extractToken locates the session token, preferring the Authorization
// header over the auth_token cookie. An empty string means anonymous.
func extractToken(request *http.Request) (string, error) {
	authHeader := request.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", apperr.Unauthorized("Invalid authorization format")
		}
		return parts[1], nil
	}

	cookie, err := request.Cookie(constants.AuthCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", nil
}
