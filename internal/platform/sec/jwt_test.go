// Copyright (c) 2026 FarmConnect. All rights reserved.

package sec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-0123456789abcdef-xyz"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	service, err := NewTokenService(testSecret, "farmconnect", "farmconnect-users")
	require.NoError(t, err)
	return service
}

func TestNewTokenServiceRejectsInsecureSecrets(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"known default":    "fallback-secret",
		"below min length": "too-short",
	}

	for name, secret := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTokenService(secret, "farmconnect", "farmconnect-users")
			assert.ErrorIs(t, err, ErrInsecureSecret)
		})
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateSessionToken("account-1", "quinn@example.com", AccountTypeBuyer, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "account-1", claims.AccountID)
	assert.Equal(t, "quinn@example.com", claims.Email)
	assert.Equal(t, AccountTypeBuyer, claims.AccountType)
	assert.Equal(t, "farmconnect", claims.Issuer)
	assert.Contains(t, claims.Audience, "farmconnect-users")
}

func TestVerifyExpiredToken(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateSessionToken("account-1", "quinn@example.com", AccountTypeBuyer, -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyTokenSignedWithDifferentSecret(t *testing.T) {
	service := newTestTokenService(t)

	other, err := NewTokenService("another-secret-0123456789abcdef-other", "farmconnect", "farmconnect-users")
	require.NoError(t, err)

	token, err := other.GenerateSessionToken("account-1", "quinn@example.com", AccountTypeBuyer, time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyMalformedToken(t *testing.T) {
	service := newTestTokenService(t)

	_, err := service.VerifyToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)

	_, err = service.VerifyToken("")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestVerifyTokenWrongIssuer(t *testing.T) {
	service := newTestTokenService(t)

	other, err := NewTokenService(testSecret, "someone-else", "farmconnect-users")
	require.NoError(t, err)

	token, err := other.GenerateSessionToken("account-1", "quinn@example.com", AccountTypeBuyer, time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	require.Error(t, err)
}
