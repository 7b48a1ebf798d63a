// Copyright (c) 2026 FarmConnect. All rights reserved.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/platform/ctxutil"
	"github.com/farmconnect/api/internal/platform/sec"
)

// stubVerifier accepts exactly one token string.
type stubVerifier struct {
	accept string
	claims *sec.AuthClaims
}

func (s *stubVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if tokenStr != s.accept {
		return nil, sec.ErrInvalidSignature
	}
	return s.claims, nil
}

// stubAccounts resolves a fixed set of account IDs.
type stubAccounts struct {
	identities map[string]*sec.Identity
}

func (s *stubAccounts) ResolveIdentity(_ context.Context, accountID string) (*sec.Identity, error) {
	identity, ok := s.identities[accountID]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return identity, nil
}

func authStack() (func(http.Handler) http.Handler, *sec.Identity) {
	identity := &sec.Identity{AccountID: "account-1", Email: "quinn@example.com", AccountType: sec.AccountTypeBuyer}
	verifier := &stubVerifier{
		accept: "good-token",
		claims: &sec.AuthClaims{AccountID: "account-1", Email: identity.Email, AccountType: identity.AccountType},
	}
	accounts := &stubAccounts{identities: map[string]*sec.Identity{"account-1": identity}}
	return Authenticate(verifier, accounts), identity
}

// captureIdentity records the identity the downstream handler observed.
func captureIdentity(target **sec.Identity) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*target = ctxutil.GetIdentity(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateAnonymousPassesThrough(t *testing.T) {
	authenticate, _ := authStack()

	var seen *sec.Identity
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	authenticate(captureIdentity(&seen)).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, seen)
}

func TestAuthenticateBearerHeader(t *testing.T) {
	authenticate, identity := authStack()

	var seen *sec.Identity
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good-token")

	authenticate(captureIdentity(&seen)).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, identity.AccountID, seen.AccountID)
}

func TestAuthenticateCookie(t *testing.T) {
	authenticate, _ := authStack()

	var seen *sec.Identity
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "auth_token", Value: "good-token"})

	authenticate(captureIdentity(&seen)).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
}

func TestAuthenticateHeaderTakesPrecedenceOverCookie(t *testing.T) {
	authenticate, _ := authStack()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer bad-token")
	request.AddCookie(&http.Cookie{Name: "auth_token", Value: "good-token"})

	var seen *sec.Identity
	authenticate(captureIdentity(&seen)).ServeHTTP(recorder, request)

	// The bad header fails the request even though a valid cookie exists.
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Nil(t, seen)
}

func TestAuthenticateBadTokenRejected(t *testing.T) {
	authenticate, _ := authStack()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer forged")

	var seen *sec.Identity
	authenticate(captureIdentity(&seen)).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthenticateMalformedHeaderRejected(t *testing.T) {
	authenticate, _ := authStack()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Token abc")

	var seen *sec.Identity
	authenticate(captureIdentity(&seen)).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthenticateVanishedAccount(t *testing.T) {
	verifier := &stubVerifier{
		accept: "good-token",
		claims: &sec.AuthClaims{AccountID: "deleted-account"},
	}
	accounts := &stubAccounts{identities: map[string]*sec.Identity{}}
	authenticate := Authenticate(verifier, accounts)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good-token")

	var seen *sec.Identity
	authenticate(captureIdentity(&seen)).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ACCOUNT_NOT_FOUND")
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		RequireAuth(next).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated allowed", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{AccountID: "account-1"})
		RequireAuth(next).ServeHTTP(recorder, request.WithContext(ctx))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestRequireAccountType(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	guard := RequireAccountType(sec.AccountTypeAdmin, "Admin access required")

	t.Run("anonymous gets 401", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		guard(next).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("wrong type gets 403", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{AccountID: "a", AccountType: sec.AccountTypeBuyer})
		guard(next).ServeHTTP(recorder, request.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("matching type allowed", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{AccountID: "a", AccountType: sec.AccountTypeAdmin})
		guard(next).ServeHTTP(recorder, request.WithContext(ctx))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
