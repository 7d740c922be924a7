// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package middleware_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderhq/wander/internal/platform/constants"
	"github.com/wanderhq/wander/internal/platform/ctxutil"
	"github.com/wanderhq/wander/internal/platform/middleware"
	"github.com/wanderhq/wander/internal/platform/respond"
	"github.com/wanderhq/wander/internal/platform/sec"
)

// stubResolver satisfies middleware.Resolver with canned results.
type stubResolver struct {
	identity *sec.Identity
	err      error
}

func (r *stubResolver) ResolveIdentity(_ context.Context, _ string) (*sec.Identity, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.identity, nil
}

func newTestVerifier(t *testing.T) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return sec.NewTokenServiceFromKeys(key, "wander.app", time.Hour)
}

// identityCapture returns a next-handler that records the resolved identity.
func identityCapture(captured **sec.Identity) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*captured = ctxutil.GetIdentity(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestProtect_ValidCredential checks that a valid bearer token passes the gate
and attaches the resolved identity to the context.
*/
func TestProtect_ValidCredential(t *testing.T) {
	verifier := newTestVerifier(t)
	resolver := &stubResolver{identity: &sec.Identity{ID: "user-123", Role: sec.RoleUser}}

	token, err := verifier.Issue("user-123")
	require.NoError(t, err)

	var captured *sec.Identity
	handler := middleware.Protect(verifier, resolver)(identityCapture(&captured))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-123", captured.ID)
}

/*
TestProtect_CookieCredential checks that the gate also accepts the session
cookie when no Authorization header is present.
*/
func TestProtect_CookieCredential(t *testing.T) {
	verifier := newTestVerifier(t)
	resolver := &stubResolver{identity: &sec.Identity{ID: "user-123", Role: sec.RoleUser}}

	token, err := verifier.Issue("user-123")
	require.NoError(t, err)

	var captured *sec.Identity
	handler := middleware.Protect(verifier, resolver)(identityCapture(&captured))

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: token})
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-123", captured.ID)
}

/*
TestProtect_Failures walks every short-circuit of the gate pipeline and
checks the distinct 401 messages.
*/
func TestProtect_Failures(t *testing.T) {
	verifier := newTestVerifier(t)

	validToken, err := verifier.Issue("user-123")
	require.NoError(t, err)

	expiredToken, err := verifier.IssueAt("user-123", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name        string
		authHeader  string
		resolver    middleware.Resolver
		wantMessage string
	}{
		{
			name:        "no_token",
			authHeader:  "",
			resolver:    &stubResolver{},
			wantMessage: "You are not logged in! Please log in to get access.",
		},
		{
			name:        "malformed_token",
			authHeader:  "Bearer not-a-jwt",
			resolver:    &stubResolver{},
			wantMessage: "Invalid token. Please log in again!",
		},
		{
			name:        "expired_token",
			authHeader:  "Bearer " + expiredToken,
			resolver:    &stubResolver{},
			wantMessage: "Your token has expired! Please log in again.",
		},
		{
			name:        "user_deleted",
			authHeader:  "Bearer " + validToken,
			resolver:    &stubResolver{err: errors.New("no rows")},
			wantMessage: "The user belonging to this token does no longer exist.",
		},
		{
			name:       "stale_after_password_change",
			authHeader: "Bearer " + validToken,
			resolver: &stubResolver{identity: &sec.Identity{
				ID:                "user-123",
				PasswordChangedAt: time.Now().Add(time.Hour),
			}},
			wantMessage: "User recently changed password! Please log in again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *sec.Identity
			handler := middleware.Protect(verifier, tt.resolver)(identityCapture(&captured))

			request := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
			if tt.authHeader != "" {
				request.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantMessage)
			assert.Nil(t, captured, "next handler must not run")
		})
	}
}

/*
TestProtect_ViewRouteFailureShape checks that an unauthenticated request to a
view route comes back as a rendered page, not a JSON envelope.
*/
func TestProtect_ViewRouteFailureShape(t *testing.T) {
	t.Cleanup(func() { respond.SetPageRenderer(nil) })
	respond.SetPageRenderer(func(writer http.ResponseWriter, request *http.Request, status int, message string) {
		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte("<p>" + message + "</p>"))
	})

	verifier := newTestVerifier(t)

	var captured *sec.Identity
	handler := middleware.Protect(verifier, &stubResolver{})(identityCapture(&captured))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, recorder.Body.String(), "You are not logged in! Please log in to get access.")
	assert.NotContains(t, recorder.Body.String(), `"status"`)
	assert.Nil(t, captured, "next handler must not run")
}

/*
TestAttachIdentity_Lenient checks that the non-enforcing variant continues
anonymously on failure instead of short-circuiting.
*/
func TestAttachIdentity_Lenient(t *testing.T) {
	verifier := newTestVerifier(t)
	resolver := &stubResolver{identity: &sec.Identity{ID: "user-123", Role: sec.RoleUser}}

	// 1. No credential: next runs, identity stays nil.
	var captured *sec.Identity
	handler := middleware.AttachIdentity(verifier, resolver)(identityCapture(&captured))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, captured)

	// 2. Valid credential: identity is attached.
	token, err := verifier.Issue("user-123")
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: token})
	recorder = httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-123", captured.ID)
}
