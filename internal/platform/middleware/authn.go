// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/constants"
	"github.com/wanderhq/wander/internal/platform/ctxutil"
	"github.com/wanderhq/wander/internal/platform/respond"
	"github.com/wanderhq/wander/internal/platform/sec"
)

// # Authentication Gate

// TokenVerifier checks the signature and expiry of a session credential.
//
// # Why an interface?
//
// Decoupling the gate from [sec.TokenService] lets tests inject a fake
// verifier without provisioning RSA keys.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.Claims, error)
}

// Resolver turns a verified credential's subject into a live identity.
//
// Resolution goes to storage on every request: the staleness invariant needs
// the current password-changed marker, not whatever was true at issue time.
type Resolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*sec.Identity, error)
}

// Protect is the strict authentication gate for protected routes.
//
// # State Machine (per request)
//
//	NO_TOKEN → TOKEN_PRESENT → VERIFIED → IDENTITY_RESOLVED → FRESH
//
// Any failed transition short-circuits to the error funnel with a 401.
// Credential-verification failures and identity-lookup failures both surface
// as authentication errors, never authorization.
//
// On success the resolved [sec.Identity] is attached to the request context.
func Protect(verifier TokenVerifier, resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity, err := authenticate(request, verifier, resolver)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// AttachIdentity is the non-enforcing variant used by view-rendering routes.
//
// It runs the exact same verification pipeline as [Protect], but failures are
// swallowed: processing continues anonymously so the view layer can branch
// between logged-in and anonymous rendering. It is a distinct, explicitly
// named operation — Protect has no hidden lenient mode.
func AttachIdentity(verifier TokenVerifier, resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity, err := authenticate(request, verifier, resolver)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// authenticate runs the shared gate pipeline: extract → verify → resolve → freshness.
func authenticate(request *http.Request, verifier TokenVerifier, resolver Resolver) (*sec.Identity, error) {

	// ── 1. Extraction: Authorization header, then same-named cookie ──────
	tokenString := extractToken(request)
	if tokenString == "" {
		return nil, apperr.Unauthenticated("You are not logged in! Please log in to get access.")
	}

	// ── 2. Verification: signature and expiry, distinct sub-reasons ──────
	claims, err := verifier.Verify(tokenString)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, apperr.Unauthenticated("Your token has expired! Please log in again.")
		}
		return nil, apperr.Unauthenticated("Invalid token. Please log in again!")
	}

	// ── 3. Identity resolution against live storage ──────────────────────
	identity, err := resolver.ResolveIdentity(request.Context(), claims.Subject)
	if err != nil {
		return nil, apperr.Unauthenticated("The user belonging to this token does no longer exist.")
	}

	// ── 4. Staleness: credential predates the last password change ───────
	if claims.IssuedAt != nil && identity.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, apperr.Unauthenticated("User recently changed password! Please log in again.")
	}

	return identity, nil
}

// extractToken pulls the bearer credential from the Authorization header or
// the equivalently named cookie.
func extractToken(request *http.Request) string {
	authHeader := request.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	cookie, err := request.Cookie(constants.AccessTokenCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
