// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package middleware

import (
	"net/http"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/ctxutil"
	"github.com/wanderhq/wander/internal/platform/respond"
	"github.com/wanderhq/wander/internal/platform/sec"
)

// # Authorization Gate

// RequireRole restricts a route to identities whose role is a member of the
// declared allow-set.
//
// # Precondition
//
// Must be mounted AFTER [Protect]. Authorization is a pure function of an
// already-resolved identity and the declared set — a missing identity here
// means the chain was miswired, which is a programming error, not untrusted
// input. It panics, and [PanicRecovery] converts that into a 500.
//
// # Usage
//
//	router.With(middleware.RequireRole(sec.RoleAdmin, sec.RoleLeadGuide)).Delete("/{id}", h.deleteTour)
func RequireRole(roles ...sec.Role) func(http.Handler) http.Handler {
	allowed := sec.NewRoleSet(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				panic("middleware: RequireRole reached without an authenticated identity (mount Protect first)")
			}

			if !allowed.Contains(identity.Role) {
				respond.Error(writer, request, apperr.Forbidden("You do not have permission to perform this action"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
