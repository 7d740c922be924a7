// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Package sec provides cryptographic primitives and credential management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, Roles)
// from the domain logic. It acts as an Infrastructure service injected into
// the Application layer via small interfaces.
package sec

import "time"

// Identity is the resolved user attached to a request after the
// authentication gate succeeds.
//
// # Lifetime
//
// Request-scoped: the gate resolves it from a verified credential's subject,
// the context carries it, and it is discarded with the request. It is never
// reconstructed from claims alone — the staleness check needs the live
// PasswordChangedAt marker from storage.
type Identity struct {
	ID                string
	Name              string
	Email             string
	Role              Role
	PasswordChangedAt time.Time
}

// ChangedPasswordAfter reports whether the identity's password was changed
// after the given credential issue time.
//
// A credential issued before the last password change is stale and must be
// rejected, regardless of signature validity.
func (i *Identity) ChangedPasswordAfter(issuedAt time.Time) bool {
	if i.PasswordChangedAt.IsZero() {
		return false
	}
	// Truncate to seconds: JWT iat has second precision, the DB column does not.
	return i.PasswordChangedAt.Truncate(time.Second).After(issuedAt.Truncate(time.Second))
}
