// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Package auth owns the user entity and the authentication lifecycle:
// signup, login, logout, password recovery, and credential freshness.
//
// # Architecture
//
// The entity and its storage contract have no dependencies on HTTP or SQL.
// The [Service] orchestrates repositories through interfaces; the [Handler]
// is the transport layer on top.
package auth

import (
	"time"

	"github.com/wanderhq/wander/internal/platform/sec"
)

// User represents a registered member of the Wander platform.
//
// # Rules
//   - Email is unique and validated.
//   - PasswordHash is generated via bcrypt exclusively by the [Service].
//   - PasswordChangedAt moves forward on every password change; credentials
//     issued before it are rejected by the authentication gate.
//   - Active is a soft-delete marker: deactivated accounts are invisible to
//     every query path.
type User struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Photo             string     `json:"photo,omitempty"`
	Role              sec.Role   `json:"role"`
	PasswordHash      string     `json:"-"` // Explicitly omitted from JSON for security.
	PasswordChangedAt *time.Time `json:"-"`
	Active            bool       `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Identity projects the user into the request-scoped principal consumed by
// the authentication and authorization gates.
func (u *User) Identity() *sec.Identity {
	// A nil marker means the password never changed; the zero time carries
	// that meaning through the staleness check.
	var changedAt time.Time
	if u.PasswordChangedAt != nil {
		changedAt = *u.PasswordChangedAt
	}

	return &sec.Identity{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		PasswordChangedAt: changedAt,
	}
}

// # Field Identifiers

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPasswordConfirm = "passwordConfirm"
	FieldPasswordCurrent = "passwordCurrent"
	FieldPhoto           = "photo"
	FieldRole            = "role"
	FieldToken           = "token"
	FieldMessage         = "message"
)
