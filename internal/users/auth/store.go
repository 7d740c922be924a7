// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently.
//
// # Implementations
//
// The canonical implementation is PostgreSQL ([PostgresRepository]).
type UserRepository interface {
	// FindByID returns the ACTIVE account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist or has been
	// deactivated.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the ACTIVE account with the given email, including
	// its password hash for credential verification.
	//
	// Returns [apperr.NotFound] if no active user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// List returns a page of active accounts plus the total count.
	List(ctx context.Context, limit, offset int) ([]*User, int, error)

	// Create persists a brand-new user account.
	//
	// Returns a duplicate-key error if the email is already registered.
	Create(ctx context.Context, user *User) error

	// Update persists changes to mutable profile fields (Name, Email, Photo,
	// Role). Passwords must be updated via [UpdatePassword].
	Update(ctx context.Context, user *User) error

	// UpdatePassword replaces the password hash and advances the
	// password-changed marker in one statement, so the staleness invariant
	// can never observe a half-applied change.
	UpdatePassword(ctx context.Context, userID, newHash string, changedAt time.Time) error

	// Deactivate flips the active flag off without removing the row,
	// preserving relational integrity for the user's reviews and bookings.
	Deactivate(ctx context.Context, id string) error
}

// ResetTokenRepository defines the contract for storing volatile password
// reset tokens. Only the SHA-256 hash of a token is ever stored.
type ResetTokenRepository interface {
	// Set stores a reset token hash associated with a userID for a limited duration.
	Set(ctx context.Context, tokenHash string, userID string, ttl time.Duration) error

	// Get retrieves the userID associated with a given reset token hash.
	//
	// Returns [apperr.NotFound] if the token is absent or expired.
	Get(ctx context.Context, tokenHash string) (string, error)

	// Delete removes a reset token hash after successful use.
	Delete(ctx context.Context, tokenHash string) error
}
