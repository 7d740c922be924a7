// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

/*
Package account handles user profile management.

It provides the self-service surface (view, update, deactivate one's own
profile) and the administrative CRUD over accounts.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Storage: The contract below is a subset of the auth storage contract,
    so the same PostgreSQL repository serves both packages.
*/
package account

import (
	"context"
	"time"

	"github.com/wanderhq/wander/internal/users/auth"
)

// # Repository Contract

// Repository defines the persistence operations the account surface needs.
//
// [auth.PostgresRepository] satisfies it; passwords deliberately have no
// path through this package.
type Repository interface {
	// FindByID retrieves an active user record by ID.
	FindByID(ctx context.Context, id string) (*auth.User, error)

	// List returns a page of active accounts plus the total count.
	List(ctx context.Context, limit, offset int) ([]*auth.User, int, error)

	// Update modifies the mutable profile fields of an existing user.
	Update(ctx context.Context, user *auth.User) error

	// Deactivate flips the active flag off without removing the row.
	Deactivate(ctx context.Context, id string) error
}

// # DTOs

// Profile is the transport-safe projection of a user account.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewProfile maps a user entity to its transport projection.
func NewProfile(user *auth.User) Profile {
	return Profile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Photo:     user.Photo,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
