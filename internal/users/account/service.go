// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package account

import (
	"context"
	"log/slog"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/internal/users/auth"
)

// # Service Layer

// Service orchestrates profile self-service and administrative account
// management.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Self-Service

// GetProfile retrieves the full private identity of a user.
func (service *Service) GetProfile(ctx context.Context, userID string) (*auth.User, error) {
	return service.repo.FindByID(ctx, userID)
}

// UpdateProfileInput defines the self-editable subset of profile fields.
//
// Role is intentionally absent: a member can never escalate themselves.
type UpdateProfileInput struct {
	Name  *string
	Email *string
	Photo *string
}

// UpdateProfile applies a partial set of changes to the caller's own profile.
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Photo != nil {
		user.Photo = *input.Photo
	}

	if err := service.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("profile_updated", slog.String("user_id", userID))
	return user, nil
}

// DeactivateProfile soft-deletes the caller's own account.
func (service *Service) DeactivateProfile(ctx context.Context, userID string) error {
	if err := service.repo.Deactivate(ctx, userID); err != nil {
		return err
	}

	service.logger.Warn("profile_deactivated", slog.String("user_id", userID))
	return nil
}

// # Administration

// ListAccounts returns a page of active accounts.
func (service *Service) ListAccounts(ctx context.Context, limit, offset int) ([]*auth.User, int, error) {
	return service.repo.List(ctx, limit, offset)
}

// GetAccount retrieves any active account by ID.
func (service *Service) GetAccount(ctx context.Context, userID string) (*auth.User, error) {
	return service.repo.FindByID(ctx, userID)
}

// AdminUpdateInput is the administrative superset of profile fields.
type AdminUpdateInput struct {
	Name  *string
	Email *string
	Photo *string
	Role  *string
}

// UpdateAccount applies administrative changes to any account, including
// role assignment.
func (service *Service) UpdateAccount(ctx context.Context, userID string, input AdminUpdateInput) (*auth.User, error) {
	user, err := service.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Photo != nil {
		user.Photo = *input.Photo
	}
	if input.Role != nil {
		role := sec.Role(*input.Role)
		if !role.IsValid() {
			return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   auth.FieldRole,
				Message: "Must be one of: user, guide, lead-guide, admin",
			})
		}
		user.Role = role
	}

	if err := service.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("account_updated_by_admin", slog.String("user_id", userID))
	return user, nil
}

// DeleteAccount deactivates any account.
//
// Accounts are never physically removed, so the user's reviews and bookings
// keep their referential integrity.
func (service *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := service.repo.Deactivate(ctx, userID); err != nil {
		return err
	}

	service.logger.Warn("account_deleted_by_admin", slog.String("user_id", userID))
	return nil
}
