// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/pkg/uuid"
)

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, signup,
// or login logic must be reviewed by the security team.
type Service struct {
	users       UserRepository
	resetTokens ResetTokenRepository
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its storage dependencies.
func NewService(users UserRepository, resetTokens ResetTokenRepository, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		resetTokens: resetTokens,
		logger:      logger,
	}
}

// ResolveIdentity turns a verified credential subject into a live identity.
//
// It satisfies the authentication gate's resolver contract: resolution hits
// storage on every request so the gate always sees the CURRENT
// password-changed marker, and deactivated accounts stop resolving at once.
func (service *Service) ResolveIdentity(ctx context.Context, userID string) (*sec.Identity, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// SignupInput holds the data required to enroll a new member.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Photo    string
}

// Signup hashes the password and persists a brand new user account.
//
// # Business Rules
//   - Emails must be unique (enforced by the storage layer, surfaced as a
//     duplicate-key failure).
//   - The default role is always 'user'; there is NO way to sign up with an
//     elevated role.
func (service *Service) Signup(ctx context.Context, input SignupInput) (*User, error) {
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(), // Time-sortable ID to prevent PG index fragmentation.
		Name:         input.Name,
		Email:        input.Email,
		Photo:        input.Photo,
		Role:         sec.RoleUser, // Rule: signup never grants an elevated role.
		PasswordHash: hashedPassword,
		Active:       true,
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_signed_up", slog.String("user_id", user.ID))
	return user, nil
}

// Login validates the email/password pair.
//
// A single generic failure message covers both the unknown-email and the
// wrong-password case, to prevent account enumeration.
func (service *Service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Unauthenticated("Incorrect email or password")
	}

	// bcrypt comparison is constant-time.
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthenticated("Incorrect email or password")
	}

	return user, nil
}

// RequestPasswordReset generates a single-use reset token for the account.
//
// Only the SHA-256 hash of the token is stored; the raw token is returned to
// the caller for out-of-band delivery and is never persisted anywhere.
func (service *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		return "", apperr.NotFoundMessage("There is no user with that email address")
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	if err := service.resetTokens.Set(ctx, sec.HashToken(token), user.ID, ResetTokenTTL); err != nil {
		return "", err
	}

	service.logger.Info("password_reset_requested", slog.String("user_id", user.ID))
	return token, nil
}

// ResetPassword completes the recovery flow for a valid, unexpired token.
//
// The token is single-use: it is deleted on success, and the password-changed
// marker advances so every previously issued credential goes stale.
func (service *Service) ResetPassword(ctx context.Context, token, newPassword string) (*User, error) {
	tokenHash := sec.HashToken(token)

	userID, err := service.resetTokens.Get(ctx, tokenHash)
	if err != nil {
		return nil, err
	}

	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := service.applyNewPassword(ctx, user, newPassword); err != nil {
		return nil, err
	}

	if err := service.resetTokens.Delete(ctx, tokenHash); err != nil {
		// The password change already succeeded; the hash expires on its own.
		service.logger.Error("reset_token_cleanup_failed", slog.Any("error", err))
	}

	service.logger.Info("password_reset_completed", slog.String("user_id", user.ID))
	return user, nil
}

// UpdatePassword changes the password of an authenticated user after
// re-verifying their current one.
func (service *Service) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (*User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return nil, apperr.Unauthenticated("Your current password is wrong.")
	}

	if err := service.applyNewPassword(ctx, user, newPassword); err != nil {
		return nil, err
	}

	service.logger.Info("password_updated", slog.String("user_id", user.ID))
	return user, nil
}

// applyNewPassword hashes and persists the new password and advances the
// password-changed marker.
//
// The marker is backdated by one second so a credential issued immediately
// after the change (same-second clock resolution) is not mistaken for stale.
func (service *Service) applyNewPassword(ctx context.Context, user *User, newPassword string) error {
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	changedAt := time.Now().Add(-1 * time.Second)
	if err := service.users.UpdatePassword(ctx, user.ID, hashedPassword, changedAt); err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	user.PasswordChangedAt = &changedAt
	return nil
}
