// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/internal/users/auth"
)

// fakeUserRepository is an in-memory UserRepository for service tests.
type fakeUserRepository struct {
	usersByID map[string]*auth.User
}

func newFakeUserRepository(users ...*auth.User) *fakeUserRepository {
	repo := &fakeUserRepository{usersByID: make(map[string]*auth.User)}
	for _, user := range users {
		repo.usersByID[user.ID] = user
	}
	return repo
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, found := repo.usersByID[id]
	if !found || !user.Active {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.usersByID {
		if user.Email == email && user.Active {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) List(_ context.Context, _, _ int) ([]*auth.User, int, error) {
	users := make([]*auth.User, 0, len(repo.usersByID))
	for _, user := range repo.usersByID {
		users = append(users, user)
	}
	return users, len(users), nil
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	for _, existing := range repo.usersByID {
		if existing.Email == user.Email {
			return apperr.DuplicateKey("Email address already in use")
		}
	}
	repo.usersByID[user.ID] = user
	return nil
}

func (repo *fakeUserRepository) Update(_ context.Context, user *auth.User) error {
	if _, found := repo.usersByID[user.ID]; !found {
		return apperr.NotFound("User")
	}
	repo.usersByID[user.ID] = user
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string, changedAt time.Time) error {
	user, found := repo.usersByID[userID]
	if !found {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	user.PasswordChangedAt = &changedAt
	return nil
}

func (repo *fakeUserRepository) Deactivate(_ context.Context, id string) error {
	user, found := repo.usersByID[id]
	if !found {
		return apperr.NotFound("User")
	}
	user.Active = false
	return nil
}

// fakeResetTokenRepository is an in-memory ResetTokenRepository.
type fakeResetTokenRepository struct {
	tokens map[string]string // tokenHash -> userID
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{tokens: make(map[string]string)}
}

func (repo *fakeResetTokenRepository) Set(_ context.Context, tokenHash, userID string, _ time.Duration) error {
	repo.tokens[tokenHash] = userID
	return nil
}

func (repo *fakeResetTokenRepository) Get(_ context.Context, tokenHash string) (string, error) {
	userID, found := repo.tokens[tokenHash]
	if !found {
		return "", apperr.ValidationError("Token is invalid or has expired")
	}
	return userID, nil
}

func (repo *fakeResetTokenRepository) Delete(_ context.Context, tokenHash string) error {
	delete(repo.tokens, tokenHash)
	return nil
}

func newTestService(users *fakeUserRepository, tokens *fakeResetTokenRepository) *auth.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(users, tokens, logger)
}

// existingUser seeds an active account with a known password.
func existingUser(t *testing.T, id, email, password string) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	return &auth.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		Role:         sec.RoleUser,
		PasswordHash: hash,
		Active:       true,
	}
}

/*
TestSignup checks account creation, password hashing, and the forced role.
*/
func TestSignup(t *testing.T) {
	users := newFakeUserRepository()
	service := newTestService(users, newFakeResetTokenRepository())

	user, err := service.Signup(context.Background(), auth.SignupInput{
		Name:     "Leo Gillespie",
		Email:    "leo@example.com",
		Password: "pass1234",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role, "signup must never grant an elevated role")
	assert.True(t, user.Active)

	// The stored hash must verify against the plain text.
	assert.NotEqual(t, "pass1234", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("pass1234", user.PasswordHash))
}

/*
TestSignup_DuplicateEmail checks that the uniqueness violation surfaces as a
409 conflict.
*/
func TestSignup_DuplicateEmail(t *testing.T) {
	users := newFakeUserRepository(existingUser(t, "user-1", "leo@example.com", "pass1234"))
	service := newTestService(users, newFakeResetTokenRepository())

	_, err := service.Signup(context.Background(), auth.SignupInput{
		Name:     "Impostor",
		Email:    "leo@example.com",
		Password: "pass5678",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "DUPLICATE_KEY", ae.Code)
}

/*
TestLogin checks credential verification and the enumeration-proof failure
message.
*/
func TestLogin(t *testing.T) {
	users := newFakeUserRepository(existingUser(t, "user-1", "leo@example.com", "pass1234"))
	service := newTestService(users, newFakeResetTokenRepository())

	t.Run("valid_credentials", func(t *testing.T) {
		user, err := service.Login(context.Background(), "leo@example.com", "pass1234")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
	})

	// Unknown email and wrong password must be indistinguishable.
	t.Run("unknown_email", func(t *testing.T) {
		_, err := service.Login(context.Background(), "nobody@example.com", "pass1234")
		require.Error(t, err)
		assert.Equal(t, "Incorrect email or password", err.Error())
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := service.Login(context.Background(), "leo@example.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, "Incorrect email or password", err.Error())
	})
}

/*
TestResolveIdentity checks the gate resolver contract, including the
deactivated-account case.
*/
func TestResolveIdentity(t *testing.T) {
	account := existingUser(t, "user-1", "leo@example.com", "pass1234")
	users := newFakeUserRepository(account)
	service := newTestService(users, newFakeResetTokenRepository())

	identity, err := service.ResolveIdentity(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.ID)
	assert.Equal(t, sec.RoleUser, identity.Role)

	// Deactivated accounts stop resolving immediately.
	account.Active = false
	_, err = service.ResolveIdentity(context.Background(), "user-1")
	assert.Error(t, err)
}

/*
TestPasswordResetFlow walks the full recovery round trip: request, reset,
single-use token, stale-credential marker.
*/
func TestPasswordResetFlow(t *testing.T) {
	users := newFakeUserRepository(existingUser(t, "user-1", "leo@example.com", "old-pass"))
	tokens := newFakeResetTokenRepository()
	service := newTestService(users, tokens)

	// 1. Request: raw token returned, only its hash stored.
	rawToken, err := service.RequestPasswordReset(context.Background(), "leo@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, rawToken)

	_, rawStored := tokens.tokens[rawToken]
	assert.False(t, rawStored, "raw token must never be persisted")
	_, hashStored := tokens.tokens[sec.HashToken(rawToken)]
	assert.True(t, hashStored)

	// 2. Reset: password changes and the marker advances.
	user, err := service.ResetPassword(context.Background(), rawToken, "new-pass")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("new-pass", user.PasswordHash))
	require.NotNil(t, user.PasswordChangedAt)
	assert.WithinDuration(t, time.Now(), *user.PasswordChangedAt, 5*time.Second)

	// 3. Single use: the same token is rejected afterwards.
	_, err = service.ResetPassword(context.Background(), rawToken, "another-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token is invalid or has expired")
}

/*
TestRequestPasswordReset_UnknownEmail checks the recovery entry point for
unregistered addresses.
*/
func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	service := newTestService(newFakeUserRepository(), newFakeResetTokenRepository())

	_, err := service.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.Equal(t, "There is no user with that email address", err.Error())
}

/*
TestUpdatePassword checks the authenticated password change, which requires
re-verifying the current password.
*/
func TestUpdatePassword(t *testing.T) {
	users := newFakeUserRepository(existingUser(t, "user-1", "leo@example.com", "old-pass"))
	service := newTestService(users, newFakeResetTokenRepository())

	t.Run("wrong_current_password", func(t *testing.T) {
		_, err := service.UpdatePassword(context.Background(), "user-1", "not-the-password", "new-pass")
		require.Error(t, err)
		assert.Equal(t, "Your current password is wrong.", err.Error())
	})

	t.Run("successful_change", func(t *testing.T) {
		user, err := service.UpdatePassword(context.Background(), "user-1", "old-pass", "new-pass")
		require.NoError(t, err)
		assert.True(t, sec.CheckPasswordHash("new-pass", user.PasswordHash))
		require.NotNil(t, user.PasswordChangedAt)

		// The marker is backdated so a credential issued right after the
		// change is not mistaken for stale.
		assert.True(t, user.PasswordChangedAt.Before(time.Now()))
	})
}
