// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/internal/users/auth"
)

/*
TestUserIdentity checks the projection of a user into the request-scoped
principal, in particular the password-change marker mapping.
*/
func TestUserIdentity(t *testing.T) {
	changed := time.Now().Add(-time.Hour)

	tests := []struct {
		name        string
		marker      *time.Time
		wantChanged time.Time
	}{
		{"never_changed", nil, time.Time{}},
		{"changed", &changed, changed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &auth.User{
				ID:                "user-1",
				Name:              "Leo Gillespie",
				Email:             "leo@example.com",
				Role:              sec.RoleGuide,
				PasswordChangedAt: tt.marker,
			}

			identity := user.Identity()

			assert.Equal(t, "user-1", identity.ID)
			assert.Equal(t, "Leo Gillespie", identity.Name)
			assert.Equal(t, sec.RoleGuide, identity.Role)
			assert.True(t, identity.PasswordChangedAt.Equal(tt.wantChanged))
		})
	}

	// A missing marker must read as "never changed" to the staleness check,
	// so credentials issued at any time stay valid.
	identity := (&auth.User{ID: "user-1"}).Identity()
	assert.False(t, identity.ChangedPasswordAfter(time.Now().Add(-24*time.Hour)))
}
