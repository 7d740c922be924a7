// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// Long-lived (90 days) because the token doubles as the browser session
	// for the server-rendered pages; the staleness check still cuts it off
	// the moment the password changes.
	AccessTokenTTL = 90 * 24 * time.Hour

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (10 minutes) for security.
	ResetTokenTTL = 10 * time.Minute

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// logoutCookieTTL is how long the placeholder logout cookie survives.
	logoutCookieTTL = 10 * time.Second
)
