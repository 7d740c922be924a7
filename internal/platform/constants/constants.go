// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: the fixed API window and the login-guard bucket.
  - Security: JWT issuer, cookie configuration, and sanitization limits.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "wander"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// APIRateLimitMax is the request ceiling per client within one window.
	APIRateLimitMax = 100

	// APIRateLimitWindow is the fixed window length for the /api limiter.
	APIRateLimitWindow = 1 * time.Hour

	// APIRateLimitMessage is the fixed client-facing rejection message.
	APIRateLimitMessage = "Too many requests from this IP, please try again in an hour!"

	// APIPathPrefix scopes the limiter to API routes only.
	APIPathPrefix = "/api"

	// LoginGuardRPS is the sustained rate of the per-IP login token bucket.
	LoginGuardRPS = 1.0

	// LoginGuardBurst is the burst capacity of the per-IP login token bucket.
	LoginGuardBurst = 5

	// RateLimitCleanupInterval is how often idle client entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute
)

// # Body Ingestion

const (
	// MaxBodyBytes is the request payload ceiling (10 KB).
	MaxBodyBytes = 10 << 10
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "wander.app"

	// AccessTokenCookieName mirrors the Authorization header: the bearer
	// credential may arrive in either.
	AccessTokenCookieName = "authorization"

	// AccessTokenCookiePath makes the credential cookie valid site-wide,
	// because both API and view routes consume it.
	AccessTokenCookiePath = "/"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldStatus  = "status"
	FieldMessage = "message"
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
)

// # Redis Prefixes

const (
	RedisPrefixResetToken = "auth:reset_token:"
	RedisPrefixRateLimit  = "ratelimit:api:"
)
