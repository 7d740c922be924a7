// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, middleware pipeline)
    via constructors — never read from ambient global state.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Wander server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis): shared rate-limit counters and reset tokens.
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for session credential signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Payment gateway (checkout-session creation)
	PaymentAPIURL    string `env:"PAYMENT_API_URL"    envDefault:"https://api.stripe.com/v1"`
	PaymentSecretKey string `env:"PAYMENT_SECRET_KEY"`

	// Cross-Origin Resource Sharing. Comma-separated origins, "*" allows all.
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"*"`

	// Rate limiting for the /api prefix (fixed window).
	RateLimitMax           int `env:"RATE_LIMIT_MAX"            envDefault:"100"`
	RateLimitWindowMinutes int `env:"RATE_LIMIT_WINDOW_MINUTES" envDefault:"60"`

	// TemplatePath is the filesystem path to the HTML view templates.
	TemplatePath string `env:"TEMPLATE_PATH" envDefault:"./internal/web/templates"`

	// PublicBaseURL is the externally visible origin, used for the payment
	// provider's success/cancel redirects.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// Origins returns the parsed CORS origin list.
func (c *Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
