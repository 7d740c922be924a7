// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Package redis provides a managed Redis client for the Wander application.
//
// Redis backs two concerns: the shared API rate-limit counters and the
// short-lived password-reset tokens. Both are throwaway state, so the client
// is tuned for availability over durability.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	// dialTimeout is the maximum time allowed to establish a connection.
	dialTimeout = 5 * time.Second
	// readTimeout bounds individual command reads.
	readTimeout = 3 * time.Second
	// writeTimeout bounds individual command writes.
	writeTimeout = 3 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// NewClient creates and validates a Redis client from a redis:// URL.
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*goredis.Client, error) {
	options, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := goredis.NewClient(options)

	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis connected", slog.String("addr", options.Addr), slog.Int("db", options.DB))

	return client, nil
}

// Ping verifies that the Redis connection is healthy.
func Ping(ctx context.Context, client *goredis.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
