// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/constants"
)

// RedisResetTokenRepository implements [ResetTokenRepository] using Redis.
//
// Reset tokens are throwaway state with a built-in TTL, which is exactly
// what Redis key expiry gives us for free.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

/*
Set stores a reset token hash with its associated userID and TTL.

Parameters:
  - ctx: context.Context
  - tokenHash: string (SHA-256 hex of the raw token)
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisResetTokenRepository) Set(ctx context.Context, tokenHash string, userID string, ttl time.Duration) error {
	key := constants.RedisPrefixResetToken + tokenHash

	if err := repository.client.Set(ctx, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the userID for a given token hash.

Description: Returns apperr.NotFound if the token is absent or expired.

Parameters:
  - ctx: context.Context
  - tokenHash: string

Returns:
  - string: Original UserID
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisResetTokenRepository) Get(ctx context.Context, tokenHash string) (string, error) {
	key := constants.RedisPrefixResetToken + tokenHash

	userID, err := repository.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.ValidationError("Token is invalid or has expired")
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	return userID, nil
}

/*
Delete removes the token hash from Redis.

Parameters:
  - ctx: context.Context
  - tokenHash: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisResetTokenRepository) Delete(ctx context.Context, tokenHash string) error {
	key := constants.RedisPrefixResetToken + tokenHash

	if err := repository.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}

	return nil
}
