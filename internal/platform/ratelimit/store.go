// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

/*
Package ratelimit provides the counter store behind the API rate limiter.

# Windowing

The limiter uses a FIXED window (not sliding): the first request from a
client opens a window, every request within it increments one counter, and
the counter disappears when the window expires. Fixed windows allow a burst
of up to 2x the ceiling across a window boundary; that trade-off is accepted
in exchange for a single atomic increment per request on both backends.

# Backends

  - [MemoryStore]: mutex-guarded map, for single-process deployments.
  - [RedisStore]: INCR + EXPIRE-on-first-hit, for multi-process deployments
    where every replica must count against the same ceiling.

Both guarantee atomic increment-and-read per client key under concurrent
requests.
*/
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wanderhq/wander/internal/platform/constants"
)

// CounterStore counts requests per client key within a fixed window.
type CounterStore interface {
	// Incr atomically increments the counter for key and returns the new
	// count. The first increment of a key opens a window of the given
	// length; the counter resets when the window expires.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// # In-Memory Store

type windowCounter struct {
	count       int64
	windowStart time.Time
}

// MemoryStore is a process-local [CounterStore].
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
}

// NewMemoryStore creates an in-memory counter store and starts a background
// janitor that drops expired windows. The janitor stops when ctx is done.
func NewMemoryStore(ctx context.Context, window time.Duration) *MemoryStore {
	store := &MemoryStore{counters: make(map[string]*windowCounter)}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				store.mu.Lock()
				for key, counter := range store.counters {
					if time.Since(counter.windowStart) >= window {
						delete(store.counters, key)
					}
				}
				store.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return store
}

// Incr implements [CounterStore].
func (store *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := time.Now()
	counter, found := store.counters[key]

	// Open a fresh window if none exists or the current one has expired.
	if !found || now.Sub(counter.windowStart) >= window {
		counter = &windowCounter{windowStart: now}
		store.counters[key] = counter
	}

	counter.count++
	return counter.count, nil
}

// # Redis Store

// RedisStore is a shared [CounterStore] for multi-process deployments.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed counter store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Incr implements [CounterStore] using INCR plus EXPIRE on the first hit.
//
// Both commands run in one pipeline; EXPIRE uses NX so a racing replica
// cannot extend an already-open window.
func (store *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := constants.RedisPrefixRateLimit + key

	pipe := store.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("ratelimit: redis incr failed: %w", err)
	}

	return incr.Val(), nil
}
