// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/constants"
	"github.com/wanderhq/wander/internal/platform/ctxutil"
	"github.com/wanderhq/wander/internal/platform/ratelimit"
	"github.com/wanderhq/wander/internal/platform/respond"
)

// # API Rate Limiting

// RateLimitConfig holds the fixed-window limiter parameters.
type RateLimitConfig struct {
	// PathPrefix scopes the limiter; requests outside it pass untouched.
	PathPrefix string
	// Max is the request ceiling per client within one window.
	Max int64
	// Window is the fixed window length.
	Window time.Duration
}

// RateLimit caps request volume per client IP for a path prefix.
//
// The counter store is injected: in-memory for single-process deployments,
// Redis when multiple replicas must share one ceiling. Increments are atomic
// per client key (see the ratelimit package for the windowing contract).
//
// A store failure fails OPEN: counting is protection, not correctness, and a
// broken Redis must not take the API down with it.
func RateLimit(store ratelimit.CounterStore, cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			if !strings.HasPrefix(request.URL.Path, cfg.PathPrefix) {
				next.ServeHTTP(writer, request)
				return
			}

			clientIP := RealIP(request)
			count, err := store.Incr(request.Context(), clientIP, cfg.Window)
			if err != nil {
				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
					"rate_limit_store_unavailable", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			if count > cfg.Max {
				respond.Error(writer, request, apperr.RateLimited(constants.APIRateLimitMessage))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Login Guard

type loginGuardClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginGuard applies a per-IP token bucket to credential-submitting
// endpoints, tightening the coarse API window against password guessing.
//
// State is process-local by design: a guessing bot hammering one replica is
// still throttled, and the shared fixed-window limiter caps the aggregate.
func LoginGuard(ctx context.Context) func(http.Handler) http.Handler {

	var mu sync.Mutex
	clients := make(map[string]*loginGuardClient)

	// Background cleanup of idle entries, stopped on shutdown.
	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				mu.Lock()
				for ip, client := range clients {
					if time.Since(client.lastSeen) > 3*constants.RateLimitCleanupInterval {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			clientIP := RealIP(request)

			mu.Lock()
			client, found := clients[clientIP]
			if !found {
				client = &loginGuardClient{
					limiter: rate.NewLimiter(rate.Limit(constants.LoginGuardRPS), constants.LoginGuardBurst),
				}
				clients[clientIP] = client
			}
			client.lastSeen = time.Now()
			allowed := client.limiter.Allow()
			mu.Unlock()

			if !allowed {
				respond.Error(writer, request, apperr.RateLimited("Too many login attempts, please try again later."))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
