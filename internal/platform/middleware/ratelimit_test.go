// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wanderhq/wander/internal/platform/middleware"
	"github.com/wanderhq/wander/internal/platform/ratelimit"
)

type failingCounterStore struct{}

func (failingCounterStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, fmt.Errorf("redis: connection refused")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestRateLimit_Ceiling checks that the request over the ceiling gets a 429
and requests below it pass.
*/
func TestRateLimit_Ceiling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := ratelimit.NewMemoryStore(ctx, time.Hour)
	handler := middleware.RateLimit(store, middleware.RateLimitConfig{
		PathPrefix: "/api",
		Max:        3,
		Window:     time.Hour,
	})(okHandler())

	for i := 1; i <= 3; i++ {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil))
		assert.Equal(t, http.StatusOK, recorder.Code, "request %d should pass", i)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil))

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Too many requests from this IP, please try again in an hour!")
}

/*
TestRateLimit_PerClient checks that counters are keyed per client IP.
*/
func TestRateLimit_PerClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := ratelimit.NewMemoryStore(ctx, time.Hour)
	handler := middleware.RateLimit(store, middleware.RateLimitConfig{
		PathPrefix: "/api",
		Max:        1,
		Window:     time.Hour,
	})(okHandler())

	// First client exhausts its allowance.
	first := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	first.Header.Set("X-Real-IP", "198.51.100.7")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, first)
	assert.Equal(t, http.StatusOK, recorder.Code)

	blocked := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	blocked.Header.Set("X-Real-IP", "198.51.100.7")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, blocked)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)

	// A different client is unaffected.
	other := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	other.Header.Set("X-Real-IP", "203.0.113.9")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, other)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRateLimit_ScopedToPrefix checks that non-API paths bypass the limiter.
*/
func TestRateLimit_ScopedToPrefix(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := ratelimit.NewMemoryStore(ctx, time.Hour)
	handler := middleware.RateLimit(store, middleware.RateLimitConfig{
		PathPrefix: "/api",
		Max:        1,
		Window:     time.Hour,
	})(okHandler())

	// View routes never count against the ceiling.
	for i := 0; i < 5; i++ {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/tour/the-forest-hiker", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
	}
}

/*
TestRateLimit_FailsOpen checks that a broken counter store lets traffic
through instead of taking the API down.
*/
func TestRateLimit_FailsOpen(t *testing.T) {
	handler := middleware.RateLimit(failingCounterStore{}, middleware.RateLimitConfig{
		PathPrefix: "/api",
		Max:        1,
		Window:     time.Hour,
	})(okHandler())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestLoginGuard_Burst checks the per-IP token bucket on credential routes.
*/
func TestLoginGuard_Burst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.LoginGuard(ctx)(okHandler())

	// The burst allowance passes.
	var lastCode int
	for i := 0; i < 10; i++ {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil))
		lastCode = recorder.Code
		if lastCode == http.StatusTooManyRequests {
			break
		}
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode,
		"rapid-fire login attempts must eventually throttle")
}
