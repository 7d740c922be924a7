// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Command api is the entry point for the Wander HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wanderhq/wander/internal/api"
	"github.com/wanderhq/wander/internal/bookings"
	"github.com/wanderhq/wander/internal/platform/config"
	"github.com/wanderhq/wander/internal/platform/constants"
	"github.com/wanderhq/wander/internal/platform/migration"
	"github.com/wanderhq/wander/internal/platform/payment"
	pgstore "github.com/wanderhq/wander/internal/platform/postgres"
	"github.com/wanderhq/wander/internal/platform/ratelimit"
	redisstore "github.com/wanderhq/wander/internal/platform/redis"
	"github.com/wanderhq/wander/internal/platform/respond"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/internal/reviews"
	"github.com/wanderhq/wander/internal/tours"
	"github.com/wanderhq/wander/internal/users/account"
	"github.com/wanderhq/wander/internal/users/auth"
	"github.com/wanderhq/wander/internal/web"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "wander"))
	slog.SetDefault(log)

	log.Info("[Wander] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "wander"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	// Development mode exposes causes and stack traces in error responses.
	respond.SetDevelopmentMode(cfg.IsDevelopment())

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Session Credentials ────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath,
		constants.AuthIssuer, auth.AccessTokenTTL)
	must(log, err, "initialize jwt service")

	// ── 7. Health Handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewPostgresRepository(pool)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	authService := auth.NewService(userRepository, resetTokenRepository, log)
	authHandler := auth.NewHandler(authService, jwtSvc, cfg.IsProduction())

	accountService := account.NewService(userRepository, log)
	accountHandler := account.NewHandler(accountService)

	tourRepository := tours.NewPostgresRepository(pool)
	tourService := tours.NewService(tourRepository, log)
	tourHandler := tours.NewHandler(tourService)

	reviewRepository := reviews.NewPostgresRepository(pool)
	reviewService := reviews.NewService(reviewRepository, log)
	reviewHandler := reviews.NewHandler(reviewService)

	paymentClient := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey)
	bookingRepository := bookings.NewPostgresRepository(pool)
	bookingService := bookings.NewService(bookingRepository, tourService, paymentClient,
		cfg.PublicBaseURL, log)
	bookingHandler := bookings.NewHandler(bookingService)

	renderer, err := web.NewRenderer(os.DirFS(cfg.TemplatePath), log)
	must(log, err, "parse view templates")
	webHandler := web.NewHandler(renderer, tourService, reviewService, bookingService, log)

	// View routes fail with the rendered error page, not the JSON envelope.
	respond.SetPageRenderer(webHandler.ErrorPage)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	// Rate-limit counters live in Redis so the window is shared across replicas.
	counterStore := ratelimit.NewRedisStore(rdb)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Tours:     tourHandler,
		Reviews:   reviewHandler,
		Bookings:  bookingHandler,
		Web:       webHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, authService, counterStore, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
