// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wanderhq/wander/internal/bookings"
	"github.com/wanderhq/wander/internal/platform/config"
	"github.com/wanderhq/wander/internal/platform/constants"
	"github.com/wanderhq/wander/internal/platform/middleware"
	"github.com/wanderhq/wander/internal/platform/ratelimit"
	"github.com/wanderhq/wander/internal/reviews"
	"github.com/wanderhq/wander/internal/tours"
	"github.com/wanderhq/wander/internal/users/account"
	"github.com/wanderhq/wander/internal/users/auth"
	"github.com/wanderhq/wander/internal/web"
)

// pollutionAllowList names the query parameters whose repeated occurrences
// survive the parameter-pollution guard, because they are legitimate
// multi-value catalog filters.
var pollutionAllowList = []string{
	"duration", "ratingsQuantity", "ratingsAverage", "maxGroupSize", "difficulty", "price",
}

// compressionLevel balances CPU against payload size for JSON and HTML.
const compressionLevel = 5

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the user lifecycle entry points (signup, login, recovery).
	Auth *auth.Handler

	// Account handles profile self-service and account administration.
	Account *account.Handler

	// Tours handles the tour catalog.
	Tours *tours.Handler

	// Reviews handles the flat and tour-nested review surfaces.
	Reviews *reviews.Handler

	// Bookings handles checkout sessions and the booking CRUD.
	Bookings *bookings.Handler

	// Web serves the rendered HTML pages.
	Web *web.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// # Middleware Chain (outermost first)
//
//	RequestID → StructuredLogger → PanicRecovery → SecurityHeaders → CORS
//	→ RateLimit(/api) → SanitizeBody → DedupeQuery → Compress → Timeout → CleanPath
//
// The authentication gates are NOT global: each route group mounts Protect,
// AttachIdentity, or neither, and declares its own role requirements.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger,
	verifier middleware.TokenVerifier, resolver middleware.Resolver,
	counters ratelimit.CounterStore, h Handlers) *Server {

	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityPolicy()))
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.RateLimit(counters, middleware.RateLimitConfig{
		PathPrefix: constants.APIPathPrefix,
		Max:        int64(cfg.RateLimitMax),
		Window:     time.Duration(cfg.RateLimitWindowMinutes) * time.Minute,
	}))
	r.Use(middleware.SanitizeBody(constants.MaxBodyBytes))
	r.Use(middleware.DedupeQuery(pollutionAllowList))
	r.Use(chimw.Compress(compressionLevel))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	// Shared gates, instantiated once.
	protect := middleware.Protect(verifier, resolver)
	attachIdentity := middleware.AttachIdentity(verifier, resolver)
	loginGuard := middleware.LoginGuard(ctx)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/users", func(users chi.Router) {
			h.Auth.RegisterRoutes(users, loginGuard, protect)
			h.Account.RegisterRoutes(users, protect)
		})

		api.Route("/tours", func(toursRouter chi.Router) {
			h.Tours.RegisterRoutes(toursRouter, protect)

			toursRouter.Route("/{tourID}/reviews", func(nested chi.Router) {
				h.Reviews.RegisterTourRoutes(nested, protect)
			})
		})

		api.Route("/reviews", func(reviewsRouter chi.Router) {
			h.Reviews.RegisterRoutes(reviewsRouter, protect)
		})

		api.Route("/bookings", func(bookingsRouter chi.Router) {
			h.Bookings.RegisterRoutes(bookingsRouter, protect)
		})
	})

	// # Rendered Pages
	h.Web.RegisterRoutes(r, attachIdentity, protect)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Router exposes the composed handler, primarily for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
