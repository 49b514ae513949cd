// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the HTTP router, the middleware chain and all domain
handlers into a runnable [http.Server].

It is the composition root of the transport layer; only this package and
cmd/api own net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/shelter/internal/platform/config"
	"github.com/taibuivan/shelter/internal/platform/constants"
	"github.com/taibuivan/shelter/internal/platform/metrics"
	"github.com/taibuivan/shelter/internal/platform/middleware"
	"github.com/taibuivan/shelter/internal/shelter/animal"
	"github.com/taibuivan/shelter/internal/shelter/application"
	"github.com/taibuivan/shelter/internal/shelter/bio"
	"github.com/taibuivan/shelter/internal/shelter/shift"
	"github.com/taibuivan/shelter/internal/users/auth"
	"github.com/taibuivan/shelter/internal/users/profile"
	"github.com/taibuivan/shelter/internal/users/roles"
	"github.com/taibuivan/shelter/internal/users/session"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 200 when all dependencies answer.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus exposition.
	Metrics http.Handler

	Auth         *auth.Handler
	Profile      *profile.Handler
	Live         *session.Handler
	Roles        *roles.Handler
	Animals      *animal.Handler
	Applications *application.Handler
	Shifts       *shift.Handler
	AI           *bio.Handler
}

// Middleware carries the cross-cutting collaborators of the chain.
type Middleware struct {
	Verifier middleware.TokenVerifier
	Recorder metrics.Recorder
}

// # Server Initialization

/*
NewServer builds the router with the full middleware chain and registers all
route groups.

The live profile stream is mounted outside the request timeout and is
excluded from the server write timeout by its own handler.
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, mw Middleware, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Metrics(mw.Recorder))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Authenticate(mw.Verifier))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", h.Metrics)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.With(middleware.RequireAuth).Mount("/me/live", h.Live.Routes())

		api.Group(func(timed chi.Router) {
			timed.Use(chimw.Timeout(constants.GlobalRequestTimeout))

			timed.Mount("/auth", h.Auth.Routes())
			timed.With(middleware.RequireAuth).Mount("/me", h.Profile.Routes())
			timed.Mount("/admin", h.Roles.Routes())
			timed.Mount("/animals", h.Animals.Routes())
			timed.Mount("/applications", h.Applications.Routes())
			timed.Mount("/shifts", h.Shifts.Routes())
			timed.With(middleware.RateLimit(context, aiRequestsPerSecond, aiBurst)).Mount("/ai", h.AI.Routes())
		})
	})

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

// Limits for the text generation routes.
const (
	aiRequestsPerSecond = 0.2
	aiBurst             = 3
)

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
