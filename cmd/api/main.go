// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the shelter HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Wire stores, services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taibuivan/shelter/internal/api"
	"github.com/taibuivan/shelter/internal/platform/config"
	"github.com/taibuivan/shelter/internal/platform/constants"
	"github.com/taibuivan/shelter/internal/platform/metrics"
	"github.com/taibuivan/shelter/internal/platform/migration"
	pgstore "github.com/taibuivan/shelter/internal/platform/postgres"
	redisstore "github.com/taibuivan/shelter/internal/platform/redis"
	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/shelter/animal"
	"github.com/taibuivan/shelter/internal/shelter/application"
	"github.com/taibuivan/shelter/internal/shelter/bio"
	"github.com/taibuivan/shelter/internal/shelter/shift"
	"github.com/taibuivan/shelter/internal/users/auth"
	"github.com/taibuivan/shelter/internal/users/profile"
	"github.com/taibuivan/shelter/internal/users/roles"
	"github.com/taibuivan/shelter/internal/users/session"
)

func main() {
	// 1. Logger
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// 2. Configuration
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("bootstrap_admin", cfg.BootstrapAdminEmail != ""),
		slog.Bool("ai_enabled", cfg.GeminiAPIKey != ""),
	)

	// Startup deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Process-lifetime context for background workers (rate limiter cleanup).
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// 3. PostgreSQL and Redis
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// 4. Migrations
	must(log, migration.RunUp(cfg.DatabaseURL, log), "run migrations")

	// 5. Wiring
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	// Profiles, roles and live sessions
	feed := profile.NewRedisFeed(rdb, log)
	profiles := profile.NewPostgresStore(pool, feed, log)
	resolver := profile.NewResolver(profiles, cfg.BootstrapAdminEmail, log)
	claims := roles.NewRedisClaimsStore(rdb)

	authService := auth.NewService(
		auth.NewAccountRepository(pool),
		auth.NewRefreshTokenRepository(rdb),
		tokens,
		resolver,
		claims,
		feed,
		log,
	)
	roleService := roles.NewService(tokens, profiles, claims, recorder, log)

	// Shelter domain
	animalRepository := animal.NewPostgresRepository(pool)
	animalService := animal.NewService(animalRepository, log)
	applicationService := application.NewService(application.NewPostgresRepository(pool), animalRepository, log)
	shiftService := shift.NewService(shift.NewPostgresRepository(pool), log)

	generator, err := bio.New(startupCtx, cfg.GeminiAPIKey, cfg.GeminiModel, recorder, log)
	must(log, err, "initialize text generation")

	liveness, readiness := api.NewHealthHandlers([]api.Check{
		{Name: "postgres", Ping: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		{Name: "redis", Ping: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	}, log)

	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Metrics:      metrics.Handler(registry),
		Auth:         auth.NewHandler(authService),
		Profile:      profile.NewHandler(profile.NewService(profiles, resolver, log)),
		Live:         session.NewHandler(resolver, profiles, authService, recorder, log),
		Roles:        roles.NewHandler(roleService, profiles),
		Animals:      animal.NewHandler(animalService, profiles),
		Applications: application.NewHandler(applicationService, profiles),
		Shifts:       shift.NewHandler(shiftService, profiles),
		AI:           bio.NewHandler(generator, animalService),
	}

	// 6. HTTP Server
	server := api.NewServer(rootCtx, cfg, log, api.Middleware{Verifier: tokens, Recorder: recorder}, handlers)

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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	// Live streams end when their request contexts are cancelled by Shutdown.
	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(logger)
	return logger
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// Startup wiring only; after startup every error is returned and handled.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
