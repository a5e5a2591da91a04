// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command web is the entry point for the Stories web server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis when configured, otherwise use in-process state.
//  4. Build the identity provider client.
//  5. Wire page handlers.
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

	"github.com/taibuivan/stories/internal/api"
	"github.com/taibuivan/stories/internal/platform/config"
	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/platform/metrics"
	"github.com/taibuivan/stories/internal/platform/middleware"
	redisstore "github.com/taibuivan/stories/internal/platform/redis"
	"github.com/taibuivan/stories/internal/ui/theme"
	"github.com/taibuivan/stories/internal/users/account"
	"github.com/taibuivan/stories/internal/users/authclient"
	"github.com/taibuivan/stories/internal/users/dashboard"
	"github.com/taibuivan/stories/internal/users/register"
	"github.com/taibuivan/stories/internal/users/signin"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("auth_base_url", cfg.AuthBaseURL),
		slog.Bool("redis", cfg.RedisURL != ""),
	)

	// Background workers (form sweeps, rate limiter sweep, Redis relay) stop with ctx.
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	startupCtx, startupCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startupCancel()

	// ── 3. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// ── 4. Identity Provider ──────────────────────────────────────────────
	base, err := cfg.ProviderURL()
	must(log, err, "parse identity provider url")

	provider := authclient.NewProvider(authclient.ProviderConfig{
		BaseURL:       base,
		Timeout:       cfg.AuthTimeout,
		SecureCookies: cfg.SecureCookies(),
	})

	hub := authclient.NewHub()
	health := api.HealthDependencies{CheckProvider: provider.Ping}

	// ── 5. Redis (optional) ───────────────────────────────────────────────
	var cache authclient.Cache = authclient.NewInMemoryCache(cfg.SessionCacheTTL, 0)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		cache = authclient.NewRedisCache(rdb, cfg.SessionCacheTTL)
		health.CheckCache = func(context context.Context) error {
			return redisstore.Ping(context, rdb)
		}

		broadcaster := authclient.NewRedisBroadcaster(rdb, hub, log)
		go func() {
			if err := broadcaster.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("auth_event_relay_stopped", slog.Any("error", err))
			}
		}()
	}

	client := authclient.New(authclient.Config{
		Provider: provider,
		Cache:    cache,
		Hub:      hub,
		Metrics:  collector,
		Logger:   log,
	})

	// ── 6. Page Handlers ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(health, log)

	registerHandler := register.NewHandler(client, log, cfg.FormTTL, cfg.SecureCookies())
	go registerHandler.Forms().Run(ctx)

	signinHandler := signin.NewHandler(client, log, cfg.FormTTL, cfg.SecureCookies())
	go signinHandler.Forms().Run(ctx)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		AuthProxy: authclient.Proxy(base),
		Theme:     theme.NewHandler(cfg.SecureCookies()),
		Register:  registerHandler,
		SignIn:    signinHandler,
		Dashboard: dashboard.NewHandler(client, dashboard.Config{
			Wait:          cfg.SessionWait,
			Debug:         cfg.Debug,
			SecureCookies: cfg.SecureCookies(),
		}),
		Account: account.NewHandler(account.NewService(client, log)),
	}
	if cfg.MetricsEnabled {
		handlers.Metrics = metrics.Handler(registry)
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, api.Dependencies{
		Sessions: client,
		Limiter:  middleware.NewRateLimiter(ctx, cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst),
	}, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
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

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		stop()
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
