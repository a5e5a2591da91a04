// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
page handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/web are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/stories/internal/platform/config"
	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/platform/middleware"
	"github.com/taibuivan/stories/internal/platform/respond"
	"github.com/taibuivan/stories/internal/ui/theme"
	"github.com/taibuivan/stories/internal/users/account"
	"github.com/taibuivan/stories/internal/users/authclient"
	"github.com/taibuivan/stories/internal/users/dashboard"
	"github.com/taibuivan/stories/internal/users/register"
	"github.com/taibuivan/stories/internal/users/signin"
)

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

// Handlers groups all page handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus exposition. Nil disables /metrics.
	Metrics http.Handler

	// AuthProxy forwards the identity provider's own endpoints (OAuth callbacks).
	AuthProxy http.Handler

	Theme     *theme.Handler
	Register  *register.Handler
	SignIn    *signin.Handler
	Dashboard *dashboard.Handler
	Account   *account.Handler
}

// Dependencies are the shared collaborators of the middleware chain.
type Dependencies struct {
	// Sessions resolves the session cookie for every page request.
	Sessions middleware.SessionReader

	// Limiter throttles credential submissions.
	Limiter *middleware.RateLimiter
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	// # Identity Provider
	// OAuth callbacks must set the session cookie on this origin.
	r.With(chimw.Timeout(constants.GlobalRequestTimeout)).Handle(cfg.AuthBasePath+"/*", h.AuthProxy)

	// # Pages
	r.Group(func(pages chi.Router) {
		pages.Use(theme.Middleware)
		pages.Use(middleware.LoadSession(deps.Sessions, authclient.SessionCookieName(cfg.SecureCookies())))

		// The dashboard bounds its own wait and streams events; no global timeout.
		pages.Mount(constants.PathDashboard, h.Dashboard.Routes())

		pages.Group(func(timed chi.Router) {
			timed.Use(chimw.Timeout(constants.GlobalRequestTimeout))

			timed.Get(constants.PathLanding, func(writer http.ResponseWriter, request *http.Request) {
				respond.SeeOther(writer, request, constants.PathDashboard)
			})
			timed.Mount(constants.PathTheme, h.Theme.Routes())

			timed.Group(func(credentials chi.Router) {
				credentials.Use(deps.Limiter.Writes)
				credentials.Mount(constants.PathRegister, h.Register.Routes())
				credentials.Mount(constants.PathLogin, h.SignIn.Routes())
			})

			timed.Post(constants.PathSignOut, h.Dashboard.SignOut)
			timed.Get("/api/session", h.Dashboard.Session)

			timed.With(middleware.RequireSession).Mount(constants.PathSettings, h.Account.Routes())
		})
	})

	// Event streams never go idle on their own; end them when shutdown starts.
	base, cancel := context.WithCancel(context.Background())
	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadTimeout:       constants.DefaultReadTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	httpServer.RegisterOnShutdown(cancel)

	return &Server{
		router:     r,
		log:        log,
		httpServer: httpServer,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
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
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
