// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/platform/ctxutil"
	"github.com/taibuivan/stories/internal/platform/respond"
	"github.com/taibuivan/stories/internal/users/auth"
)

// SessionReader resolves a session cookie value into the provider's session.
//
// # Why an interface?
//
// Defining SessionReader here decouples the middleware from the provider client,
// allowing us to easily inject fakes during unit testing.
type SessionReader interface {
	Session(ctx context.Context, token string) (*auth.SessionData, error)
}

// LoadSession resolves the session cookie, when present, into the request context.
//
// # Flow
//  1. Read the cookie named cookieName. If absent, request proceeds as anonymous.
//  2. Resolve it via [SessionReader] (cache first, then provider).
//  3. Inject the token and [*auth.SessionData] into the request context.
//
// A lookup failure is logged and the request proceeds as anonymous; guards
// further down decide what an anonymous request may see.
func LoadSession(reader SessionReader, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Anonymous Access ───────────────────────────────────────────
			cookie, err := request.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			data, err := reader.Session(request.Context(), cookie.Value)
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_lookup_failed",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithSession(request.Context(), cookie.Value, data)
			if data != nil {
				ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", data.User.ID)))
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireSession sends anonymous browsers to the sign-in page.
//
// # Usage
//
// Must be registered in the router AFTER [LoadSession]. Intended for HTML pages;
// JSON endpoints answer 401 themselves.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetSession(request.Context()) == nil {
			respond.SeeOther(writer, request, constants.PathLogin)
			return
		}
		next.ServeHTTP(writer, request)
	})
}
