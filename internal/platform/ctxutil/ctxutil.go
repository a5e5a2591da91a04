// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/stories/internal/platform/ctxkey"
	"github.com/taibuivan/stories/internal/users/auth"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithSession returns a new context carrying the resolved session and its raw token.
func WithSession(ctx context.Context, token string, data *auth.SessionData) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeySessionToken, token)
	return context.WithValue(ctx, ctxkey.KeySession, data)
}

// GetSession retrieves the [*auth.SessionData] from the [context.Context].
// Returns nil for anonymous requests.
func GetSession(ctx context.Context) *auth.SessionData {
	data, ok := ctx.Value(ctxkey.KeySession).(*auth.SessionData)
	if !ok {
		return nil
	}
	return data
}

// GetSessionToken retrieves the raw session cookie value, if any.
func GetSessionToken(ctx context.Context) string {
	token, _ := ctx.Value(ctxkey.KeySessionToken).(string)
	return token
}
