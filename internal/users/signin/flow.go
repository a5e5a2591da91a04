// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package signin implements the login destination of the session-gated pages.

It mirrors registration: one gated [Flow] per rendered form, a fixed set of
user-facing messages, and provider text kept in the logs.
*/
package signin

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
	"github.com/taibuivan/stories/internal/users/formgate"
)

// # User-Facing Messages

const (
	MsgCredentialsRequired = "Email and password are required"
	MsgInvalidCredentials  = "Invalid email or password"
	MsgUnavailable         = "Unable to reach the sign-in service. Please try again."
	MsgSignInFailed        = "Failed to sign in. Please try again."
)

// MsgProviderFailed returns the failure message for an OAuth shortcut.
func MsgProviderFailed(provider authclient.SocialProvider) string {
	return "Failed to sign in with " + provider.Label()
}

// Facade is the part of the auth facade sign-in needs.
type Facade interface {
	SignInWithEmail(ctx context.Context, email, password string) (*auth.SessionData, error)
	SignInWithProvider(ctx context.Context, provider authclient.SocialProvider, callbackPath string) (*authclient.Redirect, error)
}

// Result is the outcome of one submission.
type Result struct {
	Ignored  bool
	Redirect string
	Session  *auth.SessionData
	Cookies  []*http.Cookie
	Error    string
	Kind     authclient.Kind
}

// OK reports whether the submission succeeded.
func (result Result) OK() bool {
	return !result.Ignored && result.Error == ""
}

// Flow runs submissions for one sign-in form instance.
type Flow struct {
	facade Facade
	logger *slog.Logger
	gate   formgate.Gate
}

// NewFlow constructs a [Flow].
func NewFlow(facade Facade, logger *slog.Logger) *Flow {
	return &Flow{facade: facade, logger: logger}
}

// Busy reports whether a submission is in flight.
func (flow *Flow) Busy() bool {
	return flow.gate.Busy()
}

// Submit signs in with email and password.
func (flow *Flow) Submit(context context.Context, email, password string) Result {
	if !flow.gate.TryAcquire() {
		return Result{Ignored: true}
	}
	defer flow.gate.Release()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Result{Error: MsgCredentialsRequired, Kind: authclient.KindValidation}
	}

	data, err := flow.facade.SignInWithEmail(context, email, password)
	if err != nil {
		kind := authclient.Classify(err)
		flow.logger.WarnContext(context, "sign_in_failed",
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		return Result{Error: messageFor(kind), Kind: kind}
	}

	flow.logger.InfoContext(context, "sign_in_succeeded", slog.String("user_id", data.User.ID))
	return Result{Redirect: constants.PathDashboard, Session: data}
}

// SignInWithProvider starts an OAuth sign-in.
func (flow *Flow) SignInWithProvider(context context.Context, provider authclient.SocialProvider) Result {
	if !flow.gate.TryAcquire() {
		return Result{Ignored: true}
	}
	defer flow.gate.Release()

	redirect, err := flow.facade.SignInWithProvider(context, provider, constants.PathDashboard)
	if err != nil {
		kind := authclient.Classify(err)
		flow.logger.WarnContext(context, "oauth_sign_in_failed",
			slog.String("provider", string(provider)),
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		return Result{Error: MsgProviderFailed(provider), Kind: kind}
	}

	return Result{Redirect: redirect.URL, Cookies: redirect.Cookies}
}

func messageFor(kind authclient.Kind) string {
	switch kind {
	case authclient.KindAuthentication, authclient.KindValidation:
		return MsgInvalidCredentials
	case authclient.KindTransport:
		return MsgUnavailable
	default:
		return MsgSignInFailed
	}
}
