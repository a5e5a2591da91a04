// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package register implements account creation.

It validates the registration form locally, delegates account creation to the
identity provider through the auth facade, and maps every outcome onto one of a
fixed set of user-facing messages.

# Architecture

  - Flow: One per rendered form instance. Holds the in-flight gate.
  - Forms: Registry of flows keyed by the form's hidden instance id.
  - Handler: GET/POST /register and the OAuth shortcuts.

Provider text is never shown to the user; it is logged with its classified kind.
*/
package register

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/platform/validate"
	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
	"github.com/taibuivan/stories/internal/users/formgate"
)

// # User-Facing Messages

const (
	MsgPasswordMismatch = "Passwords don't match"
	MsgPasswordTooShort = "Password must be at least 8 characters"
	MsgNameRequired     = "Name is required"
	MsgInvalidEmail     = "Please enter a valid email address"
	MsgAccountExists    = "An account with this email already exists"
	MsgSignUpFailed     = "Failed to create account. Please try again."
)

// MinPasswordLength matches the provider's own minimum.
const MinPasswordLength = 8

// MsgProviderFailed returns the failure message for an OAuth shortcut.
func MsgProviderFailed(provider authclient.SocialProvider) string {
	return "Failed to register with " + provider.Label()
}

// # Contracts & Types

// Facade is the part of the auth facade registration needs.
type Facade interface {
	SignUp(ctx context.Context, input authclient.SignUpInput) (*auth.SessionData, error)
	SignInWithProvider(ctx context.Context, provider authclient.SocialProvider, callbackPath string) (*authclient.Redirect, error)
}

// Form is the registration form as submitted.
type Form struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Result is the outcome of one submission.
type Result struct {
	// Ignored is set when another submission of the same form was in flight.
	Ignored bool

	// Redirect is the destination after success ("/dashboard", or the OAuth URL).
	Redirect string
	// Session is the new session after an email sign-up.
	Session *auth.SessionData
	// Cookies must be forwarded to the browser with an OAuth redirect.
	Cookies []*http.Cookie

	// Error is the fixed message to display. Empty on success.
	Error string
	// Field names the offending input for validation failures.
	Field string
	// Kind classifies the failure.
	Kind authclient.Kind
}

// OK reports whether the submission succeeded.
func (result Result) OK() bool {
	return !result.Ignored && result.Error == ""
}

// Flow runs submissions for one form instance.
//
// # Concurrency
//
// Flow is safe for concurrent use; concurrent submissions are gated, not queued.
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

// Validate applies the local rules in priority order and returns the first failure.
//
// Rules: passwords match, password length, name present, email plausible. No
// provider call is made when this fails.
func Validate(form Form) (field, message string, ok bool) {
	validator := &validate.Validator{}
	validator.
		Custom(auth.FieldConfirmPassword, form.Password != form.ConfirmPassword, MsgPasswordMismatch).
		Custom(auth.FieldPassword, utf8.RuneCountInString(form.Password) < MinPasswordLength, MsgPasswordTooShort).
		Custom(auth.FieldName, strings.TrimSpace(form.Name) == "", MsgNameRequired).
		Custom(auth.FieldEmail, (&validate.Validator{}).Email(auth.FieldEmail, strings.TrimSpace(form.Email)).HasErrors(), MsgInvalidEmail)

	if first := validator.First(); first != nil {
		return first.Field, first.Message, false
	}
	return "", "", true
}

/*
Submit validates the form and creates the account.

Description: A submission that arrives while another is in flight returns
Result{Ignored:true} without touching the provider. The gate is released on every
exit path.

Parameters:
  - context: context.Context
  - form: Form

Returns:
  - Result
*/
func (flow *Flow) Submit(context context.Context, form Form) Result {
	if !flow.gate.TryAcquire() {
		return Result{Ignored: true}
	}
	defer flow.gate.Release()

	// ── 1. Local Validation ───────────────────────────────────────────────
	if field, message, ok := Validate(form); !ok {
		return Result{Error: message, Field: field, Kind: authclient.KindValidation}
	}

	// ── 2. Provider Call ──────────────────────────────────────────────────
	started := time.Now()
	data, err := flow.facade.SignUp(context, authclient.SignUpInput{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})

	// ── 3. Outcome Mapping ────────────────────────────────────────────────
	if err != nil {
		kind := authclient.Classify(err)
		flow.logger.WarnContext(context, "registration_failed",
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(started)),
		)

		message := MsgSignUpFailed
		if kind == authclient.KindConflict {
			message = MsgAccountExists
		}
		return Result{Error: message, Kind: kind}
	}

	flow.logger.InfoContext(context, "registration_succeeded", slog.String("user_id", data.User.ID))

	return Result{Redirect: constants.PathDashboard, Session: data}
}

/*
SignInWithProvider starts an OAuth registration. Local validation does not apply.

Parameters:
  - context: context.Context
  - provider: authclient.SocialProvider

Returns:
  - Result: Redirect holds the authorization URL on success
*/
func (flow *Flow) SignInWithProvider(context context.Context, provider authclient.SocialProvider) Result {
	if !flow.gate.TryAcquire() {
		return Result{Ignored: true}
	}
	defer flow.gate.Release()

	redirect, err := flow.facade.SignInWithProvider(context, provider, constants.PathDashboard)
	if err != nil {
		kind := authclient.Classify(err)
		flow.logger.WarnContext(context, "oauth_registration_failed",
			slog.String("provider", string(provider)),
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		return Result{Error: MsgProviderFailed(provider), Kind: kind}
	}

	return Result{Redirect: redirect.URL, Cookies: redirect.Cookies}
}
