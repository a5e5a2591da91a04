// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// # Error Taxonomy

// Kind is the coarse category a facade failure falls into.
//
// Pages map a Kind onto one of their fixed messages; the provider's own text is
// only ever logged.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindTransport
)

// String returns the snake_case label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// PageStatus is the status a form page answers with when it re-renders after a
// failure of this kind.
func (k Kind) PageStatus() int {
	switch k {
	case KindConflict:
		return http.StatusConflict
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

// Error is a non-2xx answer from the identity provider.
type Error struct {
	// Op is the facade operation that failed (e.g. "sign_up").
	Op string
	// Status is the HTTP status returned by the provider.
	Status int
	// Code is the provider's machine-readable error code, when present.
	Code string
	// Message is the provider's text. It is for logs only.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("authclient: %s: %d %s: %s", e.Op, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("authclient: %s: %d: %s", e.Op, e.Status, e.Message)
}

var (
	// ErrUnsupportedProvider is returned for social providers other than GitHub and Google.
	ErrUnsupportedProvider = errors.New("authclient: unsupported social provider")

	// ErrSessionMissing is returned when the provider accepted credentials but
	// issued no session.
	ErrSessionMissing = errors.New("authclient: provider issued no session")
)

// Provider error codes this application reacts to.
var (
	conflictCodes = []string{
		"USER_ALREADY_EXISTS",
	}
	authenticationCodes = []string{
		"INVALID_EMAIL_OR_PASSWORD",
		"INVALID_PASSWORD",
		"USER_NOT_FOUND",
		"EMAIL_NOT_VERIFIED",
		"SESSION_EXPIRED",
		"INVALID_TOKEN",
		"UNAUTHORIZED",
	}
	validationCodes = []string{
		"PASSWORD_TOO_SHORT",
		"PASSWORD_TOO_LONG",
		"INVALID_EMAIL",
		"VALIDATION_ERROR",
		"PROVIDER_NOT_FOUND",
	}
)

/*
Classify maps any facade error onto a [Kind].

Description: Checks are applied in order of reliability:

 1. Known sentinel errors and provider error codes.
 2. A provider message mentioning an existing account, whatever the status.
 3. The provider's HTTP status.
 4. Network failures and deadlines.
 5. Any other error message mentioning an existing account.

Parameters:
  - err: error

Returns:
  - Kind: KindUnknown when nothing matches (including nil)
*/
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	// ── 1. Sentinels & Provider Codes ─────────────────────────────────────
	if errors.Is(err, ErrUnsupportedProvider) {
		return KindValidation
	}

	var providerErr *Error
	if errors.As(err, &providerErr) {
		if kind, ok := classifyCode(providerErr.Code); ok {
			return kind
		}

		// ── 2. Existing Account ───────────────────────────────────────────
		if mentionsExistingAccount(providerErr.Message) {
			return KindConflict
		}

		// ── 3. HTTP Status ────────────────────────────────────────────────
		if kind, ok := classifyStatus(providerErr.Status); ok {
			return kind
		}
	}

	// ── 4. Network ────────────────────────────────────────────────────────
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return KindTransport
	}

	// ── 5. Message Heuristic ──────────────────────────────────────────────
	if mentionsExistingAccount(err.Error()) {
		return KindConflict
	}

	return KindUnknown
}

func classifyCode(code string) (Kind, bool) {
	if code == "" {
		return KindUnknown, false
	}

	for _, prefix := range conflictCodes {
		if strings.HasPrefix(code, prefix) {
			return KindConflict, true
		}
	}
	for _, known := range authenticationCodes {
		if code == known {
			return KindAuthentication, true
		}
	}
	for _, known := range validationCodes {
		if code == known {
			return KindValidation, true
		}
	}
	return KindUnknown, false
}

func classifyStatus(status int) (Kind, bool) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthentication, true
	case status == http.StatusConflict:
		return KindConflict, true
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation, true
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return KindTransport, true
	default:
		return KindUnknown, false
	}
}

// mentionsExistingAccount is the only place free text influences classification.
// Older provider versions report duplicates without a code and with varying statuses.
func mentionsExistingAccount(message string) bool {
	return strings.Contains(strings.ToLower(message), "already exists")
}
