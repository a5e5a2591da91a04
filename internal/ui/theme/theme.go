// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package theme carries the visitor's colour scheme preference.

The preference (light, dark or system) is persisted in a cookie. "system" is
resolved against the browser's Sec-CH-Prefers-Color-Scheme client hint, so the
first paint already uses the right palette.
*/
package theme

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stories/internal/platform/apperr"
	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/platform/respond"
)

// Theme is a colour scheme preference.
type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	System Theme = "system"
)

// Default is used when no valid preference is stored.
const Default = System

const (
	// CookieName stores the preference.
	CookieName = "stories_theme"

	// HintHeader is the client hint carrying the OS colour scheme.
	HintHeader = "Sec-CH-Prefers-Color-Scheme"

	cookieMaxAge = 365 * 24 * time.Hour
)

// All lists the selectable preferences in menu order.
var All = []Theme{Light, Dark, System}

// Parse accepts a preference name, case-insensitively.
func Parse(raw string) (Theme, bool) {
	switch candidate := Theme(strings.ToLower(strings.TrimSpace(raw))); candidate {
	case Light, Dark, System:
		return candidate, true
	default:
		return Default, false
	}
}

// Label returns the menu label shown to readers.
func (t Theme) Label() string {
	switch t {
	case Light:
		return "Claro"
	case Dark:
		return "Oscuro"
	default:
		return "Sistema"
	}
}

// # Resolution

// Context is the theme state of one request.
type Context struct {
	// Preference is what the visitor chose.
	Preference Theme
	// Effective is light or dark, never system.
	Effective Theme
}

// Resolve returns the concrete scheme for pref: an explicit choice wins, "system"
// follows the client hint, and light is used when the hint is absent.
func Resolve(pref Theme, request *http.Request) Theme {
	if pref == Light || pref == Dark {
		return pref
	}

	hint := strings.Trim(strings.TrimSpace(request.Header.Get(HintHeader)), `"`)
	if strings.EqualFold(hint, string(Dark)) {
		return Dark
	}
	return Light
}

// FromRequest reads the stored preference. Absent or invalid cookies yield [Default].
func FromRequest(request *http.Request) Theme {
	cookie, err := request.Cookie(CookieName)
	if err != nil {
		return Default
	}
	pref, _ := Parse(cookie.Value)
	return pref
}

type contextKey struct{}

// WithContext stores state in ctx.
func WithContext(ctx context.Context, state Context) context.Context {
	return context.WithValue(ctx, contextKey{}, state)
}

// FromContext returns the request's theme state, defaulting to system/light.
func FromContext(ctx context.Context) Context {
	state, ok := ctx.Value(contextKey{}).(Context)
	if !ok {
		return Context{Preference: Default, Effective: Light}
	}
	return state
}

// Middleware resolves the theme for every request and asks the browser for the hint.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header := writer.Header()
		header.Set("Accept-CH", HintHeader)
		header.Add("Vary", HintHeader)
		header.Add("Vary", "Cookie")

		pref := FromRequest(request)
		state := Context{Preference: pref, Effective: Resolve(pref, request)}

		next.ServeHTTP(writer, request.WithContext(WithContext(request.Context(), state)))
	})
}

// # Persistence

// Cookie builds the preference cookie.
func Cookie(pref Theme, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(pref),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Expires:  time.Now().Add(cookieMaxAge),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Handler persists theme selections.
type Handler struct {
	secureCookies bool
}

// NewHandler constructs a [Handler].
func NewHandler(secureCookies bool) *Handler {
	return &Handler{secureCookies: secureCookies}
}

// Routes returns a [chi.Router] with the selection endpoint.
//
// # Endpoints
//   - POST / : Stores the preference and redirects back.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.set)
	return router
}

/*
Set stores the visitor's theme choice.

POST /theme

Request:
  - Form: theme (light | dark | system)

Response:
  - 303: Back to the same-origin Referer path, or "/"
  - 400: Unknown theme
*/
func (handler *Handler) set(writer http.ResponseWriter, request *http.Request) {
	pref, ok := Parse(request.PostFormValue("theme"))
	if !ok {
		respond.Error(writer, request, apperr.ValidationError("Unknown theme", apperr.FieldError{
			Field:   "theme",
			Message: "Must be one of: light, dark, system",
		}))
		return
	}

	http.SetCookie(writer, Cookie(pref, handler.secureCookies))
	respond.SeeOther(writer, request, ReturnPath(request))
}

// ReturnPath extracts a local path from the Referer, so the redirect can never
// leave this origin.
func ReturnPath(request *http.Request) string {
	referer, err := url.Parse(request.Referer())
	if err != nil || referer.Path == "" || !strings.HasPrefix(referer.Path, "/") || strings.HasPrefix(referer.Path, "//") {
		return constants.PathLanding
	}
	if referer.Host != "" && referer.Host != request.Host {
		return constants.PathLanding
	}

	local := url.URL{Path: referer.Path, RawQuery: referer.RawQuery}
	return local.String()
}
