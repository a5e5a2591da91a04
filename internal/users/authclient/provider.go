// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authclient is the single gateway between this application and the external
identity provider (a better-auth compatible REST API).

Architecture:

  - Provider: Thin HTTP transport for the provider's endpoints.
  - Client: The facade used by every page. Adds caching, metrics and change events.
  - Subscription: Reactive session reads ({data, isPending, error}) fed by the Hub.
  - Hub: Per-token fan-out of sign-in, sign-out and profile updates, optionally
    relayed across instances through Redis.

No password hashing, token signing or persistence happens here; the provider owns
all of it. Failures are classified once, in [Classify].
*/
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/stories/internal/users/auth"
)

// # Cookies

const (
	// CookieName is the provider's session cookie.
	CookieName = "better-auth.session_token"

	// SecureCookiePrefix is prepended to [CookieName] when cookies are Secure.
	SecureCookiePrefix = "__Secure-"
)

// SessionCookieName returns the cookie name the provider uses for the given mode.
func SessionCookieName(secure bool) string {
	if secure {
		return SecureCookiePrefix + CookieName
	}
	return CookieName
}

// # Social Providers

// SocialProvider names an OAuth provider configured on the identity service.
type SocialProvider string

const (
	SocialGitHub SocialProvider = "github"
	SocialGoogle SocialProvider = "google"
)

// ParseSocialProvider accepts the lower-case names used in URLs.
func ParseSocialProvider(raw string) (SocialProvider, error) {
	switch provider := SocialProvider(strings.ToLower(strings.TrimSpace(raw))); provider {
	case SocialGitHub, SocialGoogle:
		return provider, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, raw)
	}
}

// Label returns the provider's display name.
func (provider SocialProvider) Label() string {
	switch provider {
	case SocialGitHub:
		return "GitHub"
	case SocialGoogle:
		return "Google"
	default:
		return string(provider)
	}
}

// # Inputs

// SignUpInput holds the data required to enroll a new account.
//
// There is deliberately no role field: roles are assigned by the provider.
type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileInput holds the user-editable profile fields. Nil pointers are left unchanged.
type ProfileInput struct {
	Name   *string `json:"name,omitempty"`
	Image  *string `json:"image,omitempty"`
	Locale *string `json:"locale,omitempty"`
	Bio    *string `json:"bio,omitempty"`
}

// Redirect is the provider's answer to a social sign-in: where to send the browser,
// and the state cookies the browser must carry when it comes back.
type Redirect struct {
	URL     string
	Cookies []*http.Cookie
}

// # Transport

// ProviderConfig configures [NewProvider].
type ProviderConfig struct {
	// BaseURL is the absolute root of the provider API, including its base path.
	BaseURL *url.URL
	// Timeout bounds every provider call.
	Timeout time.Duration
	// SecureCookies selects the "__Secure-" cookie name.
	SecureCookies bool
	// HTTPClient overrides the default client. Optional.
	HTTPClient *http.Client
}

// Provider is the HTTP transport for the identity provider's REST API.
type Provider struct {
	baseURL    *url.URL
	origin     string
	cookieName string
	httpClient *http.Client
}

// NewProvider constructs a [Provider].
func NewProvider(config ProviderConfig) *Provider {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Provider{
		baseURL:    config.BaseURL,
		origin:     config.BaseURL.Scheme + "://" + config.BaseURL.Host,
		cookieName: SessionCookieName(config.SecureCookies),
		httpClient: httpClient,
	}
}

// CookieName returns the session cookie name this provider issues.
func (provider *Provider) CookieName() string {
	return provider.cookieName
}

type tokenResponse struct {
	Token string `json:"token"`
}

type socialRequest struct {
	Provider        SocialProvider `json:"provider"`
	CallbackURL     string         `json:"callbackURL"`
	DisableRedirect bool           `json:"disableRedirect"`
}

type socialResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SignUpEmail creates an account and returns the new session credential.
func (provider *Provider) SignUpEmail(context context.Context, input SignUpInput) (string, error) {
	var body tokenResponse
	response, err := provider.do(context, "sign_up", http.MethodPost, "/sign-up/email", "", input, &body)
	if err != nil {
		return "", err
	}
	return provider.sessionToken(response, body.Token)
}

// SignInEmail authenticates with email and password and returns the session credential.
func (provider *Provider) SignInEmail(context context.Context, email, password string) (string, error) {
	payload := map[string]string{auth.FieldEmail: email, auth.FieldPassword: password}

	var body tokenResponse
	response, err := provider.do(context, "sign_in_email", http.MethodPost, "/sign-in/email", "", payload, &body)
	if err != nil {
		return "", err
	}
	return provider.sessionToken(response, body.Token)
}

// SignInSocial asks the provider for the OAuth authorization URL.
func (provider *Provider) SignInSocial(context context.Context, social SocialProvider, callbackURL string) (*Redirect, error) {
	payload := socialRequest{Provider: social, CallbackURL: callbackURL, DisableRedirect: true}

	var body socialResponse
	response, err := provider.do(context, "sign_in_social", http.MethodPost, "/sign-in/social", "", payload, &body)
	if err != nil {
		return nil, err
	}
	if body.URL == "" {
		return nil, &Error{Op: "sign_in_social", Status: response.StatusCode, Message: "missing authorization url"}
	}

	return &Redirect{URL: body.URL, Cookies: response.Cookies()}, nil
}

// SignOut revokes the session identified by token.
func (provider *Provider) SignOut(context context.Context, token string) error {
	_, err := provider.do(context, "sign_out", http.MethodPost, "/sign-out", token, struct{}{}, nil)
	return err
}

// GetSession returns the session for token, or nil when the provider answers null.
//
// The returned [auth.Session.Token] is the credential that was presented, so it
// can be handed back to the browser unchanged.
func (provider *Provider) GetSession(context context.Context, token string) (*auth.SessionData, error) {
	var data *auth.SessionData
	if _, err := provider.do(context, "session", http.MethodGet, "/get-session", token, nil, &data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	data.User.Normalize()
	data.Session.Token = token

	return data, nil
}

// UpdateUser changes the profile of the signed-in user.
func (provider *Provider) UpdateUser(context context.Context, token string, input ProfileInput) error {
	_, err := provider.do(context, "update_user", http.MethodPost, "/update-user", token, input, nil)
	return err
}

// Ping checks the provider's health endpoint. It is used by the readiness probe.
func (provider *Provider) Ping(context context.Context) error {
	_, err := provider.do(context, "ping", http.MethodGet, "/ok", "", nil, nil)
	return err
}

// # Helpers

/*
do performs one provider call.

Description: Encodes payload as JSON (when non-nil), attaches the session cookie
(when token is non-empty) and decodes a 2xx body into out. Non-2xx answers become
an [*Error]; transport failures are wrapped with the operation name.
*/
func (provider *Provider) do(context context.Context, op, method, path, token string, payload, out any) (*http.Response, error) {

	// ── 1. Build Request ──────────────────────────────────────────────────
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("authclient: %s: encode: %w", op, err)
		}
		body = bytes.NewReader(encoded)
	}

	endpoint := provider.baseURL.JoinPath(path)
	request, err := http.NewRequestWithContext(context, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("authclient: %s: build request: %w", op, err)
	}

	request.Header.Set("Accept", "application/json")
	request.Header.Set("Origin", provider.origin)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.AddCookie(&http.Cookie{Name: provider.cookieName, Value: token})
	}

	// ── 2. Execute ────────────────────────────────────────────────────────
	response, err := provider.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("authclient: %s: %w", op, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("authclient: %s: read body: %w", op, err)
	}

	// ── 3. Error Mapping ──────────────────────────────────────────────────
	if response.StatusCode < 200 || response.StatusCode > 299 {
		providerErr := &Error{Op: op, Status: response.StatusCode, Message: http.StatusText(response.StatusCode)}

		var decoded errorResponse
		if json.Unmarshal(raw, &decoded) == nil {
			providerErr.Code = decoded.Code
			if decoded.Message != "" {
				providerErr.Message = decoded.Message
			}
		}
		return nil, providerErr
	}

	// ── 4. Decode ─────────────────────────────────────────────────────────
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("authclient: %s: decode: %w", op, err)
		}
	}

	return response, nil
}

// sessionToken prefers the Set-Cookie value over the JSON token: the cookie is
// what the provider expects to be presented back.
func (provider *Provider) sessionToken(response *http.Response, fallback string) (string, error) {
	for _, cookie := range response.Cookies() {
		if cookie.Name == provider.cookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrSessionMissing
}
