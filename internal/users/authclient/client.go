// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/platform/metrics"
	"github.com/taibuivan/stories/internal/users/auth"
)

// # Contracts & Types

// IdentityProvider is the transport the facade drives. [*Provider] implements it.
type IdentityProvider interface {
	SignUpEmail(ctx context.Context, input SignUpInput) (string, error)
	SignInEmail(ctx context.Context, email, password string) (string, error)
	SignInSocial(ctx context.Context, provider SocialProvider, callbackURL string) (*Redirect, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*auth.SessionData, error)
	UpdateUser(ctx context.Context, token string, input ProfileInput) error
}

// Recorder receives facade metrics. [*metrics.Collector] implements it.
type Recorder interface {
	RecordAuthRequest(op, kind string, duration time.Duration)
	RecordCacheLookup(hit bool)
	AddSubscriptions(delta int)
}

// Config holds the facade's collaborators. Only Provider is required.
type Config struct {
	Provider IdentityProvider
	Cache    Cache
	Hub      *Hub
	Metrics  Recorder
	Logger   *slog.Logger
	Now      func() time.Time
}

// Client is the facade every page uses to talk to the identity provider.
//
// # Concurrency
//
// Client is safe for concurrent use.
type Client struct {
	provider IdentityProvider
	cache    Cache
	hub      *Hub
	metrics  Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// New constructs a [Client], filling in in-process defaults for missing collaborators.
func New(config Config) *Client {
	client := &Client{
		provider: config.Provider,
		cache:    config.Cache,
		hub:      config.Hub,
		metrics:  config.Metrics,
		logger:   config.Logger,
		now:      config.Now,
	}

	if client.cache == nil {
		client.cache = NewInMemoryCache(0, 0)
	}
	if client.hub == nil {
		client.hub = NewHub()
	}
	if client.metrics == nil {
		client.metrics = metrics.Nop{}
	}
	if client.logger == nil {
		client.logger = slog.Default()
	}
	if client.now == nil {
		client.now = time.Now
	}

	return client
}

// Hub returns the event hub the client publishes to.
func (client *Client) Hub() *Hub {
	return client.hub
}

// # Operations

/*
SignUp creates an account and returns the new session.

Description: After the provider accepts the account, the full session is read back
so the caller can set the cookie and render the user without a second round trip.
When that read fails, the result carries only the token: the account already exists,
so reporting a failure would make a retry answer "already exists".

Parameters:
  - context: context.Context
  - input: SignUpInput (Name, Email, Password)

Returns:
  - *auth.SessionData: The signed-in session
  - error: Classified by [Classify]
*/
func (client *Client) SignUp(context context.Context, input SignUpInput) (data *auth.SessionData, err error) {
	defer client.observe("sign_up", time.Now(), &err)

	token, err := client.provider.SignUpEmail(context, input)
	if err != nil {
		return nil, err
	}

	data, err = client.establish(context, token)
	if err != nil && !errors.Is(err, ErrSessionMissing) {
		// The account exists; the gated page resolves the session later.
		client.logger.WarnContext(context, "session_read_after_sign_up_failed",
			slog.String("kind", Classify(err).String()),
			slog.String("error", err.Error()),
		)
		return &auth.SessionData{Session: auth.Session{Token: token}}, nil
	}

	return data, err
}

// SignInWithEmail authenticates with email and password and returns the new session.
func (client *Client) SignInWithEmail(context context.Context, email, password string) (data *auth.SessionData, err error) {
	defer client.observe("sign_in_email", time.Now(), &err)

	token, err := client.provider.SignInEmail(context, email, password)
	if err != nil {
		return nil, err
	}

	return client.establish(context, token)
}

/*
SignInWithProvider starts an OAuth sign-in.

Description: An empty callbackPath defaults to the dashboard. The returned
[Redirect] carries the provider's state cookies, which must be forwarded to the
browser together with the redirect.

Parameters:
  - context: context.Context
  - provider: SocialProvider (github | google)
  - callbackPath: string

Returns:
  - *Redirect: Authorization URL and cookies
  - error: KindValidation for unknown providers, otherwise classified by [Classify]
*/
func (client *Client) SignInWithProvider(context context.Context, provider SocialProvider, callbackPath string) (redirect *Redirect, err error) {
	defer client.observe("sign_in_social", time.Now(), &err)

	if _, err := ParseSocialProvider(string(provider)); err != nil {
		return nil, err
	}

	if callbackPath == "" {
		callbackPath = constants.PathDashboard
	}

	return client.provider.SignInSocial(context, provider, callbackPath)
}

/*
SignOut revokes the session identified by token.

Description: The cached copy is always evicted. Subscribers are told the session
ended when the provider confirms it, or when the provider reports the session as
already gone.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: nil when the session no longer exists at the provider
*/
func (client *Client) SignOut(context context.Context, token string) (err error) {
	defer client.observe("sign_out", time.Now(), &err)

	if token == "" {
		return nil
	}

	tokenHash := HashToken(token)
	providerErr := client.provider.SignOut(context, token)

	client.evict(context, tokenHash)

	if providerErr != nil && Classify(providerErr) != KindAuthentication {
		return providerErr
	}

	client.publish(context, Event{Type: EventSignedOut, TokenHash: tokenHash})
	return nil
}

/*
Session performs a one-shot session read.

Description: Served from the cache when possible. An empty token, an unknown token
and an expired session all yield (nil, nil).

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *auth.SessionData: The session, or nil
  - error: Provider or transport failures
*/
func (client *Client) Session(context context.Context, token string) (data *auth.SessionData, err error) {
	if token == "" {
		return nil, nil
	}

	tokenHash := HashToken(token)

	// ── 1. Cache ──────────────────────────────────────────────────────────
	cached, err := client.cache.Get(context, tokenHash)
	switch {
	case err == nil && cached.Valid(client.now()):
		client.metrics.RecordCacheLookup(true)
		cached.Session.Token = token
		return cached, nil
	case err != nil && !errors.Is(err, ErrCacheMiss):
		client.logger.WarnContext(context, "session_cache_read_failed", slog.String("error", err.Error()))
	}
	client.metrics.RecordCacheLookup(false)

	// ── 2. Provider ───────────────────────────────────────────────────────
	defer client.observe("session", time.Now(), &err)

	data, err = client.provider.GetSession(context, token)
	if err != nil {
		if Classify(err) == KindAuthentication {
			return nil, nil
		}
		return nil, err
	}
	if !data.Valid(client.now()) {
		return nil, nil
	}

	client.store(context, tokenHash, data)
	return data, nil
}

/*
UpdateUser changes the signed-in user's profile and returns the refreshed session.

Parameters:
  - context: context.Context
  - token: string
  - input: ProfileInput

Returns:
  - *auth.SessionData: The refreshed session
  - error: Classified by [Classify]
*/
func (client *Client) UpdateUser(context context.Context, token string, input ProfileInput) (data *auth.SessionData, err error) {
	defer client.observe("update_user", time.Now(), &err)

	if err := client.provider.UpdateUser(context, token, input); err != nil {
		return nil, err
	}

	tokenHash := HashToken(token)
	client.evict(context, tokenHash)

	data, err = client.provider.GetSession(context, token)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSessionMissing
	}

	client.store(context, tokenHash, data)
	client.publish(context, Event{Type: EventUpdated, TokenHash: tokenHash})

	return data, nil
}

// # Helpers

// establish reads back the session for a freshly issued token.
func (client *Client) establish(context context.Context, token string) (*auth.SessionData, error) {
	data, err := client.provider.GetSession(context, token)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSessionMissing
	}

	tokenHash := HashToken(token)
	client.store(context, tokenHash, data)
	client.publish(context, Event{Type: EventSignedIn, TokenHash: tokenHash})

	return data, nil
}

// store caches data without its credential; callers already hold the token.
func (client *Client) store(context context.Context, tokenHash string, data *auth.SessionData) {
	stripped := *data
	stripped.Session.Token = ""

	if err := client.cache.Set(context, tokenHash, &stripped); err != nil {
		client.logger.WarnContext(context, "session_cache_write_failed", slog.String("error", err.Error()))
	}
}

func (client *Client) evict(context context.Context, tokenHash string) {
	if err := client.cache.Delete(context, tokenHash); err != nil {
		client.logger.WarnContext(context, "session_cache_delete_failed", slog.String("error", err.Error()))
	}
}

func (client *Client) publish(context context.Context, event Event) {
	if err := client.hub.Publish(context, event); err != nil {
		client.logger.WarnContext(context, "auth_event_publish_failed",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()),
		)
	}
}

// observe records one operation. It is deferred with a pointer to the named error.
func (client *Client) observe(op string, start time.Time, errp *error) {
	kind := metrics.OutcomeOK
	if *errp != nil {
		kind = Classify(*errp).String()
	}
	client.metrics.RecordAuthRequest(op, kind, time.Since(start))
}
