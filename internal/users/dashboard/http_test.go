// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard_test

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stories/internal/platform/ctxutil"
	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
	"github.com/taibuivan/stories/internal/users/dashboard"
)

const cookieName = "better-auth.session_token"

// provider is an [authclient.IdentityProvider] backed by a map. A non-nil gate
// holds GetSession until it is closed.
type provider struct {
	mu       sync.Mutex
	sessions map[string]*auth.SessionData
	gate     chan struct{}
	signOuts int
}

func newProvider() *provider {
	return &provider{sessions: make(map[string]*auth.SessionData)}
}

func (p *provider) SignUpEmail(context.Context, authclient.SignUpInput) (string, error) {
	return "", nil
}

func (p *provider) SignInEmail(context.Context, string, string) (string, error) {
	return "", nil
}

func (p *provider) SignInSocial(context.Context, authclient.SocialProvider, string) (*authclient.Redirect, error) {
	return &authclient.Redirect{}, nil
}

func (p *provider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOuts++
	delete(p.sessions, token)
	return nil
}

func (p *provider) GetSession(ctx context.Context, token string) (*auth.SessionData, error) {
	if p.gate != nil {
		select {
		case <-p.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.sessions[token]
	if !ok {
		return nil, nil
	}
	clone := *data
	return &clone, nil
}

func (p *provider) UpdateUser(context.Context, string, authclient.ProfileInput) error {
	return nil
}

func sessionFor(role auth.Role) *auth.SessionData {
	return &auth.SessionData{
		Session: auth.Session{ID: "sess_0123456789abcdef", UserID: "usr_1", ExpiresAt: time.Now().Add(time.Hour)},
		User:    auth.User{ID: "usr_1", Name: "Ana", Email: "ana@example.com", Role: role, Locale: "es"},
	}
}

func newHandler(p *provider, config dashboard.Config) (*dashboard.Handler, *authclient.Client) {
	client := authclient.New(authclient.Config{Provider: p, Logger: slog.New(slog.DiscardHandler)})
	return dashboard.NewHandler(client, config), client
}

func get(handler http.Handler, path, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		request.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Show verifies the three outcomes of GET /dashboard.
*/
func TestHandler_Show(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		p := newProvider()
		p.sessions["tok"] = sessionFor(auth.RoleEditor)
		handler, _ := newHandler(p, dashboard.Config{Wait: time.Second})

		recorder := get(handler.Routes(), "/", "tok")

		require.Equal(t, http.StatusOK, recorder.Code)
		body := recorder.Body.String()
		assert.Contains(t, body, "Welcome back, Ana!")
		assert.Contains(t, body, "ana@example.com")
		assert.Contains(t, body, "<span>Editor</span>")
		assert.Contains(t, body, "<span>ES</span>")
		assert.Contains(t, body, "sess_0123456789a...")
		assert.NotContains(t, body, "Debug Info")
	})

	t.Run("admin sees debug panel", func(t *testing.T) {
		p := newProvider()
		p.sessions["tok"] = sessionFor(auth.RoleAdmin)
		handler, _ := newHandler(p, dashboard.Config{Wait: time.Second})

		body := get(handler.Routes(), "/", "tok").Body.String()
		assert.Contains(t, body, "Debug Info")
		assert.NotContains(t, body, "&#34;token&#34;: &#34;tok&#34;")
	})

	t.Run("debug flag shows panel to readers", func(t *testing.T) {
		p := newProvider()
		p.sessions["tok"] = sessionFor(auth.RoleReader)
		handler, _ := newHandler(p, dashboard.Config{Wait: time.Second, Debug: true})

		assert.Contains(t, get(handler.Routes(), "/", "tok").Body.String(), "Debug Info")
	})

	t.Run("no cookie redirects", func(t *testing.T) {
		handler, _ := newHandler(newProvider(), dashboard.Config{Wait: time.Second})

		recorder := get(handler.Routes(), "/", "")

		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, "/login", recorder.Header().Get("Location"))
		assert.Empty(t, recorder.Body.String())
		assert.Empty(t, recorder.Result().Cookies())
	})

	t.Run("unknown token redirects and clears cookie", func(t *testing.T) {
		handler, _ := newHandler(newProvider(), dashboard.Config{Wait: time.Second})

		recorder := get(handler.Routes(), "/", "stale")

		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cookieName, cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("slow provider serves loading view", func(t *testing.T) {
		p := newProvider()
		p.gate = make(chan struct{})
		t.Cleanup(func() { close(p.gate) })
		handler, _ := newHandler(p, dashboard.Config{Wait: 20 * time.Millisecond})

		recorder := get(handler.Routes(), "/", "tok")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Loading...")
	})
}

/*
TestHandler_SignOut verifies that sign-out clears the cookie and leaves the gated page.
*/
func TestHandler_SignOut(t *testing.T) {
	p := newProvider()
	p.sessions["tok"] = sessionFor(auth.RoleReader)
	handler, _ := newHandler(p, dashboard.Config{Wait: time.Second})

	request := httptest.NewRequest(http.MethodPost, "/sign-out", nil)
	request.AddCookie(&http.Cookie{Name: cookieName, Value: "tok"})
	recorder := httptest.NewRecorder()
	handler.SignOut(recorder, request)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/", recorder.Header().Get("Location"))
	assert.Equal(t, 1, p.signOuts)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
}

/*
TestHandler_Session verifies the JSON session endpoint.
*/
func TestHandler_Session(t *testing.T) {
	handler, _ := newHandler(newProvider(), dashboard.Config{})

	recorder := httptest.NewRecorder()
	handler.Session(recorder, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	data := sessionFor(auth.RoleReader)
	data.Session.Token = "tok"
	request := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	request = request.WithContext(ctxutil.WithSession(request.Context(), "tok", data))
	recorder = httptest.NewRecorder()
	handler.Session(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data auth.SessionData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "usr_1", envelope.Data.User.ID)
	assert.Equal(t, "[redacted]", envelope.Data.Session.Token)
}

// readEvent returns the next "event:" name and its data line.
func readEvent(t *testing.T, reader *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
}

func openStream(t *testing.T, server *httptest.Server, query, token string) *bufio.Reader {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events"+query, nil)
	require.NoError(t, err)
	if token != "" {
		request.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { _ = response.Body.Close() })

	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "text/event-stream", response.Header.Get("Content-Type"))
	return bufio.NewReader(response.Body)
}

/*
TestHandler_Events verifies the event stream for anonymous visitors and sign-out elsewhere.
*/
func TestHandler_Events(t *testing.T) {
	t.Run("anonymous gets redirect", func(t *testing.T) {
		handler, _ := newHandler(newProvider(), dashboard.Config{})
		server := httptest.NewServer(handler.Routes())
		t.Cleanup(server.Close)

		event, data := readEvent(t, openStream(t, server, "", ""))
		assert.Equal(t, "redirect", event)
		assert.Equal(t, "/login", data)
	})

	t.Run("sign-out elsewhere redirects", func(t *testing.T) {
		p := newProvider()
		p.sessions["tok"] = sessionFor(auth.RoleReader)
		handler, client := newHandler(p, dashboard.Config{})
		server := httptest.NewServer(handler.Routes())
		t.Cleanup(server.Close)

		reader := openStream(t, server, "", "tok")

		event, data := readEvent(t, reader)
		require.Equal(t, "state", event)
		assert.Equal(t, "authenticated", data)

		require.NoError(t, client.SignOut(context.Background(), "tok"))

		event, data = readEvent(t, reader)
		assert.Equal(t, "redirect", event)
		assert.Equal(t, "/login", data)
	})
}
