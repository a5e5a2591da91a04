// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package theme_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stories/internal/ui/theme"
)

/*
TestParse verifies accepted names and the system fallback.
*/
func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		want   theme.Theme
		wantOK bool
	}{
		{"light", theme.Light, true},
		{"DARK", theme.Dark, true},
		{" system ", theme.System, true},
		{"", theme.System, false},
		{"sepia", theme.System, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := theme.Parse(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

/*
TestLabel verifies the menu labels.
*/
func TestLabel(t *testing.T) {
	assert.Equal(t, "Claro", theme.Light.Label())
	assert.Equal(t, "Oscuro", theme.Dark.Label())
	assert.Equal(t, "Sistema", theme.System.Label())
}

/*
TestResolve verifies explicit preferences win and system follows the client hint.
*/
func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		pref theme.Theme
		hint string
		want theme.Theme
	}{
		{"explicit light ignores hint", theme.Light, "dark", theme.Light},
		{"explicit dark", theme.Dark, "", theme.Dark},
		{"system with dark hint", theme.System, "dark", theme.Dark},
		{"system with quoted hint", theme.System, `"dark"`, theme.Dark},
		{"system with light hint", theme.System, "light", theme.Light},
		{"system without hint", theme.System, "", theme.Light},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.hint != "" {
				request.Header.Set(theme.HintHeader, tt.hint)
			}
			assert.Equal(t, tt.want, theme.Resolve(tt.pref, request))
		})
	}
}

/*
TestMiddleware verifies the context state and the client hint headers.
*/
func TestMiddleware(t *testing.T) {
	var state theme.Context
	handler := theme.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state = theme.FromContext(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: theme.CookieName, Value: "system"})
	request.Header.Set(theme.HintHeader, "dark")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, theme.System, state.Preference)
	assert.Equal(t, theme.Dark, state.Effective)
	assert.Equal(t, theme.HintHeader, recorder.Header().Get("Accept-CH"))
	assert.Contains(t, recorder.Header().Values("Vary"), theme.HintHeader)

	// Invalid cookie falls back to system.
	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: theme.CookieName, Value: "neon"})
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, theme.System, state.Preference)
	assert.Equal(t, theme.Light, state.Effective)
}

/*
TestFromContext_Default verifies the default without middleware.
*/
func TestFromContext_Default(t *testing.T) {
	state := theme.FromContext(context.Background())
	assert.Equal(t, theme.System, state.Preference)
	assert.Equal(t, theme.Light, state.Effective)
}

/*
TestHandler_Set verifies persistence and the same-origin redirect.
*/
func TestHandler_Set(t *testing.T) {
	router := theme.NewHandler(true).Routes()

	tests := []struct {
		name         string
		value        string
		referer      string
		wantStatus   int
		wantLocation string
	}{
		{"dark back to dashboard", "dark", "http://example.com/dashboard?tab=1", http.StatusSeeOther, "/dashboard?tab=1"},
		{"foreign referer", "light", "https://evil.example/phish", http.StatusSeeOther, "/"},
		{"protocol relative path", "light", "//evil.example/phish", http.StatusSeeOther, "/"},
		{"no referer", "system", "", http.StatusSeeOther, "/"},
		{"unknown theme", "sepia", "http://example.com/", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"theme": {tt.value}}
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
			request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.referer != "" {
				request.Header.Set("Referer", tt.referer)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			require.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus != http.StatusSeeOther {
				return
			}

			assert.Equal(t, tt.wantLocation, recorder.Header().Get("Location"))
			cookies := recorder.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, theme.CookieName, cookies[0].Name)
			assert.Equal(t, tt.value, cookies[0].Value)
			assert.True(t, cookies[0].Secure)
		})
	}
}
