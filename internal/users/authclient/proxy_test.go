// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stories/internal/users/authclient"
)

/*
TestProxy_PreservesPath verifies OAuth callbacks reach the provider unchanged and
its cookies come back to the browser.
*/
func TestProxy_PreservesPath(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/callback/github", r.URL.Path)
		assert.Equal(t, "code=abc&state=xyz", r.URL.RawQuery)
		assert.NotEmpty(t, r.Header.Get("X-Forwarded-Host"))

		http.SetCookie(w, &http.Cookie{Name: "better-auth.session_token", Value: "signed"})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}))
	defer upstream.Close()

	base, err := url.Parse(upstream.URL + "/api/auth")
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/auth/callback/github?code=abc&state=xyz", nil)
	authclient.Proxy(base).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/dashboard", recorder.Header().Get("Location"))
	assert.Contains(t, recorder.Header().Get("Set-Cookie"), "better-auth.session_token=signed")
}

/*
TestProxy_UpstreamDown verifies a 502 envelope when the provider is unreachable.
*/
func TestProxy_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	base, _ := url.Parse(upstream.URL + "/api/auth")
	upstream.Close()

	recorder := httptest.NewRecorder()
	authclient.Proxy(base).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/auth/ok", nil))

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "BAD_GATEWAY")
}

/*
TestSessionCookie verifies the browser cookie attributes.
*/
func TestSessionCookie(t *testing.T) {
	data := sessionFor("ana", fixedNow())
	data.Session.Token = "signed"

	cookie := authclient.SessionCookie(data, true)
	assert.Equal(t, "__Secure-better-auth.session_token", cookie.Name)
	assert.Equal(t, "signed", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, data.Session.ExpiresAt, cookie.Expires)

	cleared := authclient.ClearSessionCookie(false)
	assert.Equal(t, "better-auth.session_token", cleared.Name)
	assert.Equal(t, -1, cleared.MaxAge)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, authclient.ReadSessionToken(request, false))
	request.AddCookie(&http.Cookie{Name: "better-auth.session_token", Value: "signed"})
	assert.Equal(t, "signed", authclient.ReadSessionToken(request, false))
}
