// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient

import (
	"net/http"
	"time"

	"github.com/taibuivan/stories/internal/users/auth"
)

// SessionCookie builds the browser cookie for data, named as the provider names it,
// so requests proxied to the provider carry the same credential.
func SessionCookie(data *auth.SessionData, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName(secure),
		Value:    data.Session.Token,
		Path:     "/",
		Expires:  data.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName(secure),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ReadSessionToken returns the session cookie value, or "" when absent.
func ReadSessionToken(request *http.Request, secure bool) string {
	cookie, err := request.Cookie(SessionCookieName(secure))
	if err != nil {
		return ""
	}
	return cookie.Value
}
