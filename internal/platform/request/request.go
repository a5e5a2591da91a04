// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the router's parameter extraction and form decoding, ensuring
consistent error handling across the page handlers.
*/
package requestutil

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stories/internal/platform/apperr"
	"github.com/taibuivan/stories/internal/platform/ctxutil"
	"github.com/taibuivan/stories/internal/platform/validate"
	"github.com/taibuivan/stories/internal/users/auth"
)

// MaxFormBytes bounds an urlencoded form body.
const MaxFormBytes = 64 << 10

/*
ParseForm reads an urlencoded form body of at most [MaxFormBytes].

Returns:
  - error: validate.ErrInvalidForm if the body is oversized or malformed
*/
func ParseForm(writer http.ResponseWriter, request *http.Request) error {
	request.Body = http.MaxBytesReader(writer, request.Body, MaxFormBytes)
	if err := request.ParseForm(); err != nil {
		return validate.ErrInvalidForm
	}
	return nil
}

// Field returns a trimmed form value.
func Field(request *http.Request, name string) string {
	return strings.TrimSpace(request.PostForm.Get(name))
}

// Secret returns a form value verbatim. Passwords are never trimmed.
func Secret(request *http.Request, name string) string {
	return request.PostForm.Get(name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Session extracts the resolved session from the request context.

Returns nil if the request is not authenticated.
*/
func Session(request *http.Request) *auth.SessionData {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredSession ensures the request is authenticated.

Returns:
  - *auth.SessionData: The session loaded by the LoadSession middleware
  - string: The raw session token
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredSession(request *http.Request) (*auth.SessionData, string, error) {

	// Get the session
	data := ctxutil.GetSession(request.Context())

	// If the user is not authenticated, return an error
	if data == nil {
		return nil, "", apperr.Unauthorized("Authentication required")
	}

	return data, ctxutil.GetSessionToken(request.Context()), nil
}
