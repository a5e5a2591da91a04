// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stories/internal/users/authclient"
)

/*
TestClassify verifies the classification order: codes, existing account, status, network, heuristic.
*/
func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want authclient.Kind
	}{
		{"nil", nil, authclient.KindUnknown},
		{"unsupported provider", fmt.Errorf("wrap: %w", authclient.ErrUnsupportedProvider), authclient.KindValidation},
		{"duplicate code", &authclient.Error{Status: 422, Code: "USER_ALREADY_EXISTS"}, authclient.KindConflict},
		{"duplicate code variant", &authclient.Error{Status: 400, Code: "USER_ALREADY_EXISTS_USE_ANOTHER_EMAIL"}, authclient.KindConflict},
		{"bad credentials code", &authclient.Error{Status: 401, Code: "INVALID_EMAIL_OR_PASSWORD"}, authclient.KindAuthentication},
		{"short password code", &authclient.Error{Status: 400, Code: "PASSWORD_TOO_SHORT"}, authclient.KindValidation},
		{"code wins over status", &authclient.Error{Status: 500, Code: "INVALID_EMAIL"}, authclient.KindValidation},
		{"401 without code", &authclient.Error{Status: 401}, authclient.KindAuthentication},
		{"403 without code", &authclient.Error{Status: 403}, authclient.KindAuthentication},
		{"409 without code", &authclient.Error{Status: 409}, authclient.KindConflict},
		{"422 mentioning duplicate", &authclient.Error{Status: 422, Message: "User already exists"}, authclient.KindConflict},
		{"400 mentioning duplicate", &authclient.Error{Status: 400, Message: "User already exists"}, authclient.KindConflict},
		{"500 mentioning duplicate", &authclient.Error{Status: 500, Message: "user already exists"}, authclient.KindConflict},
		{"401 mentioning duplicate", &authclient.Error{Status: 401, Message: "already exists"}, authclient.KindConflict},
		{"wrapped 400 mentioning duplicate", fmt.Errorf("sign up: %w", &authclient.Error{Status: 400, Message: "User already exists"}), authclient.KindConflict},
		{"code wins over duplicate text", &authclient.Error{Status: 400, Code: "PASSWORD_TOO_SHORT", Message: "already exists"}, authclient.KindValidation},
		{"422 other", &authclient.Error{Status: 422, Message: "Invalid body"}, authclient.KindValidation},
		{"400 without code", &authclient.Error{Status: 400}, authclient.KindValidation},
		{"429", &authclient.Error{Status: 429}, authclient.KindTransport},
		{"503", &authclient.Error{Status: 503}, authclient.KindTransport},
		{"dial failure", fmt.Errorf("authclient: sign_up: %w", &net.OpError{Op: "dial", Err: errors.New("connection refused")}), authclient.KindTransport},
		{"deadline", fmt.Errorf("authclient: session: %w", context.DeadlineExceeded), authclient.KindTransport},
		{"truncated body", io.ErrUnexpectedEOF, authclient.KindTransport},
		{"free text duplicate", errors.New("An account with this email ALREADY EXISTS"), authclient.KindConflict},
		{"418 without code", &authclient.Error{Status: 418, Message: "teapot"}, authclient.KindUnknown},
		{"anything else", errors.New("boom"), authclient.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authclient.Classify(tt.err))
		})
	}
}

/*
TestKind_String verifies the labels used in logs and metrics.
*/
func TestKind_String(t *testing.T) {
	assert.Equal(t, "validation", authclient.KindValidation.String())
	assert.Equal(t, "conflict", authclient.KindConflict.String())
	assert.Equal(t, "authentication", authclient.KindAuthentication.String())
	assert.Equal(t, "transport", authclient.KindTransport.String())
	assert.Equal(t, "unknown", authclient.KindUnknown.String())
}

/*
TestKind_PageStatus verifies the status a form page re-renders with.
*/
func TestKind_PageStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, authclient.KindValidation.PageStatus())
	assert.Equal(t, http.StatusConflict, authclient.KindConflict.PageStatus())
	assert.Equal(t, http.StatusUnauthorized, authclient.KindAuthentication.PageStatus())
	assert.Equal(t, http.StatusBadGateway, authclient.KindTransport.PageStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, authclient.KindUnknown.PageStatus())
}
