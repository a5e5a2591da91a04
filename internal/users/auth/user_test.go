// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stories/internal/users/auth"
)

/*
TestParseRole verifies case-insensitive parsing and the READER fallback.
*/
func TestParseRole(t *testing.T) {
	tests := []struct {
		raw    string
		want   auth.Role
		wantOK bool
	}{
		{"ADMIN", auth.RoleAdmin, true},
		{"editor", auth.RoleEditor, true},
		{" Subscriber ", auth.RoleSubscriber, true},
		{"reader", auth.RoleReader, true},
		{"", auth.RoleReader, false},
		{"superuser", auth.RoleReader, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := auth.ParseRole(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

/*
TestRole_AtLeast verifies the ADMIN > EDITOR > SUBSCRIBER > READER ordering.
*/
func TestRole_AtLeast(t *testing.T) {
	assert.True(t, auth.RoleAdmin.AtLeast(auth.RoleEditor))
	assert.True(t, auth.RoleEditor.AtLeast(auth.RoleEditor))
	assert.True(t, auth.RoleSubscriber.AtLeast(auth.RoleReader))
	assert.False(t, auth.RoleReader.AtLeast(auth.RoleSubscriber))
	assert.False(t, auth.Role("GUEST").AtLeast(auth.RoleReader))
}

/*
TestUser_Normalize verifies the role and locale defaults.
*/
func TestUser_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		user       auth.User
		wantRole   auth.Role
		wantLocale string
	}{
		{"empty", auth.User{}, auth.RoleReader, "es"},
		{"unknown role", auth.User{Role: "ROOT", Locale: "en"}, auth.RoleReader, "en"},
		{"lowercase role", auth.User{Role: "admin", Locale: "es"}, auth.RoleAdmin, "es"},
		{"blank locale", auth.User{Role: auth.RoleEditor, Locale: "  "}, auth.RoleEditor, "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user
			user.Normalize()
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, tt.wantLocale, user.Locale)
		})
	}
}

/*
TestSessionData_Decode verifies that the provider's camelCase payload maps onto the contract.
*/
func TestSessionData_Decode(t *testing.T) {
	payload := `{
		"session": {
			"id": "sess_1",
			"userId": "usr_1",
			"expiresAt": "2030-01-02T03:04:05Z",
			"token": "tok",
			"ipAddress": "10.0.0.1",
			"createdAt": "2026-01-01T00:00:00Z",
			"updatedAt": "2026-01-01T00:00:00Z"
		},
		"user": {
			"id": "usr_1",
			"email": "ana@example.com",
			"emailVerified": true,
			"name": "Ana",
			"role": "EDITOR",
			"locale": "en",
			"bio": "Hola",
			"createdAt": "2026-01-01T00:00:00Z",
			"updatedAt": "2026-01-01T00:00:00Z"
		}
	}`

	var data auth.SessionData
	require.NoError(t, json.Unmarshal([]byte(payload), &data))

	assert.Equal(t, "usr_1", data.Session.UserID)
	assert.Equal(t, "tok", data.Session.Token)
	require.NotNil(t, data.Session.IPAddress)
	assert.Equal(t, "10.0.0.1", *data.Session.IPAddress)
	assert.Nil(t, data.Session.UserAgent)
	assert.True(t, data.User.EmailVerified)
	assert.Equal(t, auth.RoleEditor, data.User.Role)
	require.NotNil(t, data.User.Bio)
	assert.Equal(t, "Hola", *data.User.Bio)
}

/*
TestSessionData_Valid verifies expiry handling, including the nil receiver.
*/
func TestSessionData_Valid(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	var missing *auth.SessionData
	assert.False(t, missing.Valid(now))

	live := &auth.SessionData{Session: auth.Session{ExpiresAt: now.Add(time.Minute)}}
	assert.True(t, live.Valid(now))

	expired := &auth.SessionData{Session: auth.Session{ExpiresAt: now}}
	assert.False(t, expired.Valid(now))
}
