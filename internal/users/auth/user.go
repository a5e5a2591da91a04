// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth defines the identity contract shared with the external identity provider.

It describes the shapes of [User], [Session] and [SessionData] exactly as the provider
serializes them, plus the small set of defaults applied to every decoded payload.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and are consumed by every feature package (registration, sign-in,
dashboard, settings). Persistence, password hashing and token signing are owned by
the provider and never happen here.
*/
package auth

import (
	"strings"
	"time"
)

// DefaultLocale is applied when the provider returns an account without a locale.
const DefaultLocale = "es"

// # Domain Entities

// User represents a registered reader or staff member.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	EmailVerified bool       `json:"emailVerified"`
	Name          string     `json:"name"`
	Image         *string    `json:"image,omitempty"`
	Role          Role       `json:"role"`
	Locale        string     `json:"locale"`
	Bio           *string    `json:"bio,omitempty"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Normalize applies the account defaults in place.
//
// An empty or unknown role becomes [DefaultRole], a known role is upper-cased and an
// empty locale becomes [DefaultLocale].
func (user *User) Normalize() {
	user.Role, _ = ParseRole(string(user.Role))

	if strings.TrimSpace(user.Locale) == "" {
		user.Locale = DefaultLocale
	}
}

// Session represents one authenticated browser session held by the provider.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	Token     string    `json:"token"`
	IPAddress *string   `json:"ipAddress,omitempty"`
	UserAgent *string   `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Valid reports whether the session is still usable at the given instant.
func (session Session) Valid(now time.Time) bool {
	return now.Before(session.ExpiresAt)
}

// SessionData is the pair the provider returns for an authenticated request.
type SessionData struct {
	Session Session `json:"session"`
	User    User    `json:"user"`
}

// Valid delegates to the embedded session.
func (data *SessionData) Valid(now time.Time) bool {
	return data != nil && data.Session.Valid(now)
}

// # Field Identifiers

// Form and payload field names used for validation and error mapping.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldLocale          = "locale"
	FieldBio             = "bio"
	FieldImage           = "image"
	FieldProvider        = "provider"
)
