// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "strings"

// # User Roles

// Role represents the authorization level granted to an account.
//
// Roles are assigned by the identity provider. Nothing in this codebase sends a
// role back to it.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "ADMIN"

	// Can edit and publish stories written by others
	RoleEditor Role = "EDITOR"

	// Paying reader with access to premium stories
	RoleSubscriber Role = "SUBSCRIBER"

	// Default role for newly registered accounts
	RoleReader Role = "READER"
)

// DefaultRole is applied when the provider omits the role or sends an unknown one.
const DefaultRole = RoleReader

// ParseRole converts raw input into a [Role].
//
// The comparison is case-insensitive. Unknown values yield [DefaultRole] and ok=false.
func ParseRole(raw string) (role Role, ok bool) {
	candidate := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !candidate.Valid() {
		return DefaultRole, false
	}
	return candidate, true
}

// Valid reports whether the role is one of the four known values.
func (r Role) Valid() bool {
	return r.level() > 0
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleEditor:
		return 30
	case RoleSubscriber:
		return 20
	case RoleReader:
		return 10
	default:
		return 0
	}
}
