// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/stories/internal/ui/view"
	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/pkg/pointer"
)

const (
	sessionIDPrefix = 16
	expiryLayout    = "2006-01-02"
	redactedToken   = "[redacted]"
)

// Summary is the display projection of a session.
type Summary struct {
	Name      string
	Email     string
	Role      string
	Locale    string
	SessionID string
	Expires   string
	BioHTML   string
}

// Summarize projects data for display.
//
// Role and locale casing is presentation only: "EDITOR" shows as "Editor" and
// "es-mx" as "ES-MX". The bio goes through the UGC policy.
func Summarize(data *auth.SessionData, policy *bluemonday.Policy) Summary {
	summary := Summary{
		Name:      data.User.Name,
		Email:     data.User.Email,
		Role:      DisplayRole(data.User.Role),
		Locale:    DisplayLocale(data.User.Locale),
		SessionID: ShortSessionID(data.Session.ID),
		Expires:   data.Session.ExpiresAt.In(time.UTC).Format(expiryLayout),
	}

	if policy != nil {
		summary.BioHTML = strings.TrimSpace(policy.Sanitize(pointer.Val(data.User.Bio)))
	}

	return summary
}

// View converts the summary into the page model.
func (summary Summary) View(debug string) view.Dashboard {
	return view.Dashboard{
		Name:      summary.Name,
		Email:     summary.Email,
		Role:      summary.Role,
		Locale:    summary.Locale,
		SessionID: summary.SessionID,
		Expires:   summary.Expires,
		BioHTML:   summary.BioHTML,
		Debug:     debug,
	}
}

// DisplayRole lower-cases the role and capitalises its first letter.
func DisplayRole(role auth.Role) string {
	return cases.Title(language.Und).String(strings.ToLower(string(role)))
}

// DisplayLocale upper-cases the stored locale. Legacy tags such as "iw" are shown
// as stored, not rewritten to their modern form.
func DisplayLocale(locale string) string {
	return strings.ToUpper(strings.TrimSpace(locale))
}

// ShortSessionID returns the first 16 characters of id followed by "...".
func ShortSessionID(id string) string {
	if utf8.RuneCountInString(id) > sessionIDPrefix {
		id = string([]rune(id)[:sessionIDPrefix])
	}
	return id + "..."
}

// Redact returns a copy of data without its bearer token.
func Redact(data *auth.SessionData) *auth.SessionData {
	clone := *data
	if clone.Session.Token != "" {
		clone.Session.Token = redactedToken
	}
	return &clone
}

// DebugJSON pretty-prints the redacted session for the debug panel.
func DebugJSON(data *auth.SessionData) string {
	payload, err := json.MarshalIndent(Redact(data), "", "  ")
	if err != nil {
		return ""
	}
	return string(payload)
}
