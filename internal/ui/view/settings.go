// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/taibuivan/stories/internal/platform/constants"
)

// Option is one entry of a select input.
type Option struct {
	Value string
	Label string
}

// SettingsForm is the state of the account settings form.
type SettingsForm struct {
	Name    string
	Locale  string
	Bio     string
	Locales []Option

	Error string
	Field string
	Saved bool
}

// Settings renders the account settings page.
func Settings(form SettingsForm) templ.Component {
	return Layout("Account settings", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}

		out.raw(`<div class="auth-card"><a`)
		out.attr("href", constants.PathDashboard)
		out.raw(`>Back to dashboard</a><h1>Account settings</h1>`)

		if form.Saved {
			out.raw(`<div class="alert alert-success" role="status">Your profile has been updated</div>`)
		}
		errorBanner(out, form.Error)

		out.raw(`<form method="post"`)
		out.attr("action", constants.PathSettings)
		out.raw(`>`)

		input(out, inputSpec{id: "name", label: "Name", kind: "text", value: form.Name, required: true, invalid: form.Field == "name"})

		out.raw(`<div class="field"><label for="locale">Language</label><select id="locale" name="locale"`)
		if form.Field == "locale" {
			out.raw(` aria-invalid="true"`)
		}
		out.raw(`>`)
		for _, option := range form.Locales {
			out.raw(`<option`)
			out.attr("value", option.Value)
			out.flag("selected", option.Value == form.Locale)
			out.raw(`>`)
			out.text(option.Label)
			out.raw(`</option>`)
		}
		out.raw(`</select></div>`)

		out.raw(`<div class="field"><label for="bio">Bio</label><textarea id="bio" name="bio" rows="4" maxlength="500"`)
		if form.Field == "bio" {
			out.raw(` aria-invalid="true"`)
		}
		out.raw(`>`)
		out.text(form.Bio)
		out.raw(`</textarea></div>`)

		out.raw(`<button type="submit" class="primary">Save changes</button></form></div>`)
		return out.err
	}))
}
