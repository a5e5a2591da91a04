// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package view renders the HTML pages of the web application.

Components are plain [templ.Component] values built with [templ.ComponentFunc].
Every dynamic string is passed through [templ.EscapeString] before it is written;
the only pre-rendered HTML accepted is a bio that was already sanitized upstream.
*/
package view

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/platform/ctxutil"
	"github.com/taibuivan/stories/internal/ui/theme"
	"github.com/taibuivan/stories/internal/users/auth"
)

// FormIDField is the hidden input carrying a form instance id.
const FormIDField = "form_id"

// htmlWriter accumulates the first write error so components can stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (out *htmlWriter) raw(parts ...string) {
	for _, part := range parts {
		if out.err != nil {
			return
		}
		_, out.err = io.WriteString(out.w, part)
	}
}

func (out *htmlWriter) text(value string) {
	out.raw(templ.EscapeString(value))
}

func (out *htmlWriter) attr(name, value string) {
	out.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (out *htmlWriter) flag(name string, on bool) {
	if on {
		out.raw(" ", name)
	}
}

func (out *htmlWriter) component(ctx context.Context, component templ.Component) {
	if out.err != nil || component == nil {
		return
	}
	out.err = component.Render(ctx, out.w)
}

// ComposeTitle appends the brand suffix to a page title.
func ComposeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" || title == constants.BrandName {
		return constants.BrandName
	}
	if strings.HasSuffix(title, " | "+constants.BrandName) {
		return title
	}
	return title + " | " + constants.BrandName
}

/*
Layout wraps body in the document shell.

The <html> element carries the effective colour scheme as its class, so the
first paint never flashes the wrong palette. Its lang follows the signed-in
user's locale, see [DocumentLang].
*/
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state := theme.FromContext(ctx)
		out := &htmlWriter{w: w}

		out.raw(`<!DOCTYPE html><html`)
		out.attr("lang", DocumentLang(ctx))
		out.attr("class", string(state.Effective))
		out.attr("data-theme-preference", string(state.Preference))
		out.raw(`><head><meta charset="utf-8">`)
		out.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		out.raw(`<meta name="color-scheme" content="light dark"><title>`)
		out.text(ComposeTitle(title))
		out.raw(`</title></head><body>`)

		themeToggle(out, state)

		out.raw(`<main>`)
		out.component(ctx, body)
		out.raw(`</main></body></html>`)

		return out.err
	})
}

// DocumentLang returns the BCP 47 tag of the session user's locale, or
// [auth.DefaultLocale] when there is no session or the locale does not parse.
func DocumentLang(ctx context.Context) string {
	data := ctxutil.GetSession(ctx)
	if data == nil {
		return auth.DefaultLocale
	}

	tag, err := language.Parse(strings.TrimSpace(data.User.Locale))
	if err != nil || tag == language.Und {
		return auth.DefaultLocale
	}
	return tag.String()
}

func themeToggle(out *htmlWriter, state theme.Context) {
	out.raw(`<form class="theme-toggle" method="post"`)
	out.attr("action", constants.PathTheme)
	out.raw(` aria-label="Cambiar tema">`)

	for _, option := range theme.All {
		out.raw(`<button type="submit" name="theme"`)
		out.attr("value", string(option))
		out.attr("aria-pressed", boolString(option == state.Preference))
		out.raw(`><span>`)
		out.text(option.Label())
		out.raw(`</span></button>`)
	}

	out.raw(`</form>`)
}

func boolString(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

// # Shared fragments

func errorBanner(out *htmlWriter, message string) {
	if message == "" {
		return
	}
	out.raw(`<div class="alert alert-error" role="alert">`)
	out.text(message)
	out.raw(`</div>`)
}

type inputSpec struct {
	id          string
	label       string
	kind        string
	value       string
	placeholder string
	minLength   string
	required    bool
	disabled    bool
	invalid     bool
}

func input(out *htmlWriter, spec inputSpec) {
	out.raw(`<div class="field"><label`)
	out.attr("for", spec.id)
	out.raw(`>`)
	out.text(spec.label)
	out.raw(`</label><input`)
	out.attr("id", spec.id)
	out.attr("name", spec.id)
	out.attr("type", spec.kind)
	if spec.value != "" {
		out.attr("value", spec.value)
	}
	if spec.placeholder != "" {
		out.attr("placeholder", spec.placeholder)
	}
	if spec.minLength != "" {
		out.attr("minlength", spec.minLength)
	}
	if spec.invalid {
		out.raw(` aria-invalid="true"`)
	}
	out.flag("required", spec.required)
	out.flag("disabled", spec.disabled)
	out.raw(`></div>`)
}

func hiddenFormID(out *htmlWriter, formID string) {
	out.raw(`<input type="hidden"`)
	out.attr("name", FormIDField)
	out.attr("value", formID)
	out.raw(`>`)
}

// SocialButton is one OAuth shortcut.
type SocialButton struct {
	Provider string
	Label    string
}

// SocialButtons lists the supported OAuth shortcuts in display order.
var SocialButtons = []SocialButton{
	{Provider: "github", Label: "GitHub"},
	{Provider: "google", Label: "Google"},
}

func socialForms(out *htmlWriter, basePath, formID string, disabled bool) {
	out.raw(`<div class="separator"><span>Or continue with</span></div><div class="social">`)
	for _, button := range SocialButtons {
		out.raw(`<form method="post"`)
		out.attr("action", basePath+"/oauth/"+button.Provider)
		out.raw(`>`)
		hiddenFormID(out, formID)
		out.raw(`<button type="submit" class="outline"`)
		out.flag("disabled", disabled)
		out.raw(`>`)
		out.text(button.Label)
		out.raw(`</button></form>`)
	}
	out.raw(`</div>`)
}
