// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/taibuivan/stories/internal/platform/constants"
)

// RegisterForm is the state of the registration form.
type RegisterForm struct {
	FormID string
	Name   string
	Email  string

	// Error is a fixed user-facing message. Field names the input it refers to.
	Error string
	Field string

	// Pending renders the disabled "Creating account..." state.
	Pending bool
}

// Register renders the registration page. Passwords are never echoed back.
func Register(form RegisterForm) templ.Component {
	return Layout("Create an account", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}

		out.raw(`<div class="auth-card"><form method="post"`)
		out.attr("action", constants.PathRegister)
		out.raw(`><div class="auth-header"><a href="/">Dashboard</a>`)
		out.raw(`<span class="sr-only">`)
		out.text(constants.BrandName)
		out.raw(`</span><h1>Create an account</h1>`)
		out.raw(`<p>Already have an account? <a class="underline"`)
		out.attr("href", constants.PathLogin)
		out.raw(`>Sign in</a></p></div>`)

		errorBanner(out, form.Error)
		hiddenFormID(out, form.FormID)

		input(out, inputSpec{id: "name", label: "Name", kind: "text", value: form.Name, placeholder: "John Doe",
			required: true, disabled: form.Pending, invalid: form.Field == "name"})
		input(out, inputSpec{id: "email", label: "Email", kind: "email", value: form.Email, placeholder: "m@example.com",
			required: true, disabled: form.Pending, invalid: form.Field == "email"})
		input(out, inputSpec{id: "password", label: "Password", kind: "password", placeholder: "At least 8 characters",
			minLength: "8", required: true, disabled: form.Pending, invalid: form.Field == "password"})
		input(out, inputSpec{id: "confirmPassword", label: "Confirm Password", kind: "password", placeholder: "Repeat your password",
			minLength: "8", required: true, disabled: form.Pending, invalid: form.Field == "confirmPassword"})

		out.raw(`<button type="submit" class="primary"`)
		out.flag("disabled", form.Pending)
		out.raw(`>`)
		if form.Pending {
			out.text("Creating account...")
		} else {
			out.text("Create account")
		}
		out.raw(`</button></form>`)

		socialForms(out, constants.PathRegister, form.FormID, form.Pending)

		out.raw(`<p class="legal">By clicking continue, you agree to our <a href="/terms" class="underline">Terms of Service</a>`)
		out.raw(` and <a href="/privacy" class="underline">Privacy Policy</a>.</p></div>`)

		return out.err
	}))
}

// SignInForm is the state of the sign-in form.
type SignInForm struct {
	FormID  string
	Email   string
	Error   string
	Pending bool
}

// SignIn renders the sign-in page.
func SignIn(form SignInForm) templ.Component {
	return Layout("Sign in", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}

		out.raw(`<div class="auth-card"><form method="post"`)
		out.attr("action", constants.PathLogin)
		out.raw(`><div class="auth-header"><h1>Welcome back</h1>`)
		out.raw(`<p>Don't have an account? <a class="underline"`)
		out.attr("href", constants.PathRegister)
		out.raw(`>Sign up</a></p></div>`)

		errorBanner(out, form.Error)
		hiddenFormID(out, form.FormID)

		input(out, inputSpec{id: "email", label: "Email", kind: "email", value: form.Email, placeholder: "m@example.com",
			required: true, disabled: form.Pending})
		input(out, inputSpec{id: "password", label: "Password", kind: "password", required: true, disabled: form.Pending})

		out.raw(`<button type="submit" class="primary"`)
		out.flag("disabled", form.Pending)
		out.raw(`>`)
		if form.Pending {
			out.text("Signing in...")
		} else {
			out.text("Sign in")
		}
		out.raw(`</button></form>`)

		socialForms(out, constants.PathLogin, form.FormID, form.Pending)
		out.raw(`</div>`)

		return out.err
	}))
}
