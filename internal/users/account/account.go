// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the signed-in user's profile settings.

The profile itself lives at the identity provider; this package validates the
editable subset (name, locale, bio) and submits it through the auth facade.

# Architecture

  - Entities: ProfileForm (the editable subset), Locales.
  - Domain: Depends on the auth package for the User entity.
  - Security: Role is not part of the form or the payload.
*/
package account

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/taibuivan/stories/internal/platform/validate"
	"github.com/taibuivan/stories/internal/ui/view"
	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
	"github.com/taibuivan/stories/pkg/pointer"
)

// MaxBioLength bounds the biography in characters.
const MaxBioLength = 500

// MinNameLength and MaxNameLength bound the display name in characters.
const (
	MinNameLength = 2
	MaxNameLength = 50
)

// Locales lists the languages the stories are published in.
var Locales = []view.Option{
	{Value: "es", Label: "Español"},
	{Value: "en", Label: "English"},
}

func localeValues() []string {
	values := make([]string, 0, len(Locales))
	for _, option := range Locales {
		values = append(values, option.Value)
	}
	return values
}

// # Domain Entities

// ProfileForm is the editable subset of a [auth.User].
type ProfileForm struct {
	Name   string
	Locale string
	Bio    string
}

// FormFromUser pre-fills the form.
func FormFromUser(user auth.User) ProfileForm {
	return ProfileForm{Name: user.Name, Locale: user.Locale, Bio: pointer.Val(user.Bio)}
}

// Normalize trims the form and reduces the locale to its base language.
func (form ProfileForm) Normalize() ProfileForm {
	form.Name = strings.TrimSpace(form.Name)
	form.Bio = strings.TrimSpace(form.Bio)
	form.Locale = strings.TrimSpace(form.Locale)

	if tag, err := language.Parse(form.Locale); err == nil {
		base, _ := tag.Base()
		form.Locale = base.String()
	}
	return form
}

// Validate returns a validation error describing every failed rule.
func (form ProfileForm) Validate() error {
	validator := &validate.Validator{}
	validator.
		Required(auth.FieldName, form.Name).
		MinLen(auth.FieldName, form.Name, MinNameLength).
		MaxLen(auth.FieldName, form.Name, MaxNameLength).
		Locale(auth.FieldLocale, form.Locale, localeValues()...).
		MaxLen(auth.FieldBio, form.Bio, MaxBioLength)

	return validator.Err()
}

// Input converts the form into the provider payload. An empty bio clears it.
func (form ProfileForm) Input() authclient.ProfileInput {
	return authclient.ProfileInput{
		Name:   pointer.To(form.Name),
		Locale: pointer.To(form.Locale),
		Bio:    pointer.To(form.Bio),
	}
}
