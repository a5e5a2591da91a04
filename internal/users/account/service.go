// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
)

// # Service Layer

// Updater is the part of the auth facade the settings page needs.
type Updater interface {
	UpdateUser(ctx context.Context, token string, input authclient.ProfileInput) (*auth.SessionData, error)
}

// Service applies profile changes for the signed-in user.
type Service struct {
	updater Updater
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(updater Updater, logger *slog.Logger) *Service {
	return &Service{updater: updater, logger: logger}
}

/*
UpdateProfile validates and submits a profile change.

Parameters:
  - context: context.Context
  - token: string (the caller's session token)
  - form: ProfileForm

Returns:
  - *auth.SessionData: The refreshed session
  - error: Validation failures (apperr) or facade failures (wrapped)
*/
func (service *Service) UpdateProfile(context context.Context, token string, form ProfileForm) (*auth.SessionData, error) {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	data, err := service.updater.UpdateUser(context, token, form.Input())
	if err != nil {
		return nil, fmt.Errorf("account_service_update_profile_failed: %w", err)
	}

	service.logger.InfoContext(context, "profile_updated",
		slog.String("user_id", data.User.ID),
		slog.String("locale", data.User.Locale),
	)

	return data, nil
}
