// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stories/internal/platform/apperr"
	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/stories/internal/platform/request"
	"github.com/taibuivan/stories/internal/platform/respond"
	"github.com/taibuivan/stories/internal/ui/view"
	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
)

// Settings page messages.
const (
	MsgUpdateFailed = "Failed to save your profile. Please try again."
	MsgUnavailable  = "Unable to reach the account service. Please try again."
)

// Handler implements the HTTP layer for account settings.
//
// # Security
//
// Routes must be mounted behind RequireSession.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the settings endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.show)
	router.Post("/", handler.update)

	return router
}

/*
GET /settings.

Response:
  - 200: Settings form pre-filled from the session; ?saved=1 adds the confirmation
  - 401: No session
*/
func (handler *Handler) show(writer http.ResponseWriter, request *http.Request) {
	data, _, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	status := view.SettingsForm{Saved: request.URL.Query().Get("saved") != ""}
	respond.Page(writer, request, http.StatusOK, settingsPage(FormFromUser(data.User), status))
}

/*
POST /settings.

Request:
  - Form: name, locale (es | en), bio (at most 500 characters)

Response:
  - 303: Saved; back to /settings?saved=1
  - 422: Validation failed
  - 502: Identity provider unreachable
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	_, token, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseForm(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	form := ProfileForm{
		Name:   requestutil.Field(request, auth.FieldName),
		Locale: requestutil.Field(request, auth.FieldLocale),
		Bio:    requestutil.Field(request, auth.FieldBio),
	}

	if _, err := handler.accountService.UpdateProfile(request.Context(), token, form); err != nil {
		status, model := handler.failure(request, err)
		respond.Page(writer, request, status, settingsPage(form, model))
		return
	}

	respond.SeeOther(writer, request, constants.PathSettings+"?saved=1")
}

func (handler *Handler) failure(request *http.Request, err error) (int, view.SettingsForm) {
	model := view.SettingsForm{}

	if appErr := apperr.As(err); appErr != nil && len(appErr.Details) > 0 {
		model.Field = appErr.Details[0].Field
		model.Error = appErr.Details[0].Message
		return http.StatusUnprocessableEntity, model
	}

	kind := authclient.Classify(err)
	ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "profile_update_failed",
		slog.String("kind", kind.String()),
		slog.String("error", err.Error()),
	)

	model.Error = MsgUpdateFailed
	if kind == authclient.KindTransport {
		model.Error = MsgUnavailable
	}
	return kind.PageStatus(), model
}

// settingsPage merges the form values into the status model.
func settingsPage(form ProfileForm, model view.SettingsForm) templ.Component {
	model.Name, model.Locale, model.Bio, model.Locales = form.Name, form.Locale, form.Bio, Locales
	return view.Settings(model)
}
