// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package register

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stories/internal/platform/apperr"
	"github.com/taibuivan/stories/internal/platform/constants"
	requestutil "github.com/taibuivan/stories/internal/platform/request"
	"github.com/taibuivan/stories/internal/platform/respond"
	"github.com/taibuivan/stories/internal/ui/view"
	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
	"github.com/taibuivan/stories/internal/users/formgate"
)

// Forms tracks one [Flow] per rendered registration form.
type Forms = formgate.Registry[*Flow]

// Handler implements the HTTP layer for registration.
type Handler struct {
	forms         *Forms
	secureCookies bool
}

// NewHandler constructs a registration [Handler]. Idle form instances expire after formTTL.
func NewHandler(facade Facade, logger *slog.Logger, formTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{
		forms: formgate.NewRegistry(formTTL, formgate.DefaultMaxSize, func() *Flow {
			return NewFlow(facade, logger)
		}),
		secureCookies: secureCookies,
	}
}

// Forms exposes the instance registry so its sweeper can be started.
func (handler *Handler) Forms() *Forms {
	return handler.forms
}

// Routes returns a [chi.Router] configured with the registration endpoints.
//
// # Endpoints
//   - GET  / : Empty registration form
//   - POST / : Email registration
//   - POST /oauth/{provider} : OAuth shortcut (github | google)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.show)
	router.Post("/", handler.submit)
	router.Post("/oauth/{provider}", handler.oauth)

	return router
}

/*
GET /register.

Response:
  - 200: Registration form with a fresh instance id
  - 303: Already authenticated, sent to the dashboard
*/
func (handler *Handler) show(writer http.ResponseWriter, request *http.Request) {
	if requestutil.Session(request) != nil {
		respond.SeeOther(writer, request, constants.PathDashboard)
		return
	}

	formID := formgate.NewID()
	respond.Page(writer, request, http.StatusOK, view.Register(view.RegisterForm{FormID: formID}))
}

/*
POST /register.

Request:
  - Form: form_id, name, email, password, confirmPassword

Response:
  - 303: Account created; session cookie set, sent to the dashboard
  - 409: Email already registered, or another submission is in flight
  - 422: Local validation failed
  - 502: Identity provider unreachable
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseForm(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	form := Form{
		Name:            requestutil.Field(request, auth.FieldName),
		Email:           requestutil.Field(request, auth.FieldEmail),
		Password:        requestutil.Secret(request, auth.FieldPassword),
		ConfirmPassword: requestutil.Secret(request, auth.FieldConfirmPassword),
	}

	flow, formID := handler.forms.Lookup(requestutil.Field(request, view.FormIDField))
	result := flow.Submit(request.Context(), form)

	model := view.RegisterForm{FormID: formID, Name: form.Name, Email: form.Email}

	switch {
	case result.Ignored:
		model.Pending = true
		respond.Page(writer, request, http.StatusConflict, view.Register(model))

	case !result.OK():
		model.Error, model.Field = result.Error, result.Field
		respond.Page(writer, request, result.Kind.PageStatus(), view.Register(model))

	default:
		http.SetCookie(writer, authclient.SessionCookie(result.Session, handler.secureCookies))
		respond.SeeOther(writer, request, result.Redirect)
	}
}

/*
POST /register/oauth/{provider}.

Description: Starts the provider's OAuth flow. Local form validation does not apply.

Response:
  - 303: Redirect to the provider's authorization page
  - 404: Unsupported provider
  - 409: Another submission is in flight
  - 422 | 502: Provider refused or unreachable
*/
func (handler *Handler) oauth(writer http.ResponseWriter, request *http.Request) {
	provider, err := authclient.ParseSocialProvider(requestutil.Param(request, auth.FieldProvider))
	if err != nil {
		respond.Error(writer, request, apperr.NotFound("Provider"))
		return
	}

	if err := requestutil.ParseForm(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	flow, formID := handler.forms.Lookup(requestutil.Field(request, view.FormIDField))
	result := flow.SignInWithProvider(request.Context(), provider)

	switch {
	case result.Ignored:
		respond.Page(writer, request, http.StatusConflict, view.Register(view.RegisterForm{FormID: formID, Pending: true}))

	case !result.OK():
		respond.Page(writer, request, result.Kind.PageStatus(), view.Register(view.RegisterForm{FormID: formID, Error: result.Error}))

	default:
		for _, cookie := range result.Cookies {
			http.SetCookie(writer, cookie)
		}
		respond.SeeOther(writer, request, result.Redirect)
	}
}
