// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signin

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

// Forms tracks one [Flow] per rendered sign-in form.
type Forms = formgate.Registry[*Flow]

// Handler implements the HTTP layer for sign-in.
type Handler struct {
	forms         *Forms
	secureCookies bool
}

// NewHandler constructs a sign-in [Handler].
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

// Routes returns a [chi.Router] configured with the sign-in endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.show)
	router.Post("/", handler.submit)
	router.Post("/oauth/{provider}", handler.oauth)

	return router
}

/*
GET /login.

Response:
  - 200: Sign-in form
  - 303: Already authenticated, sent to the dashboard
*/
func (handler *Handler) show(writer http.ResponseWriter, request *http.Request) {
	if requestutil.Session(request) != nil {
		respond.SeeOther(writer, request, constants.PathDashboard)
		return
	}

	formID := formgate.NewID()
	respond.Page(writer, request, http.StatusOK, view.SignIn(view.SignInForm{FormID: formID}))
}

/*
POST /login.

Request:
  - Form: form_id, email, password

Response:
  - 303: Signed in; session cookie set
  - 401: Wrong credentials
  - 409: Another submission is in flight
  - 422: Missing fields
  - 502: Identity provider unreachable
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseForm(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	email := requestutil.Field(request, auth.FieldEmail)
	flow, formID := handler.forms.Lookup(requestutil.Field(request, view.FormIDField))
	result := flow.Submit(request.Context(), email, requestutil.Secret(request, auth.FieldPassword))

	model := view.SignInForm{FormID: formID, Email: email}

	switch {
	case result.Ignored:
		model.Pending = true
		respond.Page(writer, request, http.StatusConflict, view.SignIn(model))

	case !result.OK():
		model.Error = result.Error
		respond.Page(writer, request, result.Kind.PageStatus(), view.SignIn(model))

	default:
		http.SetCookie(writer, authclient.SessionCookie(result.Session, handler.secureCookies))
		respond.SeeOther(writer, request, result.Redirect)
	}
}

/*
POST /login/oauth/{provider}.

Response:
  - 303: Redirect to the provider's authorization page
  - 404: Unsupported provider
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
		respond.Page(writer, request, http.StatusConflict, view.SignIn(view.SignInForm{FormID: formID, Pending: true}))

	case !result.OK():
		respond.Page(writer, request, result.Kind.PageStatus(), view.SignIn(view.SignInForm{FormID: formID, Error: result.Error}))

	default:
		for _, cookie := range result.Cookies {
			http.SetCookie(writer, cookie)
		}
		respond.SeeOther(writer, request, result.Redirect)
	}
}
