// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/stories/internal/platform/request"
	"github.com/taibuivan/stories/internal/platform/respond"
	"github.com/taibuivan/stories/internal/ui/view"
	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
)

// heartbeatInterval keeps idle event streams open through proxies.
const heartbeatInterval = 25 * time.Second

// Facade is the part of the auth facade the dashboard needs.
type Facade interface {
	Watch(ctx context.Context, token string) *authclient.Subscription
	SignOut(ctx context.Context, token string) error
}

// Config configures a [Handler].
type Config struct {
	// Wait bounds how long GET /dashboard holds the request for the first resolution.
	Wait time.Duration
	// Debug shows the session panel to every role, not just admins.
	Debug         bool
	SecureCookies bool
}

// Handler implements the HTTP layer of the gated page.
type Handler struct {
	facade Facade
	config Config
	policy *bluemonday.Policy
}

// NewHandler constructs a dashboard [Handler].
func NewHandler(facade Facade, config Config) *Handler {
	return &Handler{
		facade: facade,
		config: config,
		policy: bluemonday.UGCPolicy(),
	}
}

// Routes returns a [chi.Router] for the page and its event stream.
//
// # Endpoints
//   - GET / : Dashboard, loading view or redirect
//   - GET /events : Server-Sent Events stream of state changes
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.show)
	router.Get("/events", handler.events)

	return router
}

/*
GET /dashboard.

Description: Watches the session for up to Config.Wait. The first resolution
decides the answer; when none arrives in time the loading view is served and the
event stream completes the transition.

Response:
  - 200: Dashboard (authenticated) or loading view (still pending)
  - 303: No session, sent to /login
*/
func (handler *Handler) show(writer http.ResponseWriter, request *http.Request) {
	token := authclient.ReadSessionToken(request, handler.config.SecureCookies)

	subscription := handler.facade.Watch(request.Context(), token)
	defer subscription.Close()

	timer := time.NewTimer(handler.config.Wait)
	defer timer.Stop()

	page := NewPage()
	for {
		select {
		case snapshot, ok := <-subscription.Updates():
			if !ok {
				return
			}

			switch page.Observe(snapshot) {
			case ActionRedirect:
				handler.redirectToLogin(writer, request, token, snapshot)
				return
			case ActionRender:
				data := page.Snapshot().Data
				respond.Page(writer, request, http.StatusOK, view.DashboardPage(Summarize(data, handler.policy).View(handler.debugPanel(data))))
				return
			}

		case <-timer.C:
			respond.Page(writer, request, http.StatusOK, view.Loading())
			return

		case <-request.Context().Done():
			return
		}
	}
}

/*
GET /dashboard/events.

Description: Streams the page's state machine as Server-Sent Events.

  - event: state    : the authenticated page must be (re)rendered
  - event: redirect : data holds the destination; the stream ends

With ?rendered=1 the first authenticated resolution is not sent, since the page
that opened the stream already shows it.
*/
func (handler *Handler) events(writer http.ResponseWriter, request *http.Request) {
	flusher, ok := writer.(http.Flusher)
	if !ok {
		http.Error(writer, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(writer).SetWriteDeadline(time.Time{})

	header := writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	token := authclient.ReadSessionToken(request, handler.config.SecureCookies)
	subscription := handler.facade.Watch(request.Context(), token)
	defer subscription.Close()

	skipFirst := request.URL.Query().Get(view.RenderedParam) != ""

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	page := NewPage()
	for {
		select {
		case snapshot, ok := <-subscription.Updates():
			if !ok {
				return
			}

			first := page.State() == StatePending
			switch page.Observe(snapshot) {
			case ActionRedirect:
				writeEvent(writer, "redirect", constants.PathLogin)
				flusher.Flush()
				return
			case ActionRender:
				if first && skipFirst {
					continue
				}
				writeEvent(writer, "state", page.State().String())
				flusher.Flush()
			}

		case <-heartbeat.C:
			_, _ = fmt.Fprint(writer, ": keep-alive\n\n")
			flusher.Flush()

		case <-request.Context().Done():
			return
		}
	}
}

func writeEvent(writer http.ResponseWriter, event, data string) {
	_, _ = fmt.Fprintf(writer, "event: %s\ndata: %s\n\n", event, data)
}

/*
SignOut ends the session and returns to the landing page.

POST /sign-out

Description: The cookie is cleared and the browser leaves the gated page even
when the provider call fails; the failure is logged.

Response:
  - 303: To "/"
*/
func (handler *Handler) SignOut(writer http.ResponseWriter, request *http.Request) {
	token := authclient.ReadSessionToken(request, handler.config.SecureCookies)

	if token != "" {
		if err := handler.facade.SignOut(request.Context(), token); err != nil {
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "sign_out_failed",
				slog.String("kind", authclient.Classify(err).String()),
				slog.String("error", err.Error()),
			)
		}
	}

	http.SetCookie(writer, authclient.ClearSessionCookie(handler.config.SecureCookies))
	respond.SeeOther(writer, request, constants.PathLanding)
}

/*
Session returns the caller's session as JSON.

GET /api/session

Response:
  - 200: SessionData with the token redacted
  - 401: No session
*/
func (handler *Handler) Session(writer http.ResponseWriter, request *http.Request) {
	data, _, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, Redact(data))
}

func (handler *Handler) redirectToLogin(writer http.ResponseWriter, request *http.Request, token string, snapshot authclient.Snapshot) {
	if snapshot.Err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_read_failed",
			slog.String("kind", authclient.Classify(snapshot.Err).String()),
			slog.String("error", snapshot.Err.Error()),
		)
	}

	// Drop a cookie the provider no longer accepts.
	if token != "" && snapshot.Err == nil {
		http.SetCookie(writer, authclient.ClearSessionCookie(handler.config.SecureCookies))
	}

	respond.SeeOther(writer, request, constants.PathLogin)
}

func (handler *Handler) debugPanel(data *auth.SessionData) string {
	if !handler.config.Debug && !data.User.Role.AtLeast(auth.RoleAdmin) {
		return ""
	}
	return DebugJSON(data)
}
