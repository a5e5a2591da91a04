// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/taibuivan/stories/internal/platform/constants"
)

// EventsPath is the Server-Sent Events stream the dashboard listens on.
const EventsPath = constants.PathDashboard + "/events"

// RenderedParam tells the stream that the authenticated page is already on screen,
// so its first resolution must not trigger a reload.
const RenderedParam = "rendered"

// Dashboard is the authenticated dashboard view model. All values are display-ready.
type Dashboard struct {
	Name      string
	Email     string
	Role      string
	Locale    string
	SessionID string
	Expires   string

	// BioHTML must already be sanitized.
	BioHTML string

	// Debug is the pretty-printed session. Empty hides the panel.
	Debug string
}

// liveScript follows session changes pushed by the server: a redirect event
// navigates away, a state event re-renders the page.
func liveScript(out *htmlWriter, source string) {
	out.raw(`<script>(function(){`,
		`if(!window.EventSource){return;}`,
		`var s=new EventSource("`, source, `");`,
		`s.addEventListener("redirect",function(e){s.close();window.location.assign(e.data);});`,
		`s.addEventListener("state",function(){s.close();window.location.reload();});`,
		`})();</script>`)
}

// DashboardPage renders the session-gated dashboard.
func DashboardPage(model Dashboard) templ.Component {
	return Layout("Dashboard", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}

		// Header
		out.raw(`<header class="app-header"><h1>`)
		out.text(constants.BrandName)
		out.raw(`</h1><form method="post"`)
		out.attr("action", constants.PathSignOut)
		out.raw(`><button type="submit" class="outline">Sign Out</button></form></header>`)

		// Welcome
		out.raw(`<section class="welcome"><h2>Welcome back, `)
		out.text(model.Name)
		out.raw(`!</h2><p class="muted">You're successfully authenticated with better-auth</p></section>`)

		out.raw(`<div class="cards">`)

		out.raw(`<div class="card"><h3>Your Profile</h3>`)
		detail(out, "Name", model.Name)
		detail(out, "Email", model.Email)
		detail(out, "Role", model.Role)
		detail(out, "Locale", model.Locale)
		if model.BioHTML != "" {
			out.raw(`<div class="bio">`, model.BioHTML, `</div>`)
		}
		out.raw(`</div>`)

		out.raw(`<div class="card"><h3>Session Info</h3>`)
		out.raw(`<div class="detail"><span class="muted">Session ID:</span> <code>`)
		out.text(model.SessionID)
		out.raw(`</code></div>`)
		detail(out, "Expires", model.Expires)
		out.raw(`</div>`)

		out.raw(`<div class="card"><h3>Quick Actions</h3><div class="actions">`)
		out.raw(`<button type="button" class="outline" disabled>Create Post</button>`)
		out.raw(`<button type="button" class="outline" disabled>View Posts</button>`)
		out.raw(`<a class="button outline"`)
		out.attr("href", constants.PathSettings)
		out.raw(`>Settings</a></div></div>`)

		out.raw(`</div>`)

		if model.Debug != "" {
			out.raw(`<section class="debug"><h3>Debug Info</h3><pre>`)
			out.text(model.Debug)
			out.raw(`</pre></section>`)
		}

		liveScript(out, EventsPath+"?"+RenderedParam+"=1")
		return out.err
	}))
}

func detail(out *htmlWriter, label, value string) {
	out.raw(`<div class="detail"><span class="muted">`)
	out.text(label)
	out.raw(`:</span> <span>`)
	out.text(value)
	out.raw(`</span></div>`)
}

// Loading renders the pending state. It resolves itself through the event stream,
// or by refreshing when scripts are disabled.
func Loading() templ.Component {
	return Layout("Loading", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}
		out.raw(`<noscript><meta http-equiv="refresh" content="2"></noscript>`)
		out.raw(`<div class="loading" aria-busy="true"><p class="muted">Loading...</p></div>`)
		liveScript(out, EventsPath)
		return out.err
	}))
}
