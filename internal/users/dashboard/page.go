// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dashboard implements the session-gated landing page.

# Architecture

  - Page: The pending/unauthenticated/authenticated state machine fed by
    [authclient.Subscription] snapshots.
  - Summary: The display-ready projection of a session.
  - Handler: GET /dashboard, its event stream, sign-out and the session JSON.
*/
package dashboard

import "github.com/taibuivan/stories/internal/users/authclient"

// State is the page's authentication state.
type State int

const (
	StatePending State = iota
	StateUnauthenticated
	StateAuthenticated
)

// String returns the label used in logs.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "pending"
	}
}

// Action tells the handler what to do after a snapshot.
type Action int

const (
	// ActionNone keeps whatever is on screen.
	ActionNone Action = iota
	// ActionRender draws the authenticated page from [Page.Snapshot].
	ActionRender
	// ActionRedirect navigates to the login page and renders nothing.
	ActionRedirect
)

// Page is one mount of the gated page.
//
// The first resolved snapshot moves it out of pending exactly once. Afterwards a
// snapshot without data (sign-out elsewhere) redirects and a snapshot with data
// re-renders. Once unauthenticated, the page is gone and ignores everything.
//
// A Page is owned by a single request goroutine.
type Page struct {
	state    State
	snapshot authclient.Snapshot
	resolved int
}

// NewPage returns a page in the pending state.
func NewPage() *Page {
	return &Page{state: StatePending}
}

// State returns the current state.
func (page *Page) State() State {
	return page.state
}

// Snapshot returns the last snapshot that changed what is rendered.
func (page *Page) Snapshot() authclient.Snapshot {
	return page.snapshot
}

// Resolutions counts pending to resolved transitions. It never exceeds one.
func (page *Page) Resolutions() int {
	return page.resolved
}

// Observe feeds one snapshot into the machine.
//
// A read error carries no session, so it resolves like an absent session.
func (page *Page) Observe(snapshot authclient.Snapshot) Action {
	if snapshot.IsPending || page.state == StateUnauthenticated {
		return ActionNone
	}

	if page.state == StatePending {
		page.resolved++
	}

	if snapshot.Data == nil {
		page.state = StateUnauthenticated
		page.snapshot = snapshot
		return ActionRedirect
	}

	page.state = StateAuthenticated
	page.snapshot = snapshot
	return ActionRender
}
