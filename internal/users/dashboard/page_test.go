// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
	"github.com/taibuivan/stories/internal/users/dashboard"
)

var (
	pending = authclient.Snapshot{IsPending: true}
	anon    = authclient.Snapshot{}
	signed  = authclient.Snapshot{Data: &auth.SessionData{User: auth.User{Name: "Ana"}}}
	failed  = authclient.Snapshot{Err: errors.New("provider down")}
)

/*
TestPage_Observe verifies every transition of the gated page.
*/
func TestPage_Observe(t *testing.T) {
	tests := []struct {
		name        string
		snapshots   []authclient.Snapshot
		wantActions []dashboard.Action
		wantState   dashboard.State
	}{
		{
			name:        "pending shows loading and never redirects",
			snapshots:   []authclient.Snapshot{pending, pending},
			wantActions: []dashboard.Action{dashboard.ActionNone, dashboard.ActionNone},
			wantState:   dashboard.StatePending,
		},
		{
			name:        "no session redirects",
			snapshots:   []authclient.Snapshot{pending, anon},
			wantActions: []dashboard.Action{dashboard.ActionNone, dashboard.ActionRedirect},
			wantState:   dashboard.StateUnauthenticated,
		},
		{
			name:        "session renders",
			snapshots:   []authclient.Snapshot{pending, signed},
			wantActions: []dashboard.Action{dashboard.ActionNone, dashboard.ActionRender},
			wantState:   dashboard.StateAuthenticated,
		},
		{
			name:        "read error resolves as no session",
			snapshots:   []authclient.Snapshot{pending, failed},
			wantActions: []dashboard.Action{dashboard.ActionNone, dashboard.ActionRedirect},
			wantState:   dashboard.StateUnauthenticated,
		},
		{
			name:        "sign-out elsewhere redirects",
			snapshots:   []authclient.Snapshot{pending, signed, anon},
			wantActions: []dashboard.Action{dashboard.ActionNone, dashboard.ActionRender, dashboard.ActionRedirect},
			wantState:   dashboard.StateUnauthenticated,
		},
		{
			name:        "profile update re-renders",
			snapshots:   []authclient.Snapshot{pending, signed, signed},
			wantActions: []dashboard.Action{dashboard.ActionNone, dashboard.ActionRender, dashboard.ActionRender},
			wantState:   dashboard.StateAuthenticated,
		},
		{
			name:        "unauthenticated is terminal",
			snapshots:   []authclient.Snapshot{anon, signed, pending},
			wantActions: []dashboard.Action{dashboard.ActionRedirect, dashboard.ActionNone, dashboard.ActionNone},
			wantState:   dashboard.StateUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := dashboard.NewPage()

			var actions []dashboard.Action
			for _, snapshot := range tt.snapshots {
				actions = append(actions, page.Observe(snapshot))
			}

			assert.Equal(t, tt.wantActions, actions)
			assert.Equal(t, tt.wantState, page.State())
			assert.LessOrEqual(t, page.Resolutions(), 1)
		})
	}
}

/*
TestState_String verifies the log labels.
*/
func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", dashboard.StatePending.String())
	assert.Equal(t, "unauthenticated", dashboard.StateUnauthenticated.String())
	assert.Equal(t, "authenticated", dashboard.StateAuthenticated.String())
}
