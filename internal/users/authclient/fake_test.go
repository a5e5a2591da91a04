// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient_test

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
)

// fakeProvider is an in-memory [authclient.IdentityProvider] that records calls.
type fakeProvider struct {
	mu sync.Mutex

	sessions map[string]*auth.SessionData

	signUpToken string
	signUpErr   error
	signInToken string
	signInErr   error
	socialErr   error
	signOutErr  error
	sessionErr  error
	updateErr   error

	signUpCalls     int
	signInCalls     int
	socialCalls     int
	signOutCalls    int
	getSessionCalls int
	updateCalls     int

	lastSignUp   authclient.SignUpInput
	lastCallback string
	lastProfile  authclient.ProfileInput
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: make(map[string]*auth.SessionData)}
}

func (f *fakeProvider) put(token string, data *auth.SessionData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[token] = data
}

func (f *fakeProvider) SignUpEmail(_ context.Context, input authclient.SignUpInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUpCalls++
	f.lastSignUp = input
	return f.signUpToken, f.signUpErr
}

func (f *fakeProvider) SignInEmail(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signInCalls++
	return f.signInToken, f.signInErr
}

func (f *fakeProvider) SignInSocial(_ context.Context, provider authclient.SocialProvider, callbackURL string) (*authclient.Redirect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.socialCalls++
	f.lastCallback = callbackURL
	if f.socialErr != nil {
		return nil, f.socialErr
	}
	return &authclient.Redirect{URL: "https://" + string(provider) + ".example/authorize"}, nil
}

func (f *fakeProvider) SignOut(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalls++
	if f.signOutErr != nil {
		return f.signOutErr
	}
	delete(f.sessions, token)
	return nil
}

func (f *fakeProvider) GetSession(_ context.Context, token string) (*auth.SessionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getSessionCalls++
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	data, ok := f.sessions[token]
	if !ok {
		return nil, nil
	}
	copied := *data
	copied.Session.Token = token
	return &copied, nil
}

func (f *fakeProvider) UpdateUser(_ context.Context, token string, input authclient.ProfileInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastProfile = input
	if f.updateErr != nil {
		return f.updateErr
	}
	if data, ok := f.sessions[token]; ok && input.Name != nil {
		data.User.Name = *input.Name
	}
	return nil
}

func (f *fakeProvider) calls() (getSession, signOut int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getSessionCalls, f.signOutCalls
}

// sessionFor builds a session that expires an hour after now.
func sessionFor(name string, now time.Time) *auth.SessionData {
	return &auth.SessionData{
		Session: auth.Session{ID: "sess_" + name, UserID: "usr_" + name, ExpiresAt: now.Add(time.Hour)},
		User:    auth.User{ID: "usr_" + name, Name: name, Email: name + "@example.com", Role: auth.RoleReader, Locale: "es"},
	}
}

// recordingBroadcaster captures broadcast events.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []authclient.Event
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, event authclient.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBroadcaster) snapshot() []authclient.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]authclient.Event(nil), b.events...)
}
