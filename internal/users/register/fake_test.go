// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package register_test

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/taibuivan/stories/internal/users/auth"
	"github.com/taibuivan/stories/internal/users/authclient"
)

// fakeFacade records calls and answers with canned results.
type fakeFacade struct {
	mu          sync.Mutex
	signUps     []authclient.SignUpInput
	socialCalls []authclient.SocialProvider

	signUpErr error
	socialErr error

	// entered and release let a test hold a call in flight.
	entered chan struct{}
	release chan struct{}
}

func (fake *fakeFacade) SignUp(ctx context.Context, input authclient.SignUpInput) (*auth.SessionData, error) {
	fake.mu.Lock()
	fake.signUps = append(fake.signUps, input)
	fake.mu.Unlock()

	fake.hold()

	if fake.signUpErr != nil {
		return nil, fake.signUpErr
	}
	return &auth.SessionData{
		Session: auth.Session{ID: "sess_1", UserID: "usr_1", Token: "tok_1", ExpiresAt: time.Now().Add(time.Hour)},
		User:    auth.User{ID: "usr_1", Name: input.Name, Email: input.Email, Role: auth.RoleReader, Locale: "es"},
	}, nil
}

func (fake *fakeFacade) SignInWithProvider(ctx context.Context, provider authclient.SocialProvider, callbackPath string) (*authclient.Redirect, error) {
	fake.mu.Lock()
	fake.socialCalls = append(fake.socialCalls, provider)
	fake.mu.Unlock()

	fake.hold()

	if fake.socialErr != nil {
		return nil, fake.socialErr
	}
	return &authclient.Redirect{
		URL:     "https://" + string(provider) + ".example/authorize?cb=" + callbackPath,
		Cookies: []*http.Cookie{{Name: "better-auth.state", Value: "xyz", Path: "/"}},
	}, nil
}

func (fake *fakeFacade) hold() {
	if fake.entered == nil {
		return
	}
	fake.entered <- struct{}{}
	<-fake.release
}

func (fake *fakeFacade) signUpCount() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.signUps)
}

func (fake *fakeFacade) socialCount() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.socialCalls)
}

func blockingFacade() *fakeFacade {
	return &fakeFacade{entered: make(chan struct{}), release: make(chan struct{})}
}
