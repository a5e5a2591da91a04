// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient

import (
	"context"
	"sync"

	"github.com/taibuivan/stories/internal/users/auth"
)

// Snapshot is one observation of a session.
//
// Exactly one of the following holds: IsPending is true; Err is set; or the read
// resolved, with Data nil meaning "no session".
type Snapshot struct {
	Data      *auth.SessionData
	IsPending bool
	Err       error
}

// Subscription is a live view of one session.
//
// Updates are conflating: the channel holds at most one snapshot and a newer one
// replaces an unread one.
type Subscription struct {
	updates chan Snapshot
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// Updates returns the snapshot stream. It is closed after [Subscription.Close] or
// when the context passed to [Client.Watch] ends.
func (subscription *Subscription) Updates() <-chan Snapshot {
	return subscription.updates
}

// Close stops the subscription and waits for it to unregister. It is idempotent.
func (subscription *Subscription) Close() {
	subscription.once.Do(subscription.cancel)
	<-subscription.done
}

/*
Watch opens a reactive read of the session identified by token.

Description: The first snapshot is pending, followed by exactly one resolution from
[Client.Session]. Later snapshots are produced only by hub events for the same token:
a sign-out yields Data=nil, any other change re-reads the session.

Parameters:
  - context: context.Context (cancelling it ends the subscription)
  - token: string (may be empty; resolves to no session)

Returns:
  - *Subscription
*/
func (client *Client) Watch(parent context.Context, token string) *Subscription {
	ctx, cancel := context.WithCancel(parent)

	subscription := &Subscription{
		updates: make(chan Snapshot, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go client.run(ctx, token, subscription)

	return subscription
}

func (client *Client) run(ctx context.Context, token string, subscription *Subscription) {
	defer close(subscription.done)
	defer close(subscription.updates)

	client.metrics.AddSubscriptions(1)
	defer client.metrics.AddSubscriptions(-1)

	send := func(snapshot Snapshot) {
		select {
		case subscription.updates <- snapshot:
		default:
			select {
			case <-subscription.updates:
			default:
			}
			subscription.updates <- snapshot
		}
	}

	send(Snapshot{IsPending: true})

	if token == "" {
		send(Snapshot{})
		<-ctx.Done()
		return
	}

	// Register before the first read so no event between read and registration is lost.
	tokenHash := HashToken(token)
	id, events := client.hub.subscribe(tokenHash)
	defer client.hub.unsubscribe(tokenHash, id)

	data, err := client.Session(ctx, token)
	if ctx.Err() != nil {
		return
	}
	send(Snapshot{Data: data, Err: err})

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			if event.Type == EventSignedOut {
				client.evict(ctx, tokenHash)
				send(Snapshot{})
				continue
			}

			// Remote instances may have refreshed the profile; drop the local copy first.
			client.evict(ctx, tokenHash)
			data, err := client.Session(ctx, token)
			if ctx.Err() != nil {
				return
			}
			send(Snapshot{Data: data, Err: err})
		}
	}
}
