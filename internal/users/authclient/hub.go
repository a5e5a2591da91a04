// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// # Events

// EventType names a change to a session.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
	EventUpdated   EventType = "updated"
)

// Event announces a change to the session identified by TokenHash.
//
// Events never carry the raw token or the session payload; subscribers re-read
// through the facade.
type Event struct {
	Type      EventType `json:"type"`
	TokenHash string    `json:"tokenHash"`
	// Origin identifies the publishing instance so relays can skip their own echoes.
	Origin string `json:"origin"`
}

// Broadcaster forwards local events to other instances.
type Broadcaster interface {
	Broadcast(ctx context.Context, event Event) error
}

// # Hub

// Hub fans session events out to the live subscriptions of this instance.
//
// Each subscriber channel holds at most one event; a newer event replaces an unread
// one, so a slow subscriber never blocks the publisher.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]map[uint64]chan Event
	nextID      uint64
	broadcaster Broadcaster
	origin      string
}

// NewHub creates a hub with a fresh instance identifier.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[uint64]chan Event),
		origin:      uuid.NewString(),
	}
}

// Origin returns this instance's identifier.
func (hub *Hub) Origin() string {
	return hub.origin
}

// SetBroadcaster installs the cross-instance relay. Call before serving traffic.
func (hub *Hub) SetBroadcaster(broadcaster Broadcaster) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.broadcaster = broadcaster
}

// Publish delivers event locally and then forwards it to the broadcaster, if any.
func (hub *Hub) Publish(ctx context.Context, event Event) error {
	event.Origin = hub.origin
	hub.Deliver(event)

	hub.mu.Lock()
	broadcaster := hub.broadcaster
	hub.mu.Unlock()

	if broadcaster == nil {
		return nil
	}
	return broadcaster.Broadcast(ctx, event)
}

// Deliver hands event to local subscribers only. Relays call it for remote events.
func (hub *Hub) Deliver(event Event) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for _, events := range hub.subscribers[event.TokenHash] {
		select {
		case events <- event:
		default:
			// Replace the unread event with the newer one.
			select {
			case <-events:
			default:
			}
			events <- event
		}
	}
}

// Subscribers reports how many subscriptions exist for tokenHash.
func (hub *Hub) Subscribers(tokenHash string) int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.subscribers[tokenHash])
}

func (hub *Hub) subscribe(tokenHash string) (uint64, <-chan Event) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	hub.nextID++
	id := hub.nextID

	if hub.subscribers[tokenHash] == nil {
		hub.subscribers[tokenHash] = make(map[uint64]chan Event)
	}

	events := make(chan Event, 1)
	hub.subscribers[tokenHash][id] = events

	return id, events
}

func (hub *Hub) unsubscribe(tokenHash string, id uint64) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	delete(hub.subscribers[tokenHash], id)
	if len(hub.subscribers[tokenHash]) == 0 {
		delete(hub.subscribers, tokenHash)
	}
}
