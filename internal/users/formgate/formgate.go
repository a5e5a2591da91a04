// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package formgate keeps one in-flight gate per rendered form instance.

A form page embeds an instance id (UUID v7) in a hidden field. Rendering a form only
mints the id; the instance is created by its first submission. Every submission of
that instance goes through the same [Gate], so a second submission while the first
is still talking to the identity provider is ignored rather than queued.

Idle instances are swept after a TTL, and the registry never holds more than its
maximum size: the least recently used idle instance makes room for a new one.
*/
package formgate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// # Gate

// Gate admits one holder at a time. The zero value is open.
type Gate struct {
	busy atomic.Bool
}

// TryAcquire closes the gate and reports true, or reports false if it was already closed.
func (gate *Gate) TryAcquire() bool {
	return gate.busy.CompareAndSwap(false, true)
}

// Release reopens the gate.
func (gate *Gate) Release() {
	gate.busy.Store(false)
}

// Busy reports whether a holder is in flight.
func (gate *Gate) Busy() bool {
	return gate.busy.Load()
}

// # Registry

// Instance is what a [Registry] stores. Busy instances are never swept.
type Instance interface {
	Busy() bool
}

type entry[T Instance] struct {
	instance T
	lastUsed time.Time
}

// DefaultMaxSize bounds a registry created with a non-positive size.
const DefaultMaxSize = 10000

// Registry maps form instance ids to their state.
type Registry[T Instance] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	ttl     time.Duration
	maxSize int
	factory func() T
	now     func() time.Time

	evictions atomic.Uint64
}

// NewRegistry creates a registry whose idle entries expire after ttl and which
// holds at most maxSize entries.
func NewRegistry[T Instance](ttl time.Duration, maxSize int, factory func() T) *Registry[T] {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &Registry[T]{
		entries: make(map[string]*entry[T]),
		ttl:     ttl,
		maxSize: maxSize,
		factory: factory,
		now:     time.Now,
	}
}

/*
Lookup returns the instance for id, creating it when needed.

Description: Called on submission. Ids that are not UUIDs (including the empty
string) are replaced by a fresh UUID v7. A well-formed but unknown id, normally one
minted by [NewID] when the form was rendered, is adopted as-is. When the registry is
full, the least recently used idle entry is evicted first.

Returns:
  - T: The instance
  - string: The id the caller must render back into the form
*/
func (registry *Registry[T]) Lookup(id string) (T, string) {
	if _, err := uuid.Parse(id); err != nil {
		id = NewID()
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	current, exists := registry.entries[id]
	if !exists {
		if len(registry.entries) >= registry.maxSize {
			registry.evictOldestLocked()
		}
		current = &entry[T]{instance: registry.factory()}
		registry.entries[id] = current
	}
	current.lastUsed = registry.now()

	return current.instance, id
}

// Len reports how many instances are tracked.
func (registry *Registry[T]) Len() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.entries)
}

// Evictions reports how many entries were dropped to stay under the maximum size.
func (registry *Registry[T]) Evictions() uint64 {
	return registry.evictions.Load()
}

// evictOldestLocked drops the least recently used idle entry. Busy entries are
// kept, so a registry full of in-flight submissions may briefly exceed its size.
func (registry *Registry[T]) evictOldestLocked() {
	var (
		oldestID   string
		oldestSeen time.Time
		found      bool
	)
	for id, current := range registry.entries {
		if current.instance.Busy() {
			continue
		}
		if !found || current.lastUsed.Before(oldestSeen) {
			oldestID, oldestSeen, found = id, current.lastUsed, true
		}
	}

	if found {
		delete(registry.entries, oldestID)
		registry.evictions.Add(1)
	}
}

// Sweep removes idle, non-busy instances and returns how many were removed.
func (registry *Registry[T]) Sweep() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	removed := 0
	for id, current := range registry.entries {
		if registry.now().Sub(current.lastUsed) > registry.ttl && !current.instance.Busy() {
			delete(registry.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every half TTL until context is cancelled.
func (registry *Registry[T]) Run(context context.Context) {
	ticker := time.NewTicker(registry.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			registry.Sweep()
		case <-context.Done():
			return
		}
	}
}

// NewID returns a fresh, time-ordered form instance id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
