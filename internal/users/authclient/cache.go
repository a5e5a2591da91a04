// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/taibuivan/stories/internal/users/auth"
)

// ErrCacheMiss is returned by a [Cache] when no live entry exists.
var ErrCacheMiss = errors.New("authclient: session cache miss")

// Cache stores provider session answers keyed by token hash.
//
// Implementations must never return an entry past the session's own expiry.
type Cache interface {
	Get(ctx context.Context, tokenHash string) (*auth.SessionData, error)
	Set(ctx context.Context, tokenHash string, data *auth.SessionData) error
	Delete(ctx context.Context, tokenHash string) error
}

// HashToken returns the hex SHA-256 of a session credential.
//
// Hashes are the only form of a token that leaves the request path (cache keys,
// hub keys, broadcast events).
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// entryTTL bounds ttl by the time left on the session.
func entryTTL(data *auth.SessionData, ttl time.Duration, now time.Time) time.Duration {
	if remaining := data.Session.ExpiresAt.Sub(now); remaining < ttl {
		return remaining
	}
	return ttl
}

// # In-Memory

// CacheStats is a point-in-time view of [InMemoryCache] counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

type cachedEntry struct {
	data      auth.SessionData
	expiresAt time.Time
}

// InMemoryCache is the single-instance [Cache] used when Redis is not configured.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedEntry
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewInMemoryCache creates a cache. Zero values select 5 minutes and 1000 entries.
func NewInMemoryCache(ttl time.Duration, maxSize int) *InMemoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxSize <= 0 {
		maxSize = 1000
	}

	return &InMemoryCache{
		entries: make(map[string]cachedEntry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns a copy of the cached session.
func (cache *InMemoryCache) Get(_ context.Context, tokenHash string) (*auth.SessionData, error) {
	cache.mu.RLock()
	entry, exists := cache.entries[tokenHash]
	cache.mu.RUnlock()

	if !exists {
		cache.misses.Add(1)
		return nil, ErrCacheMiss
	}

	if !cache.now().Before(entry.expiresAt) {
		cache.mu.Lock()
		if current, ok := cache.entries[tokenHash]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(cache.entries, tokenHash)
			cache.evictions.Add(1)
		}
		cache.mu.Unlock()

		cache.misses.Add(1)
		return nil, ErrCacheMiss
	}

	cache.hits.Add(1)
	data := entry.data
	return &data, nil
}

// Set stores a copy of data. Entries for sessions that are already expired are dropped.
func (cache *InMemoryCache) Set(_ context.Context, tokenHash string, data *auth.SessionData) error {
	now := cache.now()
	ttl := entryTTL(data, cache.ttl, now)
	if ttl <= 0 {
		return nil
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()

	if _, exists := cache.entries[tokenHash]; !exists && len(cache.entries) >= cache.maxSize {
		cache.evictOldestLocked()
	}

	cache.entries[tokenHash] = cachedEntry{data: *data, expiresAt: now.Add(ttl)}
	return nil
}

// Delete removes an entry. Deleting a missing key is not an error.
func (cache *InMemoryCache) Delete(_ context.Context, tokenHash string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	delete(cache.entries, tokenHash)
	return nil
}

// Stats returns the current counters.
func (cache *InMemoryCache) Stats() CacheStats {
	cache.mu.RLock()
	size := len(cache.entries)
	cache.mu.RUnlock()

	return CacheStats{
		Hits:      cache.hits.Load(),
		Misses:    cache.misses.Load(),
		Evictions: cache.evictions.Load(),
		Size:      size,
	}
}

// evictOldestLocked drops the entry closest to expiry. Caller holds the write lock.
func (cache *InMemoryCache) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for key, entry := range cache.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt = key, entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(cache.entries, oldestKey)
		cache.evictions.Add(1)
	}
}
