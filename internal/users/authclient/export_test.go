// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient

import "time"

// SetClock replaces the cache's time source.
func (cache *InMemoryCache) SetClock(now func() time.Time) {
	cache.now = now
}

// Relay feeds one raw pub/sub payload through the broadcaster.
func (broadcaster *RedisBroadcaster) Relay(payload string) {
	broadcaster.relay(payload)
}
