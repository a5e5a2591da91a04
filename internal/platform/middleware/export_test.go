// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import "time"

// SetClock replaces the limiter's time source.
func (limiter *RateLimiter) SetClock(now func() time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	limiter.now = now
}

// EvictIdle runs one sweep synchronously.
func (limiter *RateLimiter) EvictIdle() {
	limiter.evictIdle()
}
