// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/stories/internal/platform/constants"
	"github.com/taibuivan/stories/internal/users/auth"
)

// RedisCache implements [Cache] on Redis so every web instance shares session answers.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisCache creates a Redis-backed session cache.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, now: time.Now}
}

/*
Get retrieves a cached session.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *auth.SessionData: The cached answer
  - error: ErrCacheMiss if absent or expired, or connectivity errors
*/
func (cache *RedisCache) Get(context context.Context, tokenHash string) (*auth.SessionData, error) {
	raw, err := cache.client.Get(context, cacheKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	var data auth.SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	// The key TTL already tracks expiry; this guards against clock skew between instances.
	if !data.Valid(cache.now()) {
		return nil, ErrCacheMiss
	}

	return &data, nil
}

/*
Set stores a session with TTL = min(SESSION_CACHE_TTL, time until expiry).

Parameters:
  - context: context.Context
  - tokenHash: string
  - data: *auth.SessionData

Returns:
  - error: Execution errors
*/
func (cache *RedisCache) Set(context context.Context, tokenHash string, data *auth.SessionData) error {
	ttl := entryTTL(data, cache.ttl, cache.now())
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(tokenHash), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

// Delete removes the cached session.
func (cache *RedisCache) Delete(context context.Context, tokenHash string) error {
	if err := cache.client.Del(context, cacheKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

func cacheKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}
