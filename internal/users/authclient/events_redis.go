// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/stories/internal/platform/constants"
)

// RedisBroadcaster relays [Event] values between instances over Redis pub/sub.
//
// A sign-out on one instance therefore reaches dashboards held open on any other.
type RedisBroadcaster struct {
	client  redis.UniversalClient
	hub     *Hub
	channel string
	logger  *slog.Logger
}

// NewRedisBroadcaster creates a relay for hub and installs it as the hub's broadcaster.
func NewRedisBroadcaster(client redis.UniversalClient, hub *Hub, logger *slog.Logger) *RedisBroadcaster {
	broadcaster := &RedisBroadcaster{
		client:  client,
		hub:     hub,
		channel: constants.RedisChannelAuthEvents,
		logger:  logger,
	}
	hub.SetBroadcaster(broadcaster)
	return broadcaster
}

// Broadcast publishes event on the shared channel.
func (broadcaster *RedisBroadcaster) Broadcast(context context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis_event_encode_failed: %w", err)
	}

	if err := broadcaster.client.Publish(context, broadcaster.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis_event_publish_failed: %w", err)
	}

	return nil
}

// Run subscribes to the shared channel and feeds remote events into the hub.
// It blocks until context is cancelled.
func (broadcaster *RedisBroadcaster) Run(context context.Context) error {
	pubsub := broadcaster.client.Subscribe(context, broadcaster.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before reporting readiness.
	if _, err := pubsub.Receive(context); err != nil {
		return fmt.Errorf("redis_event_subscribe_failed: %w", err)
	}

	broadcaster.logger.Info("auth_event_relay_started", slog.String("channel", broadcaster.channel))

	messages := pubsub.Channel()
	for {
		select {
		case <-context.Done():
			return nil
		case message, ok := <-messages:
			if !ok {
				return nil
			}
			broadcaster.relay(message.Payload)
		}
	}
}

// relay decodes one payload and delivers it locally unless this instance sent it.
func (broadcaster *RedisBroadcaster) relay(payload string) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		broadcaster.logger.Warn("auth_event_decode_failed", slog.String("error", err.Error()))
		return
	}

	if event.Origin == broadcaster.hub.Origin() || event.TokenHash == "" {
		return
	}

	broadcaster.hub.Deliver(event)
}
