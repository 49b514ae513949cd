// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/shelter/internal/platform/constants"
)

// ChangeFeed fans profile changes out to live subscribers.
type ChangeFeed interface {
	Publish(context context.Context, profile *Profile) error
	Revoke(context context.Context, id string) error
	Watch(context context.Context, id string) (<-chan Snapshot, func(), error)
}

// feedMessage is the pub/sub payload. Revoked messages carry no profile.
type feedMessage struct {
	Profile *Profile `json:"profile,omitempty"`
	Revoked bool     `json:"revoked,omitempty"`
}

// RedisFeed implements [ChangeFeed] on Redis pub/sub, one channel per profile.
type RedisFeed struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisFeed creates a Redis-backed change feed.
func NewRedisFeed(client *redis.Client, logger *slog.Logger) *RedisFeed {
	return &RedisFeed{client: client, logger: logger}
}

/*
Publish announces the new state of a profile to every watcher.

Parameters:
  - context: context.Context
  - profile: *Profile (the state after the write)

Returns:
  - error: Serialization or connectivity failures
*/
func (feed *RedisFeed) Publish(context context.Context, profile *Profile) error {
	return feed.send(context, profile.ID, feedMessage{Profile: profile})
}

// Revoke tells watchers of id that their read access ended.
func (feed *RedisFeed) Revoke(context context.Context, id string) error {
	return feed.send(context, id, feedMessage{Revoked: true})
}

/*
Watch subscribes to changes of one profile.

Description: Blocks until Redis confirms the subscription, so no change
published after Watch returns can be missed.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - <-chan Snapshot: Closed once stop has run
  - func(): stop, releases the Redis subscription
  - error: [ErrTransient] when the subscription cannot be established
*/
func (feed *RedisFeed) Watch(context context.Context, id string) (<-chan Snapshot, func(), error) {
	pubsub := feed.client.Subscribe(context, channelFor(id))
	if _, err := pubsub.Receive(context); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("%w: redis_feed_subscribe_failed: %w", ErrTransient, err)
	}

	out := make(chan Snapshot, streamBuffer)
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		defer close(out)

		messages := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case message, ok := <-messages:
				if !ok {
					return
				}
				snapshot := decodeSnapshot(message.Payload)
				select {
				case out <- snapshot:
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			if err := pubsub.Close(); err != nil {
				feed.logger.Warn("redis_feed_close_failed", slog.String("profile_id", id), slog.Any("error", err))
			}
			<-finished
		})
	}

	return out, stop, nil
}

// # Helpers

func (feed *RedisFeed) send(context context.Context, id string, message feedMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("redis_feed_encode_failed: %w", err)
	}
	if err := feed.client.Publish(context, channelFor(id), payload).Err(); err != nil {
		return fmt.Errorf("%w: redis_feed_publish_failed: %w", ErrTransient, err)
	}
	return nil
}

func channelFor(id string) string {
	return constants.RedisChannelProfile + id
}

func decodeSnapshot(payload string) Snapshot {
	var message feedMessage
	if err := json.Unmarshal([]byte(payload), &message); err != nil {
		return Snapshot{Err: fmt.Errorf("%w: redis_feed_decode_failed: %w", ErrTransient, err)}
	}
	if message.Revoked {
		return Snapshot{Err: ErrPermissionRevoked}
	}
	return Snapshot{Profile: message.Profile}
}
