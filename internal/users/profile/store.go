// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"sync"
)

// # Store Contract

// Store defines the persistence and change-stream operations for profiles.
type Store interface {
	// Get returns the profile or [ErrNotFound].
	Get(context context.Context, id string) (*Profile, error)

	// MergeSet creates the profile if absent, otherwise overwrites only the
	// fields that are set. Concurrent identical calls converge.
	MergeSet(context context.Context, id string, fields Fields) (*Profile, error)

	// Update changes set fields of an existing profile or returns [ErrNotFound].
	Update(context context.Context, id string, fields Fields) (*Profile, error)

	// Subscribe opens a stream that first yields the current state, then one
	// snapshot per change, until the subscription is closed.
	Subscribe(context context.Context, id string) (*Subscription, error)

	// List returns every profile, oldest first.
	List(context context.Context) ([]*Profile, error)
}

// # Subscription

// Subscription is a cancellable stream of [Snapshot] values for one profile.
type Subscription struct {
	updates <-chan Snapshot
	stop    func()
	once    sync.Once
}

// NewSubscription wraps a snapshot channel and its release function.
// stop runs at most once, no matter how often Close is called.
func NewSubscription(updates <-chan Snapshot, stop func()) *Subscription {
	return &Subscription{updates: updates, stop: stop}
}

// Updates returns the snapshot channel. It is closed after Close.
func (subscription *Subscription) Updates() <-chan Snapshot {
	return subscription.updates
}

// Close releases the underlying listener. Safe to call repeatedly.
func (subscription *Subscription) Close() {
	subscription.once.Do(func() {
		if subscription.stop != nil {
			subscription.stop()
		}
	})
}
