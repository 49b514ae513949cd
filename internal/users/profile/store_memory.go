// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/shelter/internal/platform/sec"
)

// streamBuffer bounds each subscriber's backlog. When full, the oldest
// snapshot is dropped; the stream only promises the latest state.
const streamBuffer = 16

// MemoryStore is an in-process [Store] used for tests and local runs.
type MemoryStore struct {
	mu          sync.Mutex
	profiles    map[string]*Profile
	subscribers map[string]map[*memorySubscriber]struct{}
	failure     error
	now         func() time.Time

	unsubscribes int
}

type memorySubscriber struct {
	updates chan Snapshot
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:    make(map[string]*Profile),
		subscribers: make(map[string]map[*memorySubscriber]struct{}),
		now:         time.Now,
	}
}

// # Store Methods

func (store *MemoryStore) Get(_ context.Context, id string) (*Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.failure != nil {
		return nil, store.failure
	}
	current, found := store.profiles[id]
	if !found {
		return nil, ErrNotFound
	}
	return current.Clone(), nil
}

func (store *MemoryStore) MergeSet(_ context.Context, id string, fields Fields) (*Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.failure != nil {
		return nil, store.failure
	}
	current, found := store.profiles[id]
	if !found {
		current = &Profile{ID: id, Role: sec.RoleBasicUser, CreatedAt: store.now()}
		store.profiles[id] = current
	}
	apply(current, fields)
	store.publishLocked(id, Snapshot{Profile: current.Clone()})
	return current.Clone(), nil
}

func (store *MemoryStore) Update(_ context.Context, id string, fields Fields) (*Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.failure != nil {
		return nil, store.failure
	}
	current, found := store.profiles[id]
	if !found {
		return nil, ErrNotFound
	}
	apply(current, fields)
	store.publishLocked(id, Snapshot{Profile: current.Clone()})
	return current.Clone(), nil
}

func (store *MemoryStore) Subscribe(_ context.Context, id string) (*Subscription, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.failure != nil {
		return nil, store.failure
	}

	subscriber := &memorySubscriber{updates: make(chan Snapshot, streamBuffer)}
	if store.subscribers[id] == nil {
		store.subscribers[id] = make(map[*memorySubscriber]struct{})
	}
	store.subscribers[id][subscriber] = struct{}{}

	// Initial state first, matching the Postgres-backed store.
	subscriber.updates <- Snapshot{Profile: store.profiles[id].Clone()}

	return NewSubscription(subscriber.updates, func() {
		store.mu.Lock()
		defer store.mu.Unlock()
		delete(store.subscribers[id], subscriber)
		close(subscriber.updates)
		store.unsubscribes++
	}), nil
}

func (store *MemoryStore) List(_ context.Context) ([]*Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.failure != nil {
		return nil, store.failure
	}
	profiles := make([]*Profile, 0, len(store.profiles))
	for _, current := range store.profiles {
		profiles = append(profiles, current.Clone())
	}
	slices.SortFunc(profiles, func(a, b *Profile) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return profiles, nil
}

// # Test Controls

// Put stores a profile as-is and notifies subscribers.
func (store *MemoryStore) Put(profile *Profile) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = store.now()
	}
	store.profiles[profile.ID] = profile.Clone()
	store.publishLocked(profile.ID, Snapshot{Profile: profile.Clone()})
}

// Revoke delivers [ErrPermissionRevoked] to every stream on id.
func (store *MemoryStore) Revoke(id string) {
	store.Emit(id, Snapshot{Err: ErrPermissionRevoked})
}

// Emit pushes an arbitrary snapshot to every stream on id.
func (store *MemoryStore) Emit(id string, snapshot Snapshot) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.publishLocked(id, snapshot)
}

// Fail makes every subsequent call return err; nil restores normal service.
func (store *MemoryStore) Fail(err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.failure = err
}

// Subscribers reports how many streams are open on id.
func (store *MemoryStore) Subscribers(id string) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.subscribers[id])
}

// Unsubscribes reports how many streams have been released in total.
func (store *MemoryStore) Unsubscribes() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.unsubscribes
}

// # Helpers

func (store *MemoryStore) publishLocked(id string, snapshot Snapshot) {
	for subscriber := range store.subscribers[id] {
		select {
		case subscriber.updates <- snapshot:
		default:
			select {
			case <-subscriber.updates:
			default:
			}
			select {
			case subscriber.updates <- snapshot:
			default:
			}
		}
	}
}

func apply(target *Profile, fields Fields) {
	if fields.Name != nil {
		target.Name = *fields.Name
	}
	if fields.Email != nil {
		target.Email = *fields.Email
	}
	if fields.Role != nil {
		target.Role = *fields.Role
	}
}
