// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session keeps a live view of one signed-in account's profile.

A [Session] is the single owner of the current profile and the one open
profile subscription. Only its Run loop writes that state;
readers take copies through [Session.Snapshot].

# Lifecycle
  - Account event: close the old subscription, resolve the profile, adopt
    it, subscribe to changes.
  - Sign-out event (nil account): close the subscription, clear the state.
  - Permission revoked on the stream: same as sign-out, then signal
    [Session.Revoked]. No later snapshot reaches the session.
  - Role change on the stream: force a credential refresh, emit a [Notice],
    then adopt the new profile.

Work started for an account that has since been replaced is discarded when
it completes; every such result carries the generation it was started under.
*/
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/shelter/internal/platform/metrics"
	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/users/profile"
)

// outboxSize bounds each outgoing channel; older items are dropped when full.
const outboxSize = 16

// ErrStreamEnded is surfaced when a profile stream closes on its own.
var ErrStreamEnded = errors.New("session: profile stream ended")

// # Collaborators

// AccountEvent announces the signed-in account. A nil Account means sign-out.
type AccountEvent struct {
	Account *profile.Account
}

// Credentials hands out the account's access token.
type Credentials interface {
	// IDToken returns a token; forceRefresh reissues it so claims are current.
	IDToken(context context.Context, forceRefresh bool) (string, error)
}

// Resolver is the slice of [profile.Resolver] a session uses.
type Resolver interface {
	Resolve(context context.Context, account profile.Account) (*profile.Profile, error)
}

// Subscriber is the slice of [profile.Store] a session uses.
type Subscriber interface {
	Subscribe(context context.Context, id string) (*profile.Subscription, error)
}

// Notice is the user-visible announcement of a role transition.
type Notice struct {
	From    sec.Role `json:"from"`
	To      sec.Role `json:"to"`
	Message string   `json:"message"`

	// Token is the reissued access token; empty when the refresh failed.
	Token string `json:"token,omitempty"`
}

// # Session

// Session synchronizes one account's profile. Create with [New], drive with [Session.Run].
type Session struct {
	resolver    Resolver
	subscriber  Subscriber
	credentials Credentials
	recorder    metrics.Recorder
	logger      *slog.Logger

	mu      sync.RWMutex
	current *profile.Profile

	notices chan Notice
	faults  chan error
	adopted chan *profile.Profile
	revoked chan struct{}

	// Owned by the Run goroutine.
	generation   uint64
	subscription *profile.Subscription
	cancelAttach context.CancelFunc
	attaching    sync.WaitGroup
}

// attachment is the outcome of resolving and subscribing for one account.
type attachment struct {
	generation   uint64
	profile      *profile.Profile
	subscription *profile.Subscription
	err          error
}

// New constructs an idle session.
func New(resolver Resolver, subscriber Subscriber, credentials Credentials, recorder metrics.Recorder, logger *slog.Logger) *Session {
	return &Session{
		resolver:    resolver,
		subscriber:  subscriber,
		credentials: credentials,
		recorder:    recorder,
		logger:      logger,
		notices:     make(chan Notice, outboxSize),
		faults:      make(chan error, outboxSize),
		adopted:     make(chan *profile.Profile, outboxSize),
		revoked:     make(chan struct{}, 1),
	}
}

// Notices delivers role transition announcements.
func (session *Session) Notices() <-chan Notice { return session.notices }

// Faults delivers recoverable errors; the last known profile is kept.
func (session *Session) Faults() <-chan error { return session.faults }

// Adopted delivers a copy of every profile the session adopts.
func (session *Session) Adopted() <-chan *profile.Profile { return session.adopted }

// Revoked signals that the store revoked access to the stream. By then the
// session has already signed out.
func (session *Session) Revoked() <-chan struct{} { return session.revoked }

// Snapshot returns a copy of the current profile, or nil.
func (session *Session) Snapshot() *profile.Profile {
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.current.Clone()
}

/*
Run consumes account events until events is closed or ctx ends.

Description: Run is the only writer of session state. It returns after the
open subscription has been closed and every background attach has finished,
so no goroutine outlives it. Run must not be called concurrently.

Returns:
  - error: ctx.Err() when cancelled, nil when events was closed
*/
func (session *Session) Run(ctx context.Context, events <-chan AccountEvent) error {
	attached := make(chan attachment)
	defer session.teardown()

	for {
		var updates <-chan profile.Snapshot
		if session.subscription != nil {
			updates = session.subscription.Updates()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				return nil
			}
			session.switchAccount(ctx, event.Account, attached)

		case result := <-attached:
			session.attach(result)

		case snapshot, ok := <-updates:
			if !ok {
				session.detach()
				session.fault(ErrStreamEnded)
				continue
			}
			session.observe(ctx, snapshot)
		}
	}
}

// # Event Handling

// switchAccount tears down everything tied to the previous account before
// starting work for the next one.
func (session *Session) switchAccount(ctx context.Context, account *profile.Account, attached chan<- attachment) {
	session.release()

	if account == nil {
		session.logger.DebugContext(ctx, "session_signed_out")
		return
	}

	attachCtx, cancel := context.WithCancel(ctx)
	session.cancelAttach = cancel
	session.attaching.Add(1)

	go func(generation uint64, account profile.Account) {
		defer session.attaching.Done()

		result := attachment{generation: generation}
		result.profile, result.err = session.resolver.Resolve(attachCtx, account)
		if result.err == nil {
			result.subscription, result.err = session.subscriber.Subscribe(attachCtx, account.ID)
		}

		select {
		case attached <- result:
		case <-attachCtx.Done():
			if result.subscription != nil {
				result.subscription.Close()
			}
		}
	}(session.generation, *account)
}

// attach applies a finished resolve+subscribe, unless it is stale.
func (session *Session) attach(result attachment) {
	if result.generation != session.generation {
		if result.subscription != nil {
			result.subscription.Close()
		}
		return
	}

	if result.err != nil {
		session.fault(fmt.Errorf("session_attach_failed: %w", result.err))
		return
	}

	session.subscription = result.subscription
	session.adopt(result.profile)
}

// observe handles one snapshot from the live subscription.
func (session *Session) observe(ctx context.Context, snapshot profile.Snapshot) {
	switch {
	case errors.Is(snapshot.Err, profile.ErrPermissionRevoked):
		session.logger.DebugContext(ctx, "session_permission_revoked")
		session.release()
		offer(session.revoked, struct{}{})
		return
	case snapshot.Err != nil:
		session.fault(snapshot.Err)
		return
	case snapshot.Profile == nil:
		// Record not there (yet); keep the last known profile.
		return
	}

	previous := session.Snapshot()
	if previous != nil && previous.Role != snapshot.Profile.Role {
		session.transition(ctx, previous.Role, snapshot.Profile.Role)
	}
	session.adopt(snapshot.Profile)
}

// transition refreshes credentials and announces the new access level. It
// runs before the new profile is adopted.
func (session *Session) transition(ctx context.Context, from, to sec.Role) {
	notice := Notice{From: from, To: to, Message: describe(to)}

	token, err := session.credentials.IDToken(ctx, true)
	if err != nil {
		session.fault(fmt.Errorf("session_credential_refresh_failed: %w", err))
	} else {
		notice.Token = token
	}

	session.recorder.RecordRoleTransition(from.String(), to.String())
	session.logger.InfoContext(ctx, "session_role_changed",
		slog.String("from_role", from.String()),
		slog.String("to_role", to.String()),
		slog.String("direction", direction(from, to)),
	)
	offer(session.notices, notice)
}

func (session *Session) adopt(next *profile.Profile) {
	session.mu.Lock()
	session.current = next.Clone()
	session.mu.Unlock()
	offer(session.adopted, next.Clone())
}

func (session *Session) fault(err error) {
	session.logger.Warn("session_fault", slog.Any("error", err))
	offer(session.faults, err)
}

// # Teardown

func (session *Session) detach() {
	if session.subscription != nil {
		session.subscription.Close()
		session.subscription = nil
	}
}

func (session *Session) stopAttach() {
	if session.cancelAttach != nil {
		session.cancelAttach()
		session.cancelAttach = nil
	}
}

// release drops everything tied to the current account. Results still in
// flight for it become stale.
func (session *Session) release() {
	session.generation++
	session.stopAttach()
	session.detach()

	session.mu.Lock()
	session.current = nil
	session.mu.Unlock()
}

func (session *Session) teardown() {
	session.release()
	session.attaching.Wait()
}

// # Helpers

// offer sends without blocking, discarding the oldest queued item when full.
func offer[T any](outbox chan T, value T) {
	select {
	case outbox <- value:
		return
	default:
	}
	select {
	case <-outbox:
	default:
	}
	select {
	case outbox <- value:
	default:
	}
}

// describe renders the notice text for a new role, e.g. "Basic User".
func describe(role sec.Role) string {
	return fmt.Sprintf("Your access level is now %s.", roleLabel(role))
}

func direction(from, to sec.Role) string {
	switch from.Compare(to) {
	case -1:
		return "promoted"
	case 1:
		return "demoted"
	default:
		return "lateral"
	}
}

func roleLabel(role sec.Role) string {
	var words strings.Builder
	for index, char := range role.String() {
		if index > 0 && unicode.IsUpper(char) {
			words.WriteByte(' ')
		}
		words.WriteRune(char)
	}
	// Casers carry state; one per call keeps this safe across sessions.
	return cases.Title(language.English).String(words.String())
}
