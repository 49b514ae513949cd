// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/platform/constants"
	"github.com/taibuivan/shelter/internal/platform/ctxutil"
	"github.com/taibuivan/shelter/internal/platform/metrics"
	requestutil "github.com/taibuivan/shelter/internal/platform/request"
	"github.com/taibuivan/shelter/internal/platform/respond"
	"github.com/taibuivan/shelter/internal/users/profile"
)

// Server-sent event names.
const (
	EventProfile     = "profile"
	EventRoleChanged = "role_changed"
	EventFault       = "fault"
)

// TokenIssuer mints a fresh access token carrying the account's current role.
type TokenIssuer interface {
	IssueAccessToken(context context.Context, userID string) (string, error)
}

// Handler streams a live session to the browser as server-sent events.
type Handler struct {
	resolver   Resolver
	subscriber Subscriber
	issuer     TokenIssuer
	recorder   metrics.Recorder
	logger     *slog.Logger
	keepAlive  time.Duration
}

// NewHandler constructs a new live-session [Handler].
func NewHandler(resolver Resolver, subscriber Subscriber, issuer TokenIssuer, recorder metrics.Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		resolver:   resolver,
		subscriber: subscriber,
		issuer:     issuer,
		recorder:   recorder,
		logger:     logger,
		keepAlive:  constants.LiveKeepAliveInterval,
	}
}

// Routes returns a [chi.Router] for /me/live. Mount outside request timeouts.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.live)
	return router
}

/*
GET /api/v1/me/live.

Description: Opens a session for the bearer's account and streams:
  - profile: every adopted profile
  - role_changed: a [Notice] with the reissued access token
  - fault: {code, message} for recoverable errors

The stream ends when the client disconnects or the account signs out
elsewhere and the store revokes the subscription.
*/
func (handler *Handler) live(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	controller := http.NewResponseController(writer)
	_ = controller.SetWriteDeadline(time.Time{})

	header := writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	writer.WriteHeader(http.StatusOK)
	if err := controller.Flush(); err != nil {
		handler.logger.ErrorContext(request.Context(), "live_stream_flush_unsupported", slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithCancel(request.Context())
	defer cancel()

	credentials := &issuedCredentials{
		issuer: handler.issuer,
		userID: claims.UserID,
		token:  ctxutil.GetBearerToken(request.Context()),
	}
	live := New(handler.resolver, handler.subscriber, credentials, handler.recorder, ctxutil.GetLogger(ctx))

	events := make(chan AccountEvent, 1)
	events <- AccountEvent{Account: &profile.Account{ID: claims.UserID, Email: claims.Email}}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_ = live.Run(ctx, events)
	}()
	defer func() {
		cancel()
		<-finished
	}()

	ticker := time.NewTicker(handler.keepAlive)
	defer ticker.Stop()

	for {
		var writeErr error

		select {
		case <-ctx.Done():
			return
		case <-live.Revoked():
			handler.logger.InfoContext(ctx, "live_stream_revoked", slog.String("user_id", claims.UserID))
			return
		case current := <-live.Adopted():
			writeErr = writeEvent(writer, EventProfile, current)
		case notice := <-live.Notices():
			writeErr = writeEvent(writer, EventRoleChanged, notice)
		case fault := <-live.Faults():
			writeErr = writeEvent(writer, EventFault, faultPayload(fault))
		case <-ticker.C:
			_, writeErr = fmt.Fprint(writer, ": keep-alive\n\n")
		}

		if writeErr == nil {
			writeErr = controller.Flush()
		}
		if writeErr != nil {
			handler.logger.DebugContext(ctx, "live_stream_closed", slog.Any("error", writeErr))
			return
		}
	}
}

// # Helpers

// writeEvent writes one SSE frame. JSON never contains raw newlines, so the
// payload fits on a single data line.
func writeEvent(writer http.ResponseWriter, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("live_stream_encode_failed: %w", err)
	}
	_, err = fmt.Fprintf(writer, "event: %s\ndata: %s\n\n", name, data)
	return err
}

func faultPayload(err error) map[string]string {
	appError := apperr.As(profile.ToAppError(err))
	if appError == nil {
		appError = apperr.Internal(err)
	}
	return map[string]string{
		constants.FieldCode:    appError.Code,
		constants.FieldMessage: appError.Message,
	}
}

// issuedCredentials implements [Credentials] for one account on top of a
// [TokenIssuer], starting from the token the client connected with.
type issuedCredentials struct {
	issuer TokenIssuer
	userID string

	mu    sync.Mutex
	token string
}

func (credentials *issuedCredentials) IDToken(context context.Context, forceRefresh bool) (string, error) {
	credentials.mu.Lock()
	defer credentials.mu.Unlock()

	if !forceRefresh && credentials.token != "" {
		return credentials.token, nil
	}

	token, err := credentials.issuer.IssueAccessToken(context, credentials.userID)
	if err != nil {
		return "", err
	}
	credentials.token = token
	return token, nil
}
