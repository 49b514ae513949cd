// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelter/internal/platform/ctxutil"
	"github.com/taibuivan/shelter/internal/platform/metrics"
	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/users/profile"
	"github.com/taibuivan/shelter/internal/users/session"
)

type fixedIssuer struct{}

func (fixedIssuer) IssueAccessToken(_ context.Context, userID string) (string, error) {
	return "reissued-" + userID, nil
}

// withClaims injects what Authenticate would for the given account.
func withClaims(claims *sec.AuthClaims, next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := ctxutil.WithAuthUser(request.Context(), claims)
		ctx = ctxutil.WithBearerToken(ctx, "original")
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// readEvent returns the next "event:" name and its data line.
func readEvent(t *testing.T, reader *bufio.Reader) (string, string) {
	t.Helper()

	var name, data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && name != "":
			return name, data
		}
	}
}

/*
TestLiveEndpoint streams the initial profile, then a role change carrying a
reissued token.
*/
func TestLiveEndpoint(t *testing.T) {
	store := profile.NewMemoryStore()
	store.Put(&profile.Profile{ID: "u-1", Name: "Ann", Role: sec.RoleBasicUser})
	logger := slog.New(slog.DiscardHandler)

	handler := session.NewHandler(profile.NewResolver(store, "", logger), store, fixedIssuer{}, metrics.Nop{}, logger)
	server := httptest.NewServer(withClaims(&sec.AuthClaims{UserID: "u-1", Email: "ann@x.org"}, handler.Routes()))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "text/event-stream", response.Header.Get("Content-Type"))

	reader := bufio.NewReader(response.Body)
	name, data := readEvent(t, reader)
	assert.Equal(t, session.EventProfile, name)
	assert.Contains(t, data, `"role":"basicUser"`)

	require.Eventually(t, func() bool { return store.Subscribers("u-1") == 1 }, time.Second, 5*time.Millisecond)
	role := sec.RoleStaff
	_, err = store.Update(context.Background(), "u-1", profile.Fields{Role: &role})
	require.NoError(t, err)

	// The notice and the adopted profile are queued together; either may come first.
	received := map[string]string{}
	for range 2 {
		name, data := readEvent(t, reader)
		received[name] = data
	}
	assert.Contains(t, received[session.EventRoleChanged], `"token":"reissued-u-1"`)
	assert.Contains(t, received[session.EventRoleChanged], `"to":"staff"`)
	assert.Contains(t, received[session.EventProfile], `"role":"staff"`)

	cancel()
	assert.Eventually(t, func() bool { return store.Subscribers("u-1") == 0 }, time.Second, 5*time.Millisecond)
}

/*
TestLiveEndpoint_EndsOnRevoke verifies the stream closes once the store revokes
the subscription, and a later role change mints no token.
*/
func TestLiveEndpoint_EndsOnRevoke(t *testing.T) {
	store := profile.NewMemoryStore()
	store.Put(&profile.Profile{ID: "u-1", Name: "Ann", Role: sec.RoleBasicUser})
	logger := slog.New(slog.DiscardHandler)

	handler := session.NewHandler(profile.NewResolver(store, "", logger), store, fixedIssuer{}, metrics.Nop{}, logger)
	server := httptest.NewServer(withClaims(&sec.AuthClaims{UserID: "u-1", Email: "ann@x.org"}, handler.Routes()))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	reader := bufio.NewReader(response.Body)
	name, _ := readEvent(t, reader)
	require.Equal(t, session.EventProfile, name)
	require.Eventually(t, func() bool { return store.Subscribers("u-1") == 1 }, time.Second, 5*time.Millisecond)

	store.Revoke("u-1")
	require.Eventually(t, func() bool { return store.Subscribers("u-1") == 0 }, time.Second, 5*time.Millisecond)

	admin := sec.RoleAdmin
	_, err = store.Update(context.Background(), "u-1", profile.Fields{Role: &admin})
	require.NoError(t, err)

	rest, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.NotContains(t, string(rest), session.EventRoleChanged)
	assert.NotContains(t, string(rest), "reissued-u-1")
}

/*
TestLiveEndpoint_RequiresAuth verifies anonymous callers get 401.
*/
func TestLiveEndpoint_RequiresAuth(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	store := profile.NewMemoryStore()
	handler := session.NewHandler(profile.NewResolver(store, "", logger), store, fixedIssuer{}, metrics.Nop{}, logger)

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
