// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelter/internal/platform/constants"
	"github.com/taibuivan/shelter/internal/platform/ctxutil"
	"github.com/taibuivan/shelter/internal/platform/middleware"
	"github.com/taibuivan/shelter/internal/platform/sec"
)

// # Test Doubles

type stubVerifier struct {
	claims *sec.AuthClaims
}

func (verifier stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return verifier.claims, nil
}

type originList map[string]bool

func (list originList) OriginAllowed(origin string) bool { return list[origin] }

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (recorder *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.requests = append(recorder.requests, recordedRequest{method, route, status})
}
func (recorder *fakeRecorder) RecordRoleUpdate(string)             {}
func (recorder *fakeRecorder) RecordRoleTransition(string, string) {}
func (recorder *fakeRecorder) RecordBioGeneration(string)          {}

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

// # Request Tracing

/*
TestRequestID_GeneratesAndPreserves verifies a fresh ID is minted when absent
and a client-supplied one is echoed back.
*/
func TestRequestID_GeneratesAndPreserves(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "client-id")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "client-id", seen)
}

// # Authentication

/*
TestAuthenticate covers anonymous pass-through, malformed headers, rejected
tokens and context injection for valid tokens.
*/
func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "u-1", Email: "a@b.org", Role: "staff"}
	authenticate := middleware.Authenticate(stubVerifier{claims: claims})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   bool
	}{
		{"anonymous", "", http.StatusOK, false},
		{"missing scheme", "good", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, false},
		{"empty token", "Bearer  ", http.StatusUnauthorized, false},
		{"rejected token", "Bearer nope", http.StatusUnauthorized, false},
		{"valid token", "Bearer good", http.StatusOK, true},
		{"lowercase scheme", "bearer good", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser *sec.AuthClaims
			var gotToken string
			handler := authenticate(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				gotUser = ctxutil.GetAuthUser(request.Context())
				gotToken = ctxutil.GetBearerToken(request.Context())
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantUser {
				require.NotNil(t, gotUser)
				assert.Equal(t, "u-1", gotUser.UserID)
				assert.Equal(t, "good", gotToken)
			} else {
				assert.Nil(t, gotUser)
			}
		})
	}
}

/*
TestRequireAuth verifies anonymous requests are rejected with 401.
*/
func TestRequireAuth(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.RequireAuth(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "u-1"}))
	recorder = httptest.NewRecorder()
	middleware.RequireAuth(okHandler).ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

// # Guards

/*
TestCORS verifies headers are only set for allowed origins and pre-flight
requests short-circuit.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(originList{"https://shelter.example": true})(okHandler)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://shelter.example")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "https://shelter.example", recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://evil.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://shelter.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

/*
TestRateLimit verifies the bucket rejects requests beyond the burst per IP.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(okHandler)
	send := func(ip string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRealIP, ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

/*
TestPanicRecovery verifies a panicking handler becomes a 500 response.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

// # Metrics

/*
TestMetrics_UsesRoutePattern verifies requests are labelled by the chi
pattern rather than the concrete path.
*/
func TestMetrics_UsesRoutePattern(t *testing.T) {
	recorder := &fakeRecorder{}
	router := chi.NewRouter()
	router.Use(middleware.Metrics(recorder))
	router.Get("/animals/{id}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/animals/42", nil))

	require.Len(t, recorder.requests, 1)
	assert.Equal(t, recordedRequest{http.MethodGet, "/animals/{id}", http.StatusTeapot}, recorder.requests[0])
}
