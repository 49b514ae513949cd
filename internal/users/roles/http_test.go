// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelter/internal/platform/ctxutil"
	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/users/profile"
	"github.com/taibuivan/shelter/internal/users/roles"
)

func serve(t *testing.T, f *fixture, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		ctx := ctxutil.WithBearerToken(request.Context(), token)
		ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: strings.TrimSuffix(token, "-token")})
		request = request.WithContext(ctx)
	}

	recorder := httptest.NewRecorder()
	roles.NewHandler(f.service, f.store).Routes().ServeHTTP(recorder, request)
	return recorder
}

/*
TestUpdateRoleEndpoint covers the HTTP status contract of POST /update-role.
*/
func TestUpdateRoleEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		body       string
		wantStatus int
	}{
		{"success", "staff-token", `{"targetUid":"target","newRole":"volunteer"}`, http.StatusOK},
		{"no token", "", `{"targetUid":"target","newRole":"volunteer"}`, http.StatusUnauthorized},
		{"missing target", "staff-token", `{"newRole":"volunteer"}`, http.StatusBadRequest},
		{"missing role", "staff-token", `{"targetUid":"target"}`, http.StatusBadRequest},
		{"unknown role", "admin-token", `{"targetUid":"target","newRole":"owner"}`, http.StatusBadRequest},
		{"malformed body", "admin-token", `{"targetUid":`, http.StatusBadRequest},
		{"forbidden", "staff-token", `{"targetUid":"target","newRole":"admin"}`, http.StatusForbidden},
		{"unknown target", "admin-token", `{"targetUid":"ghost","newRole":"staff"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.Put(&profile.Profile{ID: "target", Role: sec.RoleBasicUser})

			recorder := serve(t, f, http.MethodPost, "/update-role", tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())

			if tt.wantStatus == http.StatusOK {
				var payload map[string]string
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
				assert.Equal(t, "User role updated to volunteer and custom claims set.", payload["message"])
			}
		})
	}
}

/*
TestListUsersEndpoint verifies the dashboard listing is gated on the stored role.
*/
func TestListUsersEndpoint(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, serve(t, f, http.MethodGet, "/users", "staff-token", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(t, f, http.MethodGet, "/users", "basic-token", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(t, f, http.MethodGet, "/users", "", "").Code)
}

/*
TestVerifyRoleEndpoint verifies the caller's stored role is echoed back.
*/
func TestVerifyRoleEndpoint(t *testing.T) {
	f := newFixture(t)

	recorder := serve(t, f, http.MethodPost, "/verify-role", "volunteer-token", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"role":"volunteer"`)
}
