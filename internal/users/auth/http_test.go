// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelter/internal/platform/middleware"
	"github.com/taibuivan/shelter/internal/users/auth"
)

func newRouter(f *fixture) http.Handler {
	handler := auth.NewHandler(f.service)
	return middleware.Authenticate(f.tokens)(handler.Routes())
}

func refreshCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == auth.RefreshTokenCookieName {
			return cookie
		}
	}
	t.Fatalf("refresh cookie not set")
	return nil
}

/*
TestHandler_RegisterRefreshLogout walks one session through the HTTP surface.
*/
func TestHandler_RegisterRefreshLogout(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	// 1. Register
	body := `{"email":"ada@shelter.test","password":"correct-horse","displayName":"Ada"}`
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var payload struct {
		Data struct {
			AccessToken string `json:"accessToken"`
			Profile     struct {
				Name string `json:"name"`
				Role string `json:"role"`
			} `json:"profile"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, "Ada", payload.Data.Profile.Name)
	assert.Equal(t, "basicUser", payload.Data.Profile.Role)
	cookie := refreshCookie(t, recorder)
	assert.True(t, cookie.HttpOnly)

	// 2. Refresh rotates the cookie
	request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	request.AddCookie(cookie)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	rotated := refreshCookie(t, recorder)
	assert.NotEqual(t, cookie.Value, rotated.Value)

	// 3. Logout needs a bearer
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request = httptest.NewRequest(http.MethodPost, "/logout", nil)
	request.Header.Set("Authorization", "Bearer "+payload.Data.AccessToken)
	request.AddCookie(rotated)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Len(t, f.revoker.revoked, 1)
}

/*
TestHandler_Login_BadJSON verifies malformed bodies are rejected before the service.
*/
func TestHandler_Login_BadJSON(t *testing.T) {
	f := newFixture(t)

	recorder := httptest.NewRecorder()
	newRouter(f).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
