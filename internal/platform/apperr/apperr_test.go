// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelter/internal/platform/apperr"
)

/*
TestAppError_Unwrap keeps the cause reachable through errors.Is.
*/
func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("profile_get: %w", apperr.Transient(cause))

	assert.ErrorIs(t, err, cause)
	assert.True(t, apperr.HasCode(err, apperr.CodeTransientStore))

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusServiceUnavailable, ae.HTTPStatus)
}

/*
TestAppError_ClaimsStale is a distinct code from a plain internal error.
*/
func TestAppError_ClaimsStale(t *testing.T) {
	err := apperr.ClaimsStale(errors.New("redis down"))

	assert.Equal(t, apperr.CodeClaimsStale, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.False(t, apperr.HasCode(err, "INTERNAL_ERROR"))
}

/*
TestIsNotFound only matches NOT_FOUND app errors.
*/
func TestIsNotFound(t *testing.T) {
	assert.True(t, apperr.IsNotFound(apperr.NotFound("Profile")))
	assert.True(t, apperr.IsNotFound(fmt.Errorf("wrapped: %w", apperr.NotFound("Profile"))))
	assert.False(t, apperr.IsNotFound(apperr.Forbidden("no")))
	assert.False(t, apperr.IsNotFound(errors.New("plain")))
	assert.False(t, apperr.IsNotFound(nil))
}
