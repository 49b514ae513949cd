// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/shelter/pkg/pagination"
)

/*
TestFromRequest covers defaults and clamping of the query parameters.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"explicit", "?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"garbage", "?page=x&limit=y", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"negative page", "?page=-2", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"limit too large", "?limit=5000", pagination.Params{Page: 1, Limit: pagination.MaxLimit}},
		{"limit zero", "?limit=0", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/animals"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request))
		})
	}
}

/*
TestNewMeta checks the page arithmetic.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 10, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasMore)

	last := pagination.NewMeta(3, 10, 25)
	assert.False(t, last.HasMore)

	assert.Equal(t, 20, pagination.Params{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, pagination.NewMeta(1, 10, 0).TotalPages)
}
