// Copyright (c) 2026 FarmConnect. All rights reserved.

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequestDefaultsAndClamping(t *testing.T) {
	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", DefaultPage, DefaultLimit},
		{"?page=3&limit=50", 3, 50},
		{"?page=0&limit=0", DefaultPage, DefaultLimit},
		{"?page=-1&limit=9999", DefaultPage, DefaultLimit},
		{"?page=abc&limit=xyz", DefaultPage, DefaultLimit},
	}

	for _, tc := range cases {
		request := httptest.NewRequest("GET", "/"+tc.query, nil)
		params := FromRequest(request)
		assert.Equal(t, tc.wantPage, params.Page, "query %q", tc.query)
		assert.Equal(t, tc.wantLimit, params.Limit, "query %q", tc.query)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Params{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, Params{Page: 0, Limit: 20}.Offset())
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(2, 20, 45)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 45, meta.Total)

	assert.Equal(t, 0, NewMeta(1, 0, 45).TotalPages)
	assert.Equal(t, 0, NewMeta(1, 20, 0).TotalPages)
}
