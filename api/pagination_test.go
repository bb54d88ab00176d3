package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 20, 0},
		{"explicit", "limit=5&offset=10", 5, 10},
		{"capped", "limit=9999", maxPageLimit, 0},
		{"garbage limit", "limit=abc", 20, 0},
		{"negative offset", "offset=-3", 20, 0},
		{"zero limit falls back", "limit=0", 20, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/campaigns?"+tc.query, nil)
			limit, offset := parsePagination(req, 20)
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestPaginateSlice(t *testing.T) {
	start, end, meta := paginateSlice(50, 20, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 20, end)
	assert.True(t, meta.HasMore)
	assert.Equal(t, 50, meta.TotalCount)

	start, end, meta = paginateSlice(50, 20, 40)
	assert.Equal(t, 40, start)
	assert.Equal(t, 50, end)
	assert.False(t, meta.HasMore)

	// Offset past the end yields an empty page, not a panic.
	start, end, meta = paginateSlice(50, 20, 100)
	assert.Equal(t, start, end)
	assert.False(t, meta.HasMore)
}

func TestListPageEmptyIsNotNull(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
	page := listPage[string](req, nil, 20)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}
