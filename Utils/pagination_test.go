package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/videos", nil)

	p := ParsePagination(r, "created_at", "views")

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageLimit, p.Limit)
	assert.Equal(t, "created_at", p.SortBy)
	assert.False(t, p.SortDesc)
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, "ORDER BY created_at ASC", p.OrderBy())
}

func TestParsePaginationExplicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/videos?page=3&limit=25&sortBy=views&sortType=desc", nil)

	p := ParsePagination(r, "created_at", "views")

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, "views", p.SortBy)
	assert.True(t, p.SortDesc)
	assert.Equal(t, 50, p.Offset())
	assert.Equal(t, "ORDER BY views DESC", p.OrderBy())
}

func TestParsePaginationClampsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/videos?limit=5000", nil)

	p := ParsePagination(r, "created_at")

	assert.Equal(t, MaxPageLimit, p.Limit)
}

func TestParsePaginationRejectsBadInput(t *testing.T) {
	r := httptest.NewRequest("GET", "/videos?page=-2&limit=abc&sortBy=owner;drop", nil)

	p := ParsePagination(r, "created_at", "views")

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageLimit, p.Limit)
	// unlisted sort fields fall back, never reach the SQL
	assert.Equal(t, "created_at", p.SortBy)
}
