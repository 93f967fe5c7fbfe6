package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPageParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantSkip  int
		wantLimit int
	}{
		{"defaults", "", 0, DefaultLimit},
		{"explicit", "?skip=40&limit=10", 40, 10},
		{"limit clamped", "?limit=500", 0, 100},
		{"zero limit allowed", "?limit=0", 0, 0},
		{"negative values ignored", "?skip=-5&limit=-1", 0, DefaultLimit},
		{"garbage ignored", "?skip=abc&limit=xyz", 0, DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/posts"+tt.query, nil)

			params := ExtractPageParams(r)

			assert.Equal(t, tt.wantSkip, params.Skip)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}
