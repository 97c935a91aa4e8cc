package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaTypeAllowList(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
		allowed     bool
	}{
		{"image/jpeg", "image/jpeg", true},
		{"IMAGE/PNG", "image/png", true},
		{"image/png; charset=binary", "image/png", true},
		{"application/pdf", "application/pdf", false},
		{"image/gif", "image/gif", false},
		{"", "", false},
		{"not a type/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got := NormalizeMediaType(tt.contentType)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.allowed, IsAllowedMediaType(got))
		})
	}
}

func TestFitsIntColumn(t *testing.T) {
	assert.True(t, FitsIntColumn(0))
	assert.True(t, FitsIntColumn(math.MaxInt32))
	assert.True(t, FitsIntColumn(math.MinInt32))
	assert.False(t, FitsIntColumn(math.MaxInt32+1))
	assert.False(t, FitsIntColumn(1<<40))
	assert.False(t, FitsIntColumn(math.MinInt32-1))
}
