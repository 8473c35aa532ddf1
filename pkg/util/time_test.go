package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30d", 30 * 24 * time.Hour},
		{"90", 90 * time.Second},
		{"15m", 15 * time.Minute},
		{" 1h ", time.Hour},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDuration("xd")
	assert.Error(t, err)
}

func TestGetZeroTime(t *testing.T) {
	d := time.Date(2024, 3, 5, 17, 4, 9, 11, time.Local)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), GetZeroTime(d))
}

func TestFormatLocal(t *testing.T) {
	d := time.Date(2024, 3, 5, 17, 4, 9, 0, time.Local)
	assert.Equal(t, "2024-03-05 17:04:09", FormatLocal(d))
	assert.Empty(t, FormatLocal(time.Time{}))
}
