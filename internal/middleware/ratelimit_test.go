package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(3, time.Minute)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.True(t, limiter.Allow("1.2.3.4"))
	}
	require.False(t, limiter.Allow("1.2.3.4"))

	// Other clients are unaffected.
	require.True(t, limiter.Allow("5.6.7.8"))

	// A fresh window resets the count.
	now = now.Add(time.Minute)
	require.True(t, limiter.Allow("1.2.3.4"))
}

func TestRateLimiterDefaults(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	require.Equal(t, 5, limiter.limit)
	require.Equal(t, time.Minute, limiter.window)
}
