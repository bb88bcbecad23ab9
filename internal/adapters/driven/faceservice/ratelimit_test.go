package faceservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(0, 0)

	assert.InDelta(t, DefaultRequestsPerSecond, float64(r.limiter.Limit()), 0.001)
	assert.Equal(t, DefaultBurst, r.limiter.Burst())
}

func TestRateLimiter_WaitWithinBurst(t *testing.T) {
	r := NewRateLimiter(1, 3)
	ctx := context.Background()

	start := time.Now()
	for range 3 {
		require.NoError(t, r.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRateLimiter_BackoffHonoursContext(t *testing.T) {
	r := NewRateLimiter(100, 10)
	r.Backoff("60")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_BackoffDuration(t *testing.T) {
	r := NewRateLimiter(1, 1)

	r.Backoff("5")
	assert.WithinDuration(t, time.Now().Add(5*time.Second), r.RetryAt(), time.Second)

	r.Backoff("soon")
	assert.WithinDuration(t, time.Now().Add(defaultBackoff), r.RetryAt(), time.Second)
}
