package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterThreshold(t *testing.T) {
	ctx := context.Background()
	limiter := NewLimiter(NewMemoryCounterStore())
	policy := Policy{Window: time.Minute, Max: 10}

	for i := 0; i < 10; i++ {
		decision := limiter.Allow(ctx, "booking_create", "203.0.113.7", policy)
		require.True(t, decision.Allowed, "attempt %d within the policy", i+1)
	}

	decision := limiter.Allow(ctx, "booking_create", "203.0.113.7", policy)
	assert.False(t, decision.Allowed)
	assert.Equal(t, int64(0), decision.Remaining)
	assert.Greater(t, decision.ResetTime, time.Now().Unix(), "reset time points into the window")
}

func TestLimiterIdentitiesAndActionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter := NewLimiter(NewMemoryCounterStore())
	create := Policy{Window: time.Minute, Max: 2}
	cancel := Policy{Window: 10 * time.Minute, Max: 3}

	limiter.Allow(ctx, "booking_create", "203.0.113.7", create)
	limiter.Allow(ctx, "booking_create", "203.0.113.7", create)
	assert.False(t, limiter.Allow(ctx, "booking_create", "203.0.113.7", create).Allowed)

	// Same IP, different action: its own counter.
	assert.True(t, limiter.Allow(ctx, "booking_cancel", "203.0.113.7", cancel).Allowed)
	// Same action, different IP: its own counter.
	assert.True(t, limiter.Allow(ctx, "booking_create", "198.51.100.4", create).Allowed)
}

func TestLimiterWindowExpiry(t *testing.T) {
	ctx := context.Background()
	limiter := NewLimiter(NewMemoryCounterStore())
	policy := Policy{Window: 50 * time.Millisecond, Max: 1}

	require.True(t, limiter.Allow(ctx, "booking_create", "ip", policy).Allowed)
	require.False(t, limiter.Allow(ctx, "booking_create", "ip", policy).Allowed)

	time.Sleep(60 * time.Millisecond)
	assert.True(t, limiter.Allow(ctx, "booking_create", "ip", policy).Allowed, "fresh window after expiry")
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, context.DeadlineExceeded
}

func TestLimiterFailsOpen(t *testing.T) {
	limiter := NewLimiter(failingStore{})
	decision := limiter.Allow(context.Background(), "booking_create", "ip", Policy{Window: time.Minute, Max: 5})
	assert.True(t, decision.Allowed)
}

func TestMemoryCounterStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCounterStore()

	count, resetAt, err := store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.WithinDuration(t, time.Now().Add(time.Minute), resetAt, time.Second)

	count, _, err = store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, _, err = store.Incr(ctx, "other", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "keys are isolated")
}
