package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_DeniesAboveLimit(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(5, time.Minute)
	l.now = func() time.Time { return clock }

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "acct-1")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should pass", i+1)
		clock = clock.Add(time.Second)
	}

	ok, err := l.Allow(ctx, "acct-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryLimiter_WindowSlides(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return clock }

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "acct-1")
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := l.Allow(ctx, "acct-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// The first attempt falls out of the window; one slot frees up.
	clock = clock.Add(61 * time.Second)
	ok, err = l.Allow(ctx, "acct-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_DeniedAttemptDoesNotConsume(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(1, time.Minute)
	l.now = func() time.Time { return clock }

	ctx := context.Background()
	ok, err := l.Allow(ctx, "acct-1")
	require.NoError(t, err)
	require.True(t, ok)

	// Hammering while denied must not push the window forward.
	for i := 0; i < 10; i++ {
		clock = clock.Add(time.Second)
		ok, err = l.Allow(ctx, "acct-1")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	clock = clock.Add(time.Minute)
	ok, err = l.Allow(ctx, "acct-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_AccountsAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "acct-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Allow(ctx, "acct-2")
	require.NoError(t, err)
	assert.True(t, ok)
}
