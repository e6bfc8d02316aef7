package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, limit int, window time.Duration) *RedisLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, limit, window)
}

func TestRedisLimiter_DeniesAboveLimit(t *testing.T) {
	l := newRedisLimiter(t, 5, time.Minute)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
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

func TestRedisLimiter_WindowSlides(t *testing.T) {
	l := newRedisLimiter(t, 2, time.Minute)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
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

	clock = clock.Add(61 * time.Second)
	ok, err = l.Allow(ctx, "acct-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_AccountsAreIndependent(t *testing.T) {
	l := newRedisLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "acct-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Allow(ctx, "acct-2")
	require.NoError(t, err)
	assert.True(t, ok)
}
