package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
)

// keyPrefix namespaces the limiter's keys in the shared Redis instance.
const keyPrefix = "rl:transfer:"

// RedisLimiter is a sliding-window limiter backed by a Redis sorted set per
// account: members are attempts scored by their timestamp, pruned to the
// window on every evaluation. All service instances share one window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter creates a Redis-backed limiter allowing limit attempts
// per sliding window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

var _ portssvc.TransferRateLimiter = (*RedisLimiter)(nil)

// Allow prunes attempts older than the window, counts what remains and
// records the new attempt when under the limit.
func (l *RedisLimiter) Allow(ctx context.Context, accountID string) (bool, error) {
	key := keyPrefix + accountID
	now := l.now()
	cutoff := now.Add(-l.window).UnixNano()

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff, 10))
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit window read failed: %w", err)
	}

	if countCmd.Val() >= int64(l.limit) {
		return false, nil
	}

	record := l.client.TxPipeline()
	record.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	record.Expire(ctx, key, l.window)
	if _, err := record.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit attempt record failed: %w", err)
	}
	return true, nil
}
