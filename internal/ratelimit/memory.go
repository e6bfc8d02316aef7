package ratelimit

import (
	"context"
	"sync"
	"time"

	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
)

// MemoryLimiter is a per-process sliding-window limiter. Suitable for
// single-instance deployments and tests; multi-instance deployments should
// use the Redis limiter so all instances share one window.
type MemoryLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	attempts map[string][]time.Time
}

// NewMemoryLimiter creates an in-process limiter allowing limit attempts
// per sliding window.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		attempts: make(map[string][]time.Time),
	}
}

var _ portssvc.TransferRateLimiter = (*MemoryLimiter)(nil)

// Allow reports whether the account may initiate another transfer now. The
// window slides with wall-clock time: attempts older than the window fall
// out at evaluation time, not on a fixed boundary.
func (l *MemoryLimiter) Allow(_ context.Context, accountID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.attempts[accountID][:0]
	for _, t := range l.attempts[accountID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.attempts[accountID] = kept
		return false, nil
	}

	l.attempts[accountID] = append(kept, now)
	return true, nil
}
