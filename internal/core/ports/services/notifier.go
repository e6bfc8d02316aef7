package services

import (
	"context"

	"github.com/brixal/wallet-backend/internal/core/domain"
)

// Notifier delivers state-change events to downstream systems. The core
// publishes after a mutation has committed, never while holding a balance
// lock; delivery failures are logged by callers, not propagated.
type Notifier interface {
	Publish(ctx context.Context, event domain.Event) error
}
