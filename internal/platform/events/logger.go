package events

import (
	"context"
	"log/slog"

	"github.com/brixal/wallet-backend/internal/core/domain"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
)

// LogNotifier records events through the structured logger. Used when no
// AMQP broker is configured, so event emission never blocks a mutation.
type LogNotifier struct {
	logger *slog.Logger
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a logging-only notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Publish logs the event and always succeeds.
func (n *LogNotifier) Publish(_ context.Context, event domain.Event) error {
	n.logger.Info("event",
		slog.String("kind", string(event.Kind)),
		slog.String("account_id", event.AccountID),
		slog.String("ref_id", event.RefID),
		slog.String("amount", event.Amount.String()),
		slog.String("currency", event.CurrencyCode),
		slog.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
