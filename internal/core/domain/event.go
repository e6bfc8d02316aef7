package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind names a committed state change the surrounding system may react
// to. The core emits events after mutation commit; delivery is a collaborator
// concern behind the Notifier port.
type EventKind string

const (
	EventTransferCompleted   EventKind = "transfer.completed"
	EventTransferFailed      EventKind = "transfer.failed"
	EventTransactionCreated  EventKind = "transaction.created"
	EventTransactionApproved EventKind = "transaction.approved"
	EventTransactionRejected EventKind = "transaction.rejected"
	EventPendingFundStaged   EventKind = "pending_fund.staged"
	EventPendingFundClaimed  EventKind = "pending_fund.claimed"
	EventPendingFundExpired  EventKind = "pending_fund.expired"
	EventAccountLocked       EventKind = "account.locked"
	EventAccountUnlocked     EventKind = "account.unlocked"
	EventWalletsFrozen       EventKind = "wallets.frozen"
	EventWalletsUnfrozen     EventKind = "wallets.unfrozen"
)

// Event is the payload emitted through the Notifier after a committed
// mutation. RefID points at the entity the event is about (transfer id,
// transaction id, pending fund id or account id).
type Event struct {
	Kind         EventKind       `json:"kind"`
	AccountID    string          `json:"accountID"`
	RefID        string          `json:"refID"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode,omitempty"`
	OccurredAt   time.Time       `json:"occurredAt"`
}
