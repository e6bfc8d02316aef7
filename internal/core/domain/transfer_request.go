package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest records one internal peer-to-peer transfer attempt. It is
// created and resolved synchronously within a single transfer call and
// retained for audit afterwards. Peer transfers carry no fee and need no
// administrative approval.
type TransferRequest struct {
	TransferID    string            `json:"transferID"` // Primary Key (UUID)
	FromAccountID string            `json:"fromAccountID"`
	ToAccountID   string            `json:"toAccountID"`
	Amount        decimal.Decimal   `json:"amount"`
	CurrencyCode  string            `json:"currencyCode"`
	Message       string            `json:"message,omitempty"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	ResolvedAt    time.Time         `json:"resolvedAt"`
}
