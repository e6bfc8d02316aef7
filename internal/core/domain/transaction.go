package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a balance movement.
type TransactionType string

const (
	TypeSend             TransactionType = "SEND"
	TypeReceive          TransactionType = "RECEIVE"
	TypeWithdrawal       TransactionType = "WITHDRAWAL"
	TypeCryptoWithdrawal TransactionType = "CRYPTO_WITHDRAWAL"
	TypeTransfer         TransactionType = "TRANSFER"
	TypeConvert          TransactionType = "CONVERT"
)

// IsExternal reports whether the type leaves the platform and therefore
// requires staging as pending plus an administrative decision.
func (t TransactionType) IsExternal() bool {
	switch t {
	case TypeWithdrawal, TypeCryptoWithdrawal:
		return true
	case TypeSend, TypeReceive, TypeTransfer, TypeConvert:
		return false
	}
	return false
}

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeSend, TypeReceive, TypeWithdrawal, TypeCryptoWithdrawal, TypeTransfer, TypeConvert:
		return true
	}
	return false
}

// TransactionStatus is the state of a transaction or transfer request.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// IsTerminal reports whether no further transition is permitted.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed:
		return true
	case StatusPending:
		return false
	}
	return false
}

// CanTransitionTo validates the pending -> {completed, failed} state machine.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) error {
	if s != StatusPending {
		return fmt.Errorf("cannot leave terminal status %s", s)
	}
	switch next {
	case StatusCompleted, StatusFailed:
		return nil
	case StatusPending:
		return fmt.Errorf("cannot transition back to %s", StatusPending)
	}
	return fmt.Errorf("unknown target status %s", next)
}

// Transaction is an immutable-once-terminal record of a balance movement.
// For externally-bound types the network fee is charged at creation; the
// fee is never refunded, even when the transaction is rejected. Failed
// transactions are retained for audit.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	AccountID     string            `json:"accountID"`     // Owning account
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"` // Positive principal
	CurrencyCode  string            `json:"currencyCode"`
	NetworkFee    decimal.Decimal   `json:"networkFee"`  // >= 0, charged at creation
	Destination   string            `json:"destination"` // Free-form descriptor for external transfers
	RiskScore     int               `json:"riskScore"`   // 0-100, advisory, fixed at creation
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
	ResolvedAt    *time.Time        `json:"resolvedAt,omitempty"` // Set on terminal transition
	ResolvedBy    string            `json:"resolvedBy,omitempty"` // Admin who decided
}
