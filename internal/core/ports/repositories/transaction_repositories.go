package repositories

import (
	"context"
	"time"

	"github.com/brixal/wallet-backend/internal/core/domain"
)

// TransactionRepository defines persistence for externally-bound
// transactions and their approval state machine.
type TransactionRepository interface {
	// SaveTransaction inserts the pending transaction and applies the
	// creation-time debit (principal plus network fee) in one atomic unit.
	// Balance gating errors from the debit surface unchanged.
	SaveTransaction(ctx context.Context, txn domain.Transaction, debit domain.BalanceChange) error

	// FindTransactionByID retrieves a transaction.
	// Returns apperrors.ErrNotFound if missing.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ResolveTransaction performs the compare-and-set transition
	// pending -> next and, when refund is non-nil, applies the credit in
	// the same atomic unit. Returns apperrors.ErrNotPending when the
	// transaction is already terminal, so double-processing is rejected
	// without touching balances.
	ResolveTransaction(ctx context.Context, transactionID string, next domain.TransactionStatus, refund *domain.BalanceChange, resolvedBy string, at time.Time) (*domain.Transaction, error)

	// ListTransactionsByAccount returns the account's transactions,
	// newest first.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error)
}
