package services

import (
	"context"

	"github.com/brixal/wallet-backend/internal/core/domain"
	"github.com/brixal/wallet-backend/internal/dto"
)

// ApprovalSvcFacade governs externally-bound transactions: staged pending
// with the fee debited at creation, then resolved by an administrative
// decision into completed or failed.
type ApprovalSvcFacade interface {
	// CreateExternalTransaction stages a withdrawal or crypto payout. The
	// principal and the network fee are debited immediately; the record
	// starts pending with an advisory risk score fixed at creation.
	CreateExternalTransaction(ctx context.Context, accountID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// ApproveTransaction moves pending -> completed. No balance change: the
	// principal was already earmarked at creation. Admin only.
	ApproveTransaction(ctx context.Context, transactionID, adminID string) (*domain.Transaction, error)

	// RejectTransaction moves pending -> failed and credits the principal
	// back to the sender. The network fee is not refunded. Admin only, and
	// permitted even when the sender's account is locked.
	RejectTransaction(ctx context.Context, transactionID, adminID string) (*domain.Transaction, error)

	// GetTransaction retrieves one transaction.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns the account's transactions, newest first.
	ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error)
}
