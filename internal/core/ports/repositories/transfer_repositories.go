package repositories

import (
	"context"

	"github.com/brixal/wallet-backend/internal/core/domain"
)

// TransferRepository persists internal peer-to-peer transfer attempts for
// audit. Requests arrive already resolved; they are write-once records.
type TransferRepository interface {
	// SaveTransferRequest inserts a resolved transfer request.
	SaveTransferRequest(ctx context.Context, req domain.TransferRequest) error

	// FindTransferRequestByID retrieves a transfer request.
	// Returns apperrors.ErrNotFound if missing.
	FindTransferRequestByID(ctx context.Context, transferID string) (*domain.TransferRequest, error)

	// ListTransfersByAccount returns transfers the account participated in,
	// as sender or recipient, newest first.
	ListTransfersByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.TransferRequest, error)
}
