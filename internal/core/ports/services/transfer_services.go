package services

import (
	"context"

	"github.com/brixal/wallet-backend/internal/core/domain"
	"github.com/brixal/wallet-backend/internal/dto"
)

// TransferSvcFacade validates and executes internal peer-to-peer transfers.
type TransferSvcFacade interface {
	// Transfer runs the full validation chain (amount, recipient handle,
	// self-transfer, rate limit, funds) and executes the two-sided balance
	// mutation synchronously. The returned request is terminal.
	Transfer(ctx context.Context, fromAccountID string, req dto.CreateTransferRequest) (*domain.TransferRequest, error)

	// ListTransfers returns transfers the account participated in.
	ListTransfers(ctx context.Context, accountID string, limit, offset int) ([]domain.TransferRequest, error)
}

// TransferRateLimiter gates transfer-initiation frequency per account over
// a sliding wall-clock window evaluated at call time.
type TransferRateLimiter interface {
	// Allow reports whether the account may initiate another transfer now,
	// recording the attempt when it is allowed.
	Allow(ctx context.Context, accountID string) (bool, error)
}
