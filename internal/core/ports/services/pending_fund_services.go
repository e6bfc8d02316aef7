package services

import (
	"context"
	"time"

	"github.com/brixal/wallet-backend/internal/core/domain"
	"github.com/brixal/wallet-backend/internal/dto"
)

// PendingFundSvcFacade holds claimable, time-boxed credits and reverts them
// to the sender when unclaimed by expiry.
type PendingFundSvcFacade interface {
	// Stage debits the sender and parks the amount as a claimable fund with
	// the given TTL.
	Stage(ctx context.Context, senderAccountID string, req dto.StagePendingFundRequest) (*domain.PendingFund, error)

	// Claim credits the recipient's wallet with amount minus fee and marks
	// the fund claimed. Only the recipient may claim.
	Claim(ctx context.Context, pendingFundID, claimantAccountID string) (*domain.PendingFund, error)

	// GetPendingFund retrieves one pending fund.
	GetPendingFund(ctx context.Context, pendingFundID string) (*domain.PendingFund, error)

	// SweepExpired reverts every unresolved fund whose expiry has passed
	// back to its sender, returning the number of funds reverted. Safe to
	// re-run and safe to race a concurrent claim.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
