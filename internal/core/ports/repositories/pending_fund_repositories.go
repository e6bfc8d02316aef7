package repositories

import (
	"context"
	"time"

	"github.com/brixal/wallet-backend/internal/core/domain"
)

// PendingFundRepository persists claimable, time-boxed credits. Claim and
// expiry share one compare-and-set terminal-state check, so a fund resolves
// exactly once even when the sweep races a claim.
type PendingFundRepository interface {
	// SavePendingFund inserts the fund and applies the staging debit of the
	// sender's wallet in one atomic unit.
	SavePendingFund(ctx context.Context, fund domain.PendingFund, debit domain.BalanceChange) error

	// FindPendingFundByID retrieves a pending fund.
	// Returns apperrors.ErrNotFound if missing.
	FindPendingFundByID(ctx context.Context, pendingFundID string) (*domain.PendingFund, error)

	// ClaimPendingFund sets claimed=true iff the fund is unresolved and not
	// yet past expiry, crediting the recipient in the same atomic unit.
	// Returns apperrors.ErrAlreadyClaimed or apperrors.ErrExpired when the
	// terminal state is already decided.
	ClaimPendingFund(ctx context.Context, pendingFundID string, credit domain.BalanceChange, at time.Time) error

	// ListExpiredUnclaimed returns unresolved funds with expiry <= asOf.
	ListExpiredUnclaimed(ctx context.Context, asOf time.Time) ([]domain.PendingFund, error)

	// ExpirePendingFund sets expired=true iff the fund is unresolved,
	// reverting the full amount to the sender in the same atomic unit.
	// Returns apperrors.ErrAlreadyClaimed or apperrors.ErrExpired when the
	// fund already resolved; the sweep treats both as a no-op.
	ExpirePendingFund(ctx context.Context, pendingFundID string, revert domain.BalanceChange, at time.Time) error
}
