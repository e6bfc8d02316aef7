package repositories

import (
	"context"
	"time"

	"github.com/brixal/wallet-backend/internal/core/domain"
)

// WalletRepository defines persistence operations for wallets. It owns the
// only mutation path for balances: ApplyBalanceChanges is the single
// atomic read-modify-write entry point.
type WalletRepository interface {
	// FindWallet retrieves the wallet for (accountID, currencyCode).
	// Returns apperrors.ErrNotFound if the wallet was never created.
	FindWallet(ctx context.Context, accountID, currencyCode string) (*domain.Wallet, error)

	// ListWalletsByAccount returns every wallet owned by the account.
	ListWalletsByAccount(ctx context.Context, accountID string) ([]domain.Wallet, error)

	// EnsureWallet creates the wallet lazily if it does not exist yet.
	// Creating an existing wallet is a no-op.
	EnsureWallet(ctx context.Context, accountID, currencyCode string, kind domain.WalletKind, createdBy string, at time.Time) error

	// ApplyBalanceChanges applies all changes atomically or none of them.
	// Wallet rows are locked in a fixed global order (account id, then
	// currency) so concurrent opposite-direction transfers cannot deadlock.
	// Fails with apperrors.ErrInsufficientFunds when a debit would take a
	// balance below zero, apperrors.ErrWalletFrozen when a touched wallet
	// is not active, and apperrors.ErrAccountLocked when an owning account
	// is locked and the change does not allow locked accounts.
	ApplyBalanceChanges(ctx context.Context, changes []domain.BalanceChange, updatedBy string, at time.Time) error

	// UpdateWalletStatusForAccount writes the status of every wallet owned
	// by the account at once. Idempotent.
	UpdateWalletStatusForAccount(ctx context.Context, accountID string, status domain.WalletStatus, updatedBy string, at time.Time) error
}
