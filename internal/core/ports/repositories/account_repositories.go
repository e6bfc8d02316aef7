package repositories

import (
	"context"
	"time"

	"github.com/brixal/wallet-backend/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate on
	// handle or id collision.
	SaveAccount(ctx context.Context, account domain.Account) error

	// FindAccountByID retrieves an account by its primary key.
	// Returns apperrors.ErrNotFound if missing.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByHandle resolves a public handle to its account.
	// Returns apperrors.ErrNotFound if no account owns the handle.
	FindAccountByHandle(ctx context.Context, handle string) (*domain.Account, error)

	// UpdateAccountStatus writes the lifecycle status. Writing the current
	// status again is a no-op success.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, at time.Time) error
}
