package services

import (
	"context"

	"github.com/brixal/wallet-backend/internal/core/domain"
	"github.com/brixal/wallet-backend/internal/dto"
)

// AccountControlSvcFacade is the administrative surface over account and
// wallet statuses. Every status write is idempotent.
type AccountControlSvcFacade interface {
	// CreateAccount provisions an account with a generated public handle.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, adminID string) (*domain.Account, error)

	// GetAccount retrieves one account.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// LockAccount sets the account status to locked. Locking an already
	// locked account is a no-op success.
	LockAccount(ctx context.Context, accountID, adminID string) error

	// UnlockAccount sets the account status back to active.
	UnlockAccount(ctx context.Context, accountID, adminID string) error

	// FreezeWallets freezes every wallet owned by the account at once.
	FreezeWallets(ctx context.Context, accountID, adminID string) error

	// UnfreezeWallets reactivates every wallet owned by the account.
	UnfreezeWallets(ctx context.Context, accountID, adminID string) error
}
