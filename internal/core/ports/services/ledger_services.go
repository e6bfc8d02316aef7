package services

import (
	"context"

	"github.com/brixal/wallet-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade is the only mutation path for wallet balances. Every
// successful call is a single atomic read-modify-write on the touched
// (account, currency) pairs.
type LedgerSvcFacade interface {
	// AdjustBalance applies a signed delta to one wallet. A negative delta
	// is permitted only when balance+delta >= 0, else
	// apperrors.ErrInsufficientFunds. Fails with apperrors.ErrWalletFrozen
	// when the wallet is not active and apperrors.ErrAccountLocked when the
	// owning account is locked.
	AdjustBalance(ctx context.Context, accountID, currencyCode string, delta decimal.Decimal, actorID string) (*domain.Wallet, error)

	// RevertBalance is AdjustBalance exempt from the account-lock gate. It
	// exists so administrator-initiated reversals can return funds to a
	// locked account. The wallet-frozen gate still applies.
	RevertBalance(ctx context.Context, accountID, currencyCode string, delta decimal.Decimal, actorID string) (*domain.Wallet, error)

	// TransferBetween debits the sender and credits the recipient for the
	// same amount and currency, both sides succeeding or both rolling back.
	TransferBetween(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, currencyCode string, actorID string) error

	// GetWallet retrieves one wallet.
	GetWallet(ctx context.Context, accountID, currencyCode string) (*domain.Wallet, error)

	// ListWallets retrieves every wallet owned by the account.
	ListWallets(ctx context.Context, accountID string) ([]domain.Wallet, error)
}
