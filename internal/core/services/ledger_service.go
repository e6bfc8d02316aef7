package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
	"github.com/brixal/wallet-backend/internal/middleware"
)

// ledgerService owns the only mutation path for wallet balances. It gates
// every change on account and wallet status and delegates the atomic
// read-modify-write to the wallet repository, which locks the touched rows
// in a fixed global order.
type ledgerService struct {
	accountRepo portsrepo.AccountRepository
	walletRepo  portsrepo.WalletRepository
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(accountRepo portsrepo.AccountRepository, walletRepo portsrepo.WalletRepository) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		walletRepo:  walletRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// AdjustBalance applies a signed delta to one wallet.
func (s *ledgerService) AdjustBalance(ctx context.Context, accountID, currencyCode string, delta decimal.Decimal, actorID string) (*domain.Wallet, error) {
	return s.adjust(ctx, accountID, currencyCode, delta, actorID, false)
}

// RevertBalance applies a signed delta exempt from the account-lock gate,
// so administrative reversals can return funds to a locked account.
func (s *ledgerService) RevertBalance(ctx context.Context, accountID, currencyCode string, delta decimal.Decimal, actorID string) (*domain.Wallet, error) {
	return s.adjust(ctx, accountID, currencyCode, delta, actorID, true)
}

func (s *ledgerService) adjust(ctx context.Context, accountID, currencyCode string, delta decimal.Decimal, actorID string, allowLocked bool) (*domain.Wallet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.IsLocked() && !allowLocked {
		return nil, apperrors.ErrAccountLocked
	}

	now := time.Now().UTC()

	// Credits may create the wallet lazily; a debit against a wallet that
	// never existed is simply insufficient funds.
	if delta.IsPositive() {
		if err := s.walletRepo.EnsureWallet(ctx, accountID, currencyCode, domain.KindForCurrency(currencyCode), actorID, now); err != nil {
			return nil, fmt.Errorf("failed to ensure wallet: %w", err)
		}
	}

	if !delta.IsZero() {
		change := domain.BalanceChange{
			AccountID:          accountID,
			CurrencyCode:       currencyCode,
			Delta:              delta,
			AllowLockedAccount: allowLocked,
		}
		if err := s.walletRepo.ApplyBalanceChanges(ctx, []domain.BalanceChange{change}, actorID, now); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.ErrInsufficientFunds
			}
			return nil, err
		}
		logger.Debug("Balance adjusted",
			slog.String("account_id", accountID),
			slog.String("currency", currencyCode),
			slog.String("delta", delta.String()),
		)
	}

	wallet, err := s.walletRepo.FindWallet(ctx, accountID, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet after adjustment: %w", err)
	}
	return wallet, nil
}

// TransferBetween debits the sender and credits the recipient for the same
// amount and currency. Both sides commit or neither does.
func (s *ledgerService) TransferBetween(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, currencyCode string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}

	now := time.Now().UTC()

	// Recipient wallet may not exist yet for this currency.
	if err := s.walletRepo.EnsureWallet(ctx, toAccountID, currencyCode, domain.KindForCurrency(currencyCode), actorID, now); err != nil {
		return fmt.Errorf("failed to ensure recipient wallet: %w", err)
	}

	changes := []domain.BalanceChange{
		{AccountID: fromAccountID, CurrencyCode: currencyCode, Delta: amount.Neg()},
		{AccountID: toAccountID, CurrencyCode: currencyCode, Delta: amount},
	}
	if err := s.walletRepo.ApplyBalanceChanges(ctx, changes, actorID, now); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrInsufficientFunds
		}
		return err
	}

	logger.Debug("Transfer applied",
		slog.String("from_account_id", fromAccountID),
		slog.String("to_account_id", toAccountID),
		slog.String("amount", amount.String()),
		slog.String("currency", currencyCode),
	)
	return nil
}

// GetWallet retrieves one wallet.
func (s *ledgerService) GetWallet(ctx context.Context, accountID, currencyCode string) (*domain.Wallet, error) {
	return s.walletRepo.FindWallet(ctx, accountID, currencyCode)
}

// ListWallets retrieves every wallet owned by the account.
func (s *ledgerService) ListWallets(ctx context.Context, accountID string) ([]domain.Wallet, error) {
	return s.walletRepo.ListWalletsByAccount(ctx, accountID)
}
