package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
	"github.com/brixal/wallet-backend/internal/dto"
	"github.com/brixal/wallet-backend/internal/middleware"
	"github.com/brixal/wallet-backend/internal/utils"
)

// handleRetries bounds how often account creation retries on a handle
// collision before giving up.
const handleRetries = 3

// accountControlService is the administrative surface over account and
// wallet statuses. Statuses written here gate every balance mutation in the
// ledger store.
type accountControlService struct {
	accountRepo portsrepo.AccountRepository
	walletRepo  portsrepo.WalletRepository
	notifier    portssvc.Notifier
}

// NewAccountControlService creates a new account control service.
func NewAccountControlService(accountRepo portsrepo.AccountRepository, walletRepo portsrepo.WalletRepository, notifier portssvc.Notifier) portssvc.AccountControlSvcFacade {
	return &accountControlService{
		accountRepo: accountRepo,
		walletRepo:  walletRepo,
		notifier:    notifier,
	}
}

var _ portssvc.AccountControlSvcFacade = (*accountControlService)(nil)

// CreateAccount provisions an account with a generated BRX handle.
func (s *accountControlService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, adminID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireAdmin(ctx, s.accountRepo, adminID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var lastErr error
	for attempt := 0; attempt < handleRetries; attempt++ {
		handle, err := utils.GenerateHandle()
		if err != nil {
			return nil, err
		}

		account := domain.Account{
			AccountID:   uuid.NewString(),
			Handle:      handle,
			DisplayName: req.DisplayName,
			Status:      domain.AccountActive,
			Role:        domain.RoleUser,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     adminID,
				LastUpdatedAt: now,
				LastUpdatedBy: adminID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				lastErr = err
				continue
			}
			return nil, err
		}

		logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("handle", account.Handle))
		return &account, nil
	}
	return nil, fmt.Errorf("failed to allocate a unique handle: %w", lastErr)
}

// GetAccount retrieves one account.
func (s *accountControlService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// LockAccount sets the account status to locked. Idempotent.
func (s *accountControlService) LockAccount(ctx context.Context, accountID, adminID string) error {
	return s.setAccountStatus(ctx, accountID, adminID, domain.AccountLocked, domain.EventAccountLocked)
}

// UnlockAccount sets the account status back to active. Idempotent.
func (s *accountControlService) UnlockAccount(ctx context.Context, accountID, adminID string) error {
	return s.setAccountStatus(ctx, accountID, adminID, domain.AccountActive, domain.EventAccountUnlocked)
}

func (s *accountControlService) setAccountStatus(ctx context.Context, accountID, adminID string, status domain.AccountStatus, kind domain.EventKind) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireAdmin(ctx, s.accountRepo, adminID); err != nil {
		return err
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}

	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, status, adminID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}

	logger.Info("Account status updated", slog.String("account_id", accountID), slog.String("status", string(status)), slog.String("admin_id", adminID))
	s.emit(ctx, kind, accountID)
	return nil
}

// FreezeWallets freezes every wallet owned by the account at once. A frozen
// wallet rejects both debits and credits until unfrozen. Idempotent.
func (s *accountControlService) FreezeWallets(ctx context.Context, accountID, adminID string) error {
	return s.setWalletStatus(ctx, accountID, adminID, domain.WalletFrozen, domain.EventWalletsFrozen)
}

// UnfreezeWallets reactivates every wallet owned by the account. Idempotent.
func (s *accountControlService) UnfreezeWallets(ctx context.Context, accountID, adminID string) error {
	return s.setWalletStatus(ctx, accountID, adminID, domain.WalletActive, domain.EventWalletsUnfrozen)
}

func (s *accountControlService) setWalletStatus(ctx context.Context, accountID, adminID string, status domain.WalletStatus, kind domain.EventKind) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireAdmin(ctx, s.accountRepo, adminID); err != nil {
		return err
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}

	if err := s.walletRepo.UpdateWalletStatusForAccount(ctx, accountID, status, adminID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update wallet statuses: %w", err)
	}

	logger.Info("Wallet statuses updated", slog.String("account_id", accountID), slog.String("status", string(status)), slog.String("admin_id", adminID))
	s.emit(ctx, kind, accountID)
	return nil
}

func (s *accountControlService) emit(ctx context.Context, kind domain.EventKind, accountID string) {
	if s.notifier == nil {
		return
	}
	event := domain.Event{
		Kind:       kind,
		AccountID:  accountID,
		RefID:      accountID,
		Amount:     decimal.Zero,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish account control event", slog.String("kind", string(kind)), slog.String("error", err.Error()))
	}
}
