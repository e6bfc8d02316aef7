package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
	"github.com/brixal/wallet-backend/internal/dto"
	"github.com/brixal/wallet-backend/internal/middleware"
)

// transferService validates and executes internal peer-to-peer transfers.
// Peer transfers never charge a fee and never require approval: they
// resolve synchronously within the call.
type transferService struct {
	accountRepo  portsrepo.AccountRepository
	walletRepo   portsrepo.WalletRepository
	transferRepo portsrepo.TransferRepository
	ledgerSvc    portssvc.LedgerSvcFacade
	limiter      portssvc.TransferRateLimiter
	notifier     portssvc.Notifier
}

// NewTransferService creates a new transfer service.
func NewTransferService(
	accountRepo portsrepo.AccountRepository,
	walletRepo portsrepo.WalletRepository,
	transferRepo portsrepo.TransferRepository,
	ledgerSvc portssvc.LedgerSvcFacade,
	limiter portssvc.TransferRateLimiter,
	notifier portssvc.Notifier,
) portssvc.TransferSvcFacade {
	return &transferService{
		accountRepo:  accountRepo,
		walletRepo:   walletRepo,
		transferRepo: transferRepo,
		ledgerSvc:    ledgerSvc,
		limiter:      limiter,
		notifier:     notifier,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// Transfer runs the validation chain in order (first failure wins), then
// executes the two-sided mutation. The request record is persisted with its
// terminal status either way, for audit.
func (s *transferService) Transfer(ctx context.Context, fromAccountID string, req dto.CreateTransferRequest) (*domain.TransferRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// 1. Amount must be positive.
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	// 2. Resolve the destination handle.
	recipient, err := s.accountRepo.FindAccountByHandle(ctx, req.ToHandle)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: handle %s", apperrors.ErrRecipientNotFound, req.ToHandle)
		}
		return nil, fmt.Errorf("failed to resolve handle: %w", err)
	}

	// 3. No transfers to self.
	if recipient.AccountID == fromAccountID {
		return nil, apperrors.ErrSelfTransfer
	}

	// A locked sender cannot initiate anything, and should not consume
	// rate-limit budget either.
	sender, err := s.accountRepo.FindAccountByID(ctx, fromAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sender account: %w", err)
	}
	if sender.IsLocked() {
		return nil, apperrors.ErrAccountLocked
	}

	// 4. Sliding-window rate limit, evaluated at call time.
	allowed, err := s.limiter.Allow(ctx, fromAccountID)
	if err != nil {
		logger.Error("Rate limiter check failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: rate limiter unavailable", apperrors.ErrInternal)
	}
	if !allowed {
		return nil, apperrors.ErrRateLimited
	}

	// 5. Balance check on the sender's wallet.
	wallet, err := s.walletRepo.FindWallet(ctx, fromAccountID, req.CurrencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to load sender wallet: %w", err)
	}
	if wallet.Balance.LessThan(req.Amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	transfer := domain.TransferRequest{
		TransferID:    uuid.NewString(),
		FromAccountID: fromAccountID,
		ToAccountID:   recipient.AccountID,
		Amount:        req.Amount,
		CurrencyCode:  req.CurrencyCode,
		Message:       req.Message,
		Status:        domain.StatusPending,
		CreatedAt:     now,
	}

	execErr := s.ledgerSvc.TransferBetween(ctx, fromAccountID, recipient.AccountID, req.Amount, req.CurrencyCode, fromAccountID)
	transfer.ResolvedAt = time.Now().UTC()
	if execErr != nil {
		transfer.Status = domain.StatusFailed
	} else {
		transfer.Status = domain.StatusCompleted
	}

	if err := s.transferRepo.SaveTransferRequest(ctx, transfer); err != nil {
		logger.Error("Failed to persist transfer request", slog.String("transfer_id", transfer.TransferID), slog.String("error", err.Error()))
		if execErr == nil {
			return nil, fmt.Errorf("failed to save transfer request: %w", err)
		}
	}

	if execErr != nil {
		logger.Warn("Transfer failed during execution", slog.String("transfer_id", transfer.TransferID), slog.String("error", execErr.Error()))
		s.emit(ctx, domain.EventTransferFailed, &transfer)
		return nil, execErr
	}

	logger.Info("Transfer completed",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("to_account_id", recipient.AccountID),
		slog.String("amount", req.Amount.String()),
		slog.String("currency", req.CurrencyCode),
	)
	s.emit(ctx, domain.EventTransferCompleted, &transfer)
	return &transfer, nil
}

// ListTransfers returns transfers the account participated in.
func (s *transferService) ListTransfers(ctx context.Context, accountID string, limit, offset int) ([]domain.TransferRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.transferRepo.ListTransfersByAccount(ctx, accountID, limit, offset)
}

func (s *transferService) emit(ctx context.Context, kind domain.EventKind, t *domain.TransferRequest) {
	if s.notifier == nil {
		return
	}
	event := domain.Event{
		Kind:         kind,
		AccountID:    t.FromAccountID,
		RefID:        t.TransferID,
		Amount:       t.Amount,
		CurrencyCode: t.CurrencyCode,
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish transfer event", slog.String("kind", string(kind)), slog.String("error", err.Error()))
	}
}
