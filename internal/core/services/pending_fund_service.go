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

// pendingFundService holds claimable, time-boxed credits. Staging debits
// the sender; the money then resolves exactly once, either into the
// recipient's wallet (minus the network fee) or back to the sender in full.
type pendingFundService struct {
	accountRepo portsrepo.AccountRepository
	walletRepo  portsrepo.WalletRepository
	fundRepo    portsrepo.PendingFundRepository
	notifier    portssvc.Notifier
}

// NewPendingFundService creates a new pending fund service.
func NewPendingFundService(
	accountRepo portsrepo.AccountRepository,
	walletRepo portsrepo.WalletRepository,
	fundRepo portsrepo.PendingFundRepository,
	notifier portssvc.Notifier,
) portssvc.PendingFundSvcFacade {
	return &pendingFundService{
		accountRepo: accountRepo,
		walletRepo:  walletRepo,
		fundRepo:    fundRepo,
		notifier:    notifier,
	}
}

var _ portssvc.PendingFundSvcFacade = (*pendingFundService)(nil)

// Stage parks a claimable credit for the recipient, debiting the sender's
// wallet for the full amount. The fee is only consumed if the recipient
// claims; an expiry revert returns the full amount.
func (s *pendingFundService) Stage(ctx context.Context, senderAccountID string, req dto.StagePendingFundRequest) (*domain.PendingFund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.NetworkFee.IsNegative() || req.NetworkFee.GreaterThanOrEqual(req.Amount) {
		return nil, fmt.Errorf("%w: network fee must be non-negative and below the amount", apperrors.ErrValidation)
	}
	if req.TTLSeconds <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", apperrors.ErrValidation)
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, req.RecipientAccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipient account %s", apperrors.ErrRecipientNotFound, req.RecipientAccountID)
		}
		return nil, fmt.Errorf("failed to find recipient account: %w", err)
	}

	sender, err := s.accountRepo.FindAccountByID(ctx, senderAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sender account: %w", err)
	}
	if sender.IsLocked() {
		return nil, apperrors.ErrAccountLocked
	}

	now := time.Now().UTC()
	fund := domain.PendingFund{
		PendingFundID:      uuid.NewString(),
		RecipientAccountID: req.RecipientAccountID,
		SenderAccountID:    senderAccountID,
		Amount:             req.Amount,
		CurrencyCode:       req.CurrencyCode,
		NetworkFee:         req.NetworkFee,
		ExpiresAt:          now.Add(time.Duration(req.TTLSeconds) * time.Second),
		CreatedAt:          now,
	}

	debit := domain.BalanceChange{
		AccountID:    senderAccountID,
		CurrencyCode: req.CurrencyCode,
		Delta:        req.Amount.Neg(),
	}
	if err := s.fundRepo.SavePendingFund(ctx, fund, debit); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInsufficientFunds
		}
		return nil, err
	}

	logger.Info("Pending fund staged",
		slog.String("pending_fund_id", fund.PendingFundID),
		slog.String("recipient_account_id", fund.RecipientAccountID),
		slog.String("amount", fund.Amount.String()),
		slog.Time("expires_at", fund.ExpiresAt),
	)
	s.emit(ctx, domain.EventPendingFundStaged, &fund)
	return &fund, nil
}

// Claim credits the recipient with amount minus fee and marks the fund
// claimed. The terminal-state check is a compare-and-set shared with the
// sweep, so a racing sweep and claim resolve the fund exactly once.
func (s *pendingFundService) Claim(ctx context.Context, pendingFundID, claimantAccountID string) (*domain.PendingFund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fund, err := s.fundRepo.FindPendingFundByID(ctx, pendingFundID)
	if err != nil {
		return nil, err
	}
	if fund.RecipientAccountID != claimantAccountID {
		return nil, apperrors.ErrUnauthorized
	}
	if fund.Claimed {
		return nil, apperrors.ErrAlreadyClaimed
	}

	now := time.Now().UTC()
	if fund.Expired || !now.Before(fund.ExpiresAt) {
		return nil, apperrors.ErrExpired
	}

	claimant, err := s.accountRepo.FindAccountByID(ctx, claimantAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find claimant account: %w", err)
	}
	if claimant.IsLocked() {
		return nil, apperrors.ErrAccountLocked
	}

	if err := s.walletRepo.EnsureWallet(ctx, claimantAccountID, fund.CurrencyCode, domain.KindForCurrency(fund.CurrencyCode), claimantAccountID, now); err != nil {
		return nil, fmt.Errorf("failed to ensure claimant wallet: %w", err)
	}

	credit := domain.BalanceChange{
		AccountID:    claimantAccountID,
		CurrencyCode: fund.CurrencyCode,
		Delta:        fund.Amount.Sub(fund.NetworkFee),
	}
	if err := s.fundRepo.ClaimPendingFund(ctx, pendingFundID, credit, now); err != nil {
		return nil, err
	}

	claimed, err := s.fundRepo.FindPendingFundByID(ctx, pendingFundID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload claimed fund: %w", err)
	}

	logger.Info("Pending fund claimed",
		slog.String("pending_fund_id", pendingFundID),
		slog.String("credited", credit.Delta.String()),
		slog.String("fee_consumed", fund.NetworkFee.String()),
	)
	s.emit(ctx, domain.EventPendingFundClaimed, claimed)
	return claimed, nil
}

// GetPendingFund retrieves one pending fund.
func (s *pendingFundService) GetPendingFund(ctx context.Context, pendingFundID string) (*domain.PendingFund, error) {
	return s.fundRepo.FindPendingFundByID(ctx, pendingFundID)
}

// SweepExpired reverts every unresolved fund past expiry back to its
// sender, full amount, no fee. Re-running the sweep on an already-resolved
// fund is a no-op, never a double credit.
func (s *pendingFundService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expired, err := s.fundRepo.ListExpiredUnclaimed(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired pending funds: %w", err)
	}

	reverted := 0
	for i := range expired {
		fund := &expired[i]

		if err := s.walletRepo.EnsureWallet(ctx, fund.SenderAccountID, fund.CurrencyCode, domain.KindForCurrency(fund.CurrencyCode), fund.SenderAccountID, now); err != nil {
			logger.Error("Failed to ensure sender wallet during sweep", slog.String("pending_fund_id", fund.PendingFundID), slog.String("error", err.Error()))
			continue
		}

		// The revert is system-initiated: it must reach locked accounts,
		// like any other administrative return of funds.
		revert := domain.BalanceChange{
			AccountID:          fund.SenderAccountID,
			CurrencyCode:       fund.CurrencyCode,
			Delta:              fund.Amount,
			AllowLockedAccount: true,
		}
		err := s.fundRepo.ExpirePendingFund(ctx, fund.PendingFundID, revert, now)
		switch {
		case err == nil:
			reverted++
			s.emit(ctx, domain.EventPendingFundExpired, fund)
		case errors.Is(err, apperrors.ErrAlreadyClaimed), errors.Is(err, apperrors.ErrExpired):
			// Lost the race to a claim or an earlier sweep pass.
		default:
			logger.Error("Failed to expire pending fund", slog.String("pending_fund_id", fund.PendingFundID), slog.String("error", err.Error()))
		}
	}

	if reverted > 0 {
		logger.Info("Expiry sweep completed", slog.Int("reverted", reverted), slog.Int("candidates", len(expired)))
	}
	return reverted, nil
}

func (s *pendingFundService) emit(ctx context.Context, kind domain.EventKind, fund *domain.PendingFund) {
	if s.notifier == nil {
		return
	}
	event := domain.Event{
		Kind:         kind,
		AccountID:    fund.RecipientAccountID,
		RefID:        fund.PendingFundID,
		Amount:       fund.Amount,
		CurrencyCode: fund.CurrencyCode,
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish pending fund event", slog.String("kind", string(kind)), slog.String("error", err.Error()))
	}
}
