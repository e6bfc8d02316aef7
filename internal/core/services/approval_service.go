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
)

// Risk score tier boundaries. The score is advisory metadata for the admin
// console, attached once at creation.
var (
	riskTierMedium = decimal.NewFromInt(1000)
	riskTierHigh   = decimal.NewFromInt(5000)
	riskTierSevere = decimal.NewFromInt(10000)
)

// approvalService governs the lifecycle of externally-bound transactions:
// staged pending with principal and fee debited at creation, resolved by an
// administrative decision into completed or failed.
type approvalService struct {
	accountRepo portsrepo.AccountRepository
	txnRepo     portsrepo.TransactionRepository
	notifier    portssvc.Notifier
}

// NewApprovalService creates a new approval service.
func NewApprovalService(accountRepo portsrepo.AccountRepository, txnRepo portsrepo.TransactionRepository, notifier portssvc.Notifier) portssvc.ApprovalSvcFacade {
	return &approvalService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		notifier:    notifier,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// CreateExternalTransaction stages a withdrawal or crypto payout as pending.
// The fee is deducted together with the principal at creation: the sender's
// balance reflects the committed fee immediately while the principal remains
// encumbered until the admin decision.
func (s *approvalService) CreateExternalTransaction(ctx context.Context, accountID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txnType := domain.TransactionType(req.Type)
	if !txnType.Valid() || !txnType.IsExternal() {
		return nil, fmt.Errorf("%w: type %s is not an externally-bound transaction type", apperrors.ErrValidation, req.Type)
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.NetworkFee.IsNegative() {
		return nil, fmt.Errorf("%w: network fee must not be negative", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.IsLocked() {
		return nil, apperrors.ErrAccountLocked
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		Type:          txnType,
		Amount:        req.Amount,
		CurrencyCode:  req.CurrencyCode,
		NetworkFee:    req.NetworkFee,
		Destination:   req.Destination,
		RiskScore:     riskScore(req.Amount, txnType),
		Status:        domain.StatusPending,
		CreatedAt:     now,
		CreatedBy:     accountID,
	}

	debit := domain.BalanceChange{
		AccountID:    accountID,
		CurrencyCode: req.CurrencyCode,
		Delta:        req.Amount.Add(req.NetworkFee).Neg(),
	}
	if err := s.txnRepo.SaveTransaction(ctx, txn, debit); err != nil {
		// No wallet for the currency means nothing to debit.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInsufficientFunds
		}
		return nil, err
	}

	logger.Info("External transaction staged",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()),
		slog.String("network_fee", txn.NetworkFee.String()),
		slog.Int("risk_score", txn.RiskScore),
	)
	s.emit(ctx, domain.EventTransactionCreated, &txn)
	return &txn, nil
}

// ApproveTransaction moves pending -> completed. The principal was already
// earmarked at creation, so approval changes no balance.
func (s *approvalService) ApproveTransaction(ctx context.Context, transactionID, adminID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireAdmin(ctx, s.accountRepo, adminID); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.ResolveTransaction(ctx, transactionID, domain.StatusCompleted, nil, adminID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Info("Transaction approved", slog.String("transaction_id", transactionID), slog.String("admin_id", adminID))
	s.emit(ctx, domain.EventTransactionApproved, txn)
	return txn, nil
}

// RejectTransaction moves pending -> failed and credits the principal back.
// The network fee stays charged, and the refund is permitted even when the
// sender's account is locked.
func (s *approvalService) RejectTransaction(ctx context.Context, transactionID, adminID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireAdmin(ctx, s.accountRepo, adminID); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status.IsTerminal() {
		return nil, apperrors.ErrNotPending
	}

	refund := &domain.BalanceChange{
		AccountID:          txn.AccountID,
		CurrencyCode:       txn.CurrencyCode,
		Delta:              txn.Amount,
		AllowLockedAccount: true,
	}
	resolved, err := s.txnRepo.ResolveTransaction(ctx, transactionID, domain.StatusFailed, refund, adminID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Info("Transaction rejected",
		slog.String("transaction_id", transactionID),
		slog.String("admin_id", adminID),
		slog.String("refunded_principal", txn.Amount.String()),
	)
	s.emit(ctx, domain.EventTransactionRejected, resolved)
	return resolved, nil
}

// GetTransaction retrieves one transaction.
func (s *approvalService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions returns the account's transactions, newest first.
func (s *approvalService) ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.txnRepo.ListTransactionsByAccount(ctx, accountID, limit, offset)
}

// riskScore derives the advisory 0-100 score from amount tier and type.
func riskScore(amount decimal.Decimal, txnType domain.TransactionType) int {
	score := 10
	switch {
	case amount.GreaterThanOrEqual(riskTierSevere):
		score += 60
	case amount.GreaterThanOrEqual(riskTierHigh):
		score += 40
	case amount.GreaterThanOrEqual(riskTierMedium):
		score += 20
	}
	if txnType == domain.TypeCryptoWithdrawal {
		score += 15
	}
	if score > 100 {
		score = 100
	}
	return score
}

func (s *approvalService) emit(ctx context.Context, kind domain.EventKind, txn *domain.Transaction) {
	if s.notifier == nil {
		return
	}
	event := domain.Event{
		Kind:         kind,
		AccountID:    txn.AccountID,
		RefID:        txn.TransactionID,
		Amount:       txn.Amount,
		CurrencyCode: txn.CurrencyCode,
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish transaction event", slog.String("kind", string(kind)), slog.String("error", err.Error()))
	}
}
