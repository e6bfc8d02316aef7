package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
	"github.com/brixal/wallet-backend/internal/core/services"
	"github.com/brixal/wallet-backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TransferServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	repos     portsrepo.Container
	limiter   *stubLimiter
	svc       portssvc.TransferSvcFacade
	sender    domain.Account
	recipient domain.Account
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}

func (s *TransferServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = newTestRepos()
	s.limiter = &stubLimiter{allowed: true}
	ledger := services.NewLedgerService(s.repos.Accounts, s.repos.Wallets)
	s.svc = services.NewTransferService(s.repos.Accounts, s.repos.Wallets, s.repos.Transfers, ledger, s.limiter, nil)

	s.sender = seedAccount(s.T(), s.repos, "BRX20000001", domain.RoleUser, domain.AccountActive)
	s.recipient = seedAccount(s.T(), s.repos, "BRX20000002", domain.RoleUser, domain.AccountActive)
	fundWallet(s.T(), s.repos, s.sender.AccountID, "USD", decimal.NewFromInt(100))
}

func (s *TransferServiceTestSuite) transferReq(amount decimal.Decimal) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{
		ToHandle:     s.recipient.Handle,
		Amount:       amount,
		CurrencyCode: "USD",
	}
}

func (s *TransferServiceTestSuite) TestTransfer_HappyPath() {
	transfer, err := s.svc.Transfer(s.ctx, s.sender.AccountID, s.transferReq(decimal.NewFromInt(40)))
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.StatusCompleted, transfer.Status)
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.sender.AccountID, "USD").Equal(decimal.NewFromInt(60)))
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.recipient.AccountID, "USD").Equal(decimal.NewFromInt(40)))

	// The terminal record is retained for audit.
	saved, err := s.repos.Transfers.FindTransferRequestByID(s.ctx, transfer.TransferID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusCompleted, saved.Status)
}

func (s *TransferServiceTestSuite) TestTransfer_InvalidAmountCheckedFirst() {
	// Even with an unknown handle, a non-positive amount must win.
	req := dto.CreateTransferRequest{ToHandle: "BRX99999999", Amount: decimal.Zero, CurrencyCode: "USD"}
	_, err := s.svc.Transfer(s.ctx, s.sender.AccountID, req)
	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidAmount)
	assert.Zero(s.T(), s.limiter.calls)
}

func (s *TransferServiceTestSuite) TestTransfer_RecipientNotFound() {
	req := dto.CreateTransferRequest{ToHandle: "BRX99999999", Amount: decimal.NewFromInt(10), CurrencyCode: "USD"}
	_, err := s.svc.Transfer(s.ctx, s.sender.AccountID, req)
	assert.ErrorIs(s.T(), err, apperrors.ErrRecipientNotFound)
	assert.Zero(s.T(), s.limiter.calls)
}

func (s *TransferServiceTestSuite) TestTransfer_SelfTransferRejected() {
	req := dto.CreateTransferRequest{ToHandle: s.sender.Handle, Amount: decimal.NewFromInt(10), CurrencyCode: "USD"}
	_, err := s.svc.Transfer(s.ctx, s.sender.AccountID, req)
	assert.ErrorIs(s.T(), err, apperrors.ErrSelfTransfer)
	assert.Zero(s.T(), s.limiter.calls)
}

func (s *TransferServiceTestSuite) TestTransfer_LockedSenderDoesNotConsumeRateBudget() {
	require.NoError(s.T(), s.repos.Accounts.UpdateAccountStatus(s.ctx, s.sender.AccountID, domain.AccountLocked, "admin", time.Now().UTC()))

	_, err := s.svc.Transfer(s.ctx, s.sender.AccountID, s.transferReq(decimal.NewFromInt(10)))
	assert.ErrorIs(s.T(), err, apperrors.ErrAccountLocked)
	assert.Zero(s.T(), s.limiter.calls)
}

func (s *TransferServiceTestSuite) TestTransfer_RateLimited() {
	s.limiter.allowed = false

	_, err := s.svc.Transfer(s.ctx, s.sender.AccountID, s.transferReq(decimal.NewFromInt(10)))
	assert.ErrorIs(s.T(), err, apperrors.ErrRateLimited)
	assert.Equal(s.T(), 1, s.limiter.calls)

	// Balance untouched.
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.sender.AccountID, "USD").Equal(decimal.NewFromInt(100)))
}

func (s *TransferServiceTestSuite) TestTransfer_InsufficientFundsCheckedAfterRateLimit() {
	_, err := s.svc.Transfer(s.ctx, s.sender.AccountID, s.transferReq(decimal.NewFromInt(150)))
	assert.ErrorIs(s.T(), err, apperrors.ErrInsufficientFunds)
	// The rate limit check ran first, so the attempt consumed budget.
	assert.Equal(s.T(), 1, s.limiter.calls)
}

func (s *TransferServiceTestSuite) TestTransfer_NoWalletForCurrency() {
	req := dto.CreateTransferRequest{ToHandle: s.recipient.Handle, Amount: decimal.NewFromInt(10), CurrencyCode: "EUR"}
	_, err := s.svc.Transfer(s.ctx, s.sender.AccountID, req)
	assert.ErrorIs(s.T(), err, apperrors.ErrInsufficientFunds)
}

func (s *TransferServiceTestSuite) TestTransfer_EmitsCompletedEvent() {
	notifier := new(MockNotifier)
	notifier.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
		return e.Kind == domain.EventTransferCompleted && e.AccountID == s.sender.AccountID
	})).Return(nil).Once()

	ledger := services.NewLedgerService(s.repos.Accounts, s.repos.Wallets)
	svc := services.NewTransferService(s.repos.Accounts, s.repos.Wallets, s.repos.Transfers, ledger, s.limiter, notifier)

	_, err := svc.Transfer(s.ctx, s.sender.AccountID, s.transferReq(decimal.NewFromInt(5)))
	require.NoError(s.T(), err)
	notifier.AssertExpectations(s.T())
}

func (s *TransferServiceTestSuite) TestListTransfers_SeenFromBothSides() {
	_, err := s.svc.Transfer(s.ctx, s.sender.AccountID, s.transferReq(decimal.NewFromInt(10)))
	require.NoError(s.T(), err)

	forSender, err := s.svc.ListTransfers(s.ctx, s.sender.AccountID, 10, 0)
	require.NoError(s.T(), err)
	forRecipient, err := s.svc.ListTransfers(s.ctx, s.recipient.AccountID, 10, 0)
	require.NoError(s.T(), err)

	assert.Len(s.T(), forSender, 1)
	assert.Len(s.T(), forRecipient, 1)
}
