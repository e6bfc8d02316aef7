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
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ApprovalServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	repos  portsrepo.Container
	svc    portssvc.ApprovalSvcFacade
	user   domain.Account
	admin  domain.Account
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}

func (s *ApprovalServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = newTestRepos()
	s.svc = services.NewApprovalService(s.repos.Accounts, s.repos.Transactions, nil)

	s.user = seedAccount(s.T(), s.repos, "BRX30000001", domain.RoleUser, domain.AccountActive)
	s.admin = seedAccount(s.T(), s.repos, "BRX30000002", domain.RoleAdmin, domain.AccountActive)
	fundWallet(s.T(), s.repos, s.user.AccountID, "USD", decimal.NewFromInt(6000))
}

func (s *ApprovalServiceTestSuite) withdrawal(amount, fee decimal.Decimal) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Type:         string(domain.TypeWithdrawal),
		Amount:       amount,
		CurrencyCode: "USD",
		Destination:  "bank:DE02120300000000202051",
		NetworkFee:   fee,
	}
}

func (s *ApprovalServiceTestSuite) TestCreate_DebitsPrincipalPlusFee() {
	txn, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, s.withdrawal(decimal.NewFromInt(5000), decimal.NewFromInt(25)))
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.StatusPending, txn.Status)
	// 6000 - 5000 - 25
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.user.AccountID, "USD").Equal(decimal.NewFromInt(975)))
}

func (s *ApprovalServiceTestSuite) TestCreate_RiskScoreFixedAtCreation() {
	txn, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, s.withdrawal(decimal.NewFromInt(5000), decimal.Zero))
	require.NoError(s.T(), err)
	// base 10 + high tier 40
	assert.Equal(s.T(), 50, txn.RiskScore)

	crypto := dto.CreateTransactionRequest{
		Type:         string(domain.TypeCryptoWithdrawal),
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "BTC",
		Destination:  "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
		NetworkFee:   decimal.Zero,
	}
	txn2, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, crypto)
	require.ErrorIs(s.T(), err, apperrors.ErrInsufficientFunds)
	assert.Nil(s.T(), txn2)
}

func (s *ApprovalServiceTestSuite) TestCreate_RejectsInternalTypes() {
	req := s.withdrawal(decimal.NewFromInt(10), decimal.Zero)
	req.Type = string(domain.TypeTransfer)
	_, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, req)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *ApprovalServiceTestSuite) TestCreate_InsufficientForPrincipalPlusFee() {
	// Principal alone fits, principal+fee does not.
	_, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, s.withdrawal(decimal.NewFromInt(6000), decimal.NewFromInt(1)))
	assert.ErrorIs(s.T(), err, apperrors.ErrInsufficientFunds)
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.user.AccountID, "USD").Equal(decimal.NewFromInt(6000)))
}

func (s *ApprovalServiceTestSuite) TestCreate_LockedAccountRejected() {
	require.NoError(s.T(), s.repos.Accounts.UpdateAccountStatus(s.ctx, s.user.AccountID, domain.AccountLocked, "admin", time.Now().UTC()))
	_, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, s.withdrawal(decimal.NewFromInt(10), decimal.Zero))
	assert.ErrorIs(s.T(), err, apperrors.ErrAccountLocked)
}

func (s *ApprovalServiceTestSuite) TestApprove_NoBalanceChange() {
	txn, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, s.withdrawal(decimal.NewFromInt(1000), decimal.NewFromInt(5)))
	require.NoError(s.T(), err)
	balanceAfterCreate := walletBalance(s.T(), s.repos, s.user.AccountID, "USD")

	approved, err := s.svc.ApproveTransaction(s.ctx, txn.TransactionID, s.admin.AccountID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusCompleted, approved.Status)
	assert.NotNil(s.T(), approved.ResolvedAt)
	assert.Equal(s.T(), s.admin.AccountID, approved.ResolvedBy)
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.user.AccountID, "USD").Equal(balanceAfterCreate))
}

func (s *ApprovalServiceTestSuite) TestReject_RefundsPrincipalKeepsFee() {
	txn, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, s.withdrawal(decimal.NewFromInt(5000), decimal.NewFromInt(25)))
	require.NoError(s.T(), err)

	rejected, err := s.svc.RejectTransaction(s.ctx, txn.TransactionID, s.admin.AccountID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusFailed, rejected.Status)

	// 6000 - 5025 + 5000: the fee stays consumed.
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.user.AccountID, "USD").Equal(decimal.NewFromInt(5975)))
}

func (s *ApprovalServiceTestSuite) TestResolve_SecondDecisionRejected() {
	txn, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, s.withdrawal(decimal.NewFromInt(100), decimal.Zero))
	require.NoError(s.T(), err)

	_, err = s.svc.ApproveTransaction(s.ctx, txn.TransactionID, s.admin.AccountID)
	require.NoError(s.T(), err)

	_, err = s.svc.ApproveTransaction(s.ctx, txn.TransactionID, s.admin.AccountID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotPending)

	_, err = s.svc.RejectTransaction(s.ctx, txn.TransactionID, s.admin.AccountID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotPending)

	// No double refund happened.
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.user.AccountID, "USD").Equal(decimal.NewFromInt(5900)))
}

func (s *ApprovalServiceTestSuite) TestReject_ReachesLockedAccount() {
	txn, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, s.withdrawal(decimal.NewFromInt(1000), decimal.NewFromInt(10)))
	require.NoError(s.T(), err)

	// Lock after staging; the refund must still land.
	require.NoError(s.T(), s.repos.Accounts.UpdateAccountStatus(s.ctx, s.user.AccountID, domain.AccountLocked, "admin", time.Now().UTC()))

	rejected, err := s.svc.RejectTransaction(s.ctx, txn.TransactionID, s.admin.AccountID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusFailed, rejected.Status)
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.user.AccountID, "USD").Equal(decimal.NewFromInt(5990)))
}

func (s *ApprovalServiceTestSuite) TestResolve_RequiresAdminRole() {
	txn, err := s.svc.CreateExternalTransaction(s.ctx, s.user.AccountID, s.withdrawal(decimal.NewFromInt(100), decimal.Zero))
	require.NoError(s.T(), err)

	_, err = s.svc.ApproveTransaction(s.ctx, txn.TransactionID, s.user.AccountID)
	assert.ErrorIs(s.T(), err, apperrors.ErrUnauthorized)

	_, err = s.svc.RejectTransaction(s.ctx, txn.TransactionID, "nonexistent")
	assert.ErrorIs(s.T(), err, apperrors.ErrUnauthorized)

	// Still pending, still debited.
	current, err := s.svc.GetTransaction(s.ctx, txn.TransactionID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusPending, current.Status)
}
