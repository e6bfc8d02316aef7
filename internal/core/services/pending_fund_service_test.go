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

type PendingFundServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	repos     portsrepo.Container
	svc       portssvc.PendingFundSvcFacade
	sender    domain.Account
	recipient domain.Account
}

func TestPendingFundServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PendingFundServiceTestSuite))
}

func (s *PendingFundServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = newTestRepos()
	s.svc = services.NewPendingFundService(s.repos.Accounts, s.repos.Wallets, s.repos.PendingFunds, nil)

	s.sender = seedAccount(s.T(), s.repos, "BRX40000001", domain.RoleUser, domain.AccountActive)
	s.recipient = seedAccount(s.T(), s.repos, "BRX40000002", domain.RoleUser, domain.AccountActive)
	fundWallet(s.T(), s.repos, s.sender.AccountID, "USD", decimal.NewFromInt(500))
}

func (s *PendingFundServiceTestSuite) stageReq(amount, fee decimal.Decimal, ttl int64) dto.StagePendingFundRequest {
	return dto.StagePendingFundRequest{
		RecipientAccountID: s.recipient.AccountID,
		Amount:             amount,
		CurrencyCode:       "USD",
		NetworkFee:         fee,
		TTLSeconds:         ttl,
	}
}

func (s *PendingFundServiceTestSuite) TestStage_DebitsSenderFullAmount() {
	fund, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(150), decimal.NewFromFloat(2.50), 3600))
	require.NoError(s.T(), err)

	assert.False(s.T(), fund.Claimed)
	assert.False(s.T(), fund.Expired)
	// The full amount leaves the sender up front, fee included in the hold.
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.sender.AccountID, "USD").Equal(decimal.NewFromInt(350)))

	// Nothing lands on the recipient until a claim.
	_, err = s.repos.Wallets.FindWallet(s.ctx, s.recipient.AccountID, "USD")
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *PendingFundServiceTestSuite) TestStage_FeeMustBeBelowAmount() {
	_, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(10), decimal.NewFromInt(10), 3600))
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	_, err = s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(10), decimal.NewFromInt(-1), 3600))
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *PendingFundServiceTestSuite) TestStage_InsufficientFunds() {
	_, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(600), decimal.NewFromInt(1), 3600))
	assert.ErrorIs(s.T(), err, apperrors.ErrInsufficientFunds)
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.sender.AccountID, "USD").Equal(decimal.NewFromInt(500)))
}

func (s *PendingFundServiceTestSuite) TestClaim_CreditsAmountMinusFee() {
	fund, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(150), decimal.NewFromFloat(2.50), 3600))
	require.NoError(s.T(), err)

	claimed, err := s.svc.Claim(s.ctx, fund.PendingFundID, s.recipient.AccountID)
	require.NoError(s.T(), err)
	assert.True(s.T(), claimed.Claimed)
	assert.True(s.T(), claimed.Resolved())

	// 150 - 2.50; the fee is consumed, not returned to the sender.
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.recipient.AccountID, "USD").Equal(decimal.NewFromFloat(147.50)))
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.sender.AccountID, "USD").Equal(decimal.NewFromInt(350)))
}

func (s *PendingFundServiceTestSuite) TestClaim_OnlyRecipientMayClaim() {
	fund, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(50), decimal.Zero, 3600))
	require.NoError(s.T(), err)

	_, err = s.svc.Claim(s.ctx, fund.PendingFundID, s.sender.AccountID)
	assert.ErrorIs(s.T(), err, apperrors.ErrUnauthorized)

	other := seedAccount(s.T(), s.repos, "BRX40000003", domain.RoleUser, domain.AccountActive)
	_, err = s.svc.Claim(s.ctx, fund.PendingFundID, other.AccountID)
	assert.ErrorIs(s.T(), err, apperrors.ErrUnauthorized)
}

func (s *PendingFundServiceTestSuite) TestClaim_SecondClaimRejected() {
	fund, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(50), decimal.Zero, 3600))
	require.NoError(s.T(), err)

	_, err = s.svc.Claim(s.ctx, fund.PendingFundID, s.recipient.AccountID)
	require.NoError(s.T(), err)

	_, err = s.svc.Claim(s.ctx, fund.PendingFundID, s.recipient.AccountID)
	assert.ErrorIs(s.T(), err, apperrors.ErrAlreadyClaimed)
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.recipient.AccountID, "USD").Equal(decimal.NewFromInt(50)))
}

func (s *PendingFundServiceTestSuite) TestSweep_RevertsFullAmountToSender() {
	fund, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(150), decimal.NewFromFloat(2.50), 1))
	require.NoError(s.T(), err)

	reverted, err := s.svc.SweepExpired(s.ctx, fund.ExpiresAt.Add(time.Second))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, reverted)

	// The revert returns the full 150; no fee is kept on expiry.
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.sender.AccountID, "USD").Equal(decimal.NewFromInt(500)))

	expired, err := s.svc.GetPendingFund(s.ctx, fund.PendingFundID)
	require.NoError(s.T(), err)
	assert.True(s.T(), expired.Expired)
	assert.False(s.T(), expired.Claimed)
}

func (s *PendingFundServiceTestSuite) TestSweep_ReachesLockedSender() {
	fund, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(100), decimal.Zero, 1))
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.repos.Accounts.UpdateAccountStatus(s.ctx, s.sender.AccountID, domain.AccountLocked, "admin", time.Now().UTC()))

	reverted, err := s.svc.SweepExpired(s.ctx, fund.ExpiresAt.Add(time.Second))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, reverted)
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.sender.AccountID, "USD").Equal(decimal.NewFromInt(500)))
}

func (s *PendingFundServiceTestSuite) TestSweep_RerunIsNoOp() {
	fund, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(100), decimal.Zero, 1))
	require.NoError(s.T(), err)

	asOf := fund.ExpiresAt.Add(time.Second)
	reverted, err := s.svc.SweepExpired(s.ctx, asOf)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, reverted)

	reverted, err = s.svc.SweepExpired(s.ctx, asOf)
	require.NoError(s.T(), err)
	assert.Zero(s.T(), reverted)

	// No double credit.
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.sender.AccountID, "USD").Equal(decimal.NewFromInt(500)))
}

func (s *PendingFundServiceTestSuite) TestClaim_AfterSweepIsExpired() {
	fund, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(100), decimal.Zero, 1))
	require.NoError(s.T(), err)

	_, err = s.svc.SweepExpired(s.ctx, fund.ExpiresAt.Add(time.Second))
	require.NoError(s.T(), err)

	_, err = s.svc.Claim(s.ctx, fund.PendingFundID, s.recipient.AccountID)
	assert.ErrorIs(s.T(), err, apperrors.ErrExpired)
}

func (s *PendingFundServiceTestSuite) TestClaim_PastExpiryWithoutSweep() {
	// The deadline alone rejects the claim even before any sweep runs.
	fund, err := s.svc.Stage(s.ctx, s.sender.AccountID, s.stageReq(decimal.NewFromInt(100), decimal.Zero, 1))
	require.NoError(s.T(), err)

	time.Sleep(time.Until(fund.ExpiresAt) + 50*time.Millisecond)

	_, err = s.svc.Claim(s.ctx, fund.PendingFundID, s.recipient.AccountID)
	assert.ErrorIs(s.T(), err, apperrors.ErrExpired)

	// The hold stays debited until the sweep reverts it.
	assert.True(s.T(), walletBalance(s.T(), s.repos, s.sender.AccountID, "USD").Equal(decimal.NewFromInt(400)))
}
