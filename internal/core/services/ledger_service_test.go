package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	"github.com/brixal/wallet-backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *LedgerServiceTestSuite) TestAdjustBalance_CreditCreatesWalletLazily() {
	repos := newTestRepos()
	account := seedAccount(s.T(), repos, "BRX10000001", domain.RoleUser, domain.AccountActive)
	svc := services.NewLedgerService(repos.Accounts, repos.Wallets)

	wallet, err := svc.AdjustBalance(s.ctx, account.AccountID, "USD", decimal.NewFromInt(100), "tester")
	require.NoError(s.T(), err)
	assert.True(s.T(), wallet.Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(s.T(), domain.WalletFiat, wallet.Kind)
}

func (s *LedgerServiceTestSuite) TestAdjustBalance_DebitBelowZeroFails() {
	repos := newTestRepos()
	account := seedAccount(s.T(), repos, "BRX10000002", domain.RoleUser, domain.AccountActive)
	fundWallet(s.T(), repos, account.AccountID, "USD", decimal.NewFromInt(50))
	svc := services.NewLedgerService(repos.Accounts, repos.Wallets)

	_, err := svc.AdjustBalance(s.ctx, account.AccountID, "USD", decimal.NewFromInt(-60), "tester")
	assert.ErrorIs(s.T(), err, apperrors.ErrInsufficientFunds)

	// The failed debit must not have touched the balance.
	assert.True(s.T(), walletBalance(s.T(), repos, account.AccountID, "USD").Equal(decimal.NewFromInt(50)))
}

func (s *LedgerServiceTestSuite) TestAdjustBalance_DebitAgainstMissingWallet() {
	repos := newTestRepos()
	account := seedAccount(s.T(), repos, "BRX10000003", domain.RoleUser, domain.AccountActive)
	svc := services.NewLedgerService(repos.Accounts, repos.Wallets)

	_, err := svc.AdjustBalance(s.ctx, account.AccountID, "USD", decimal.NewFromInt(-10), "tester")
	assert.ErrorIs(s.T(), err, apperrors.ErrInsufficientFunds)
}

func (s *LedgerServiceTestSuite) TestAdjustBalance_FrozenWalletRejectsBothDirections() {
	repos := newTestRepos()
	account := seedAccount(s.T(), repos, "BRX10000004", domain.RoleUser, domain.AccountActive)
	fundWallet(s.T(), repos, account.AccountID, "USD", decimal.NewFromInt(100))
	require.NoError(s.T(), repos.Wallets.UpdateWalletStatusForAccount(s.ctx, account.AccountID, domain.WalletFrozen, "admin", time.Now().UTC()))
	svc := services.NewLedgerService(repos.Accounts, repos.Wallets)

	_, err := svc.AdjustBalance(s.ctx, account.AccountID, "USD", decimal.NewFromInt(-10), "tester")
	assert.ErrorIs(s.T(), err, apperrors.ErrWalletFrozen)

	_, err = svc.AdjustBalance(s.ctx, account.AccountID, "USD", decimal.NewFromInt(10), "tester")
	assert.ErrorIs(s.T(), err, apperrors.ErrWalletFrozen)

	// Freezing never bypassed, even on the revert path.
	_, err = svc.RevertBalance(s.ctx, account.AccountID, "USD", decimal.NewFromInt(10), "admin")
	assert.ErrorIs(s.T(), err, apperrors.ErrWalletFrozen)
}

func (s *LedgerServiceTestSuite) TestAdjustBalance_LockedAccountBlockedButRevertAllowed() {
	repos := newTestRepos()
	account := seedAccount(s.T(), repos, "BRX10000005", domain.RoleUser, domain.AccountActive)
	fundWallet(s.T(), repos, account.AccountID, "USD", decimal.NewFromInt(100))
	require.NoError(s.T(), repos.Accounts.UpdateAccountStatus(s.ctx, account.AccountID, domain.AccountLocked, "admin", time.Now().UTC()))
	svc := services.NewLedgerService(repos.Accounts, repos.Wallets)

	_, err := svc.AdjustBalance(s.ctx, account.AccountID, "USD", decimal.NewFromInt(-10), "tester")
	assert.ErrorIs(s.T(), err, apperrors.ErrAccountLocked)

	wallet, err := svc.RevertBalance(s.ctx, account.AccountID, "USD", decimal.NewFromInt(25), "admin")
	require.NoError(s.T(), err)
	assert.True(s.T(), wallet.Balance.Equal(decimal.NewFromInt(125)))
}

func (s *LedgerServiceTestSuite) TestTransferBetween_ConservesMoney() {
	repos := newTestRepos()
	sender := seedAccount(s.T(), repos, "BRX10000006", domain.RoleUser, domain.AccountActive)
	recipient := seedAccount(s.T(), repos, "BRX10000007", domain.RoleUser, domain.AccountActive)
	fundWallet(s.T(), repos, sender.AccountID, "USD", decimal.NewFromInt(100))
	svc := services.NewLedgerService(repos.Accounts, repos.Wallets)

	err := svc.TransferBetween(s.ctx, sender.AccountID, recipient.AccountID, decimal.NewFromInt(40), "USD", sender.AccountID)
	require.NoError(s.T(), err)

	senderBalance := walletBalance(s.T(), repos, sender.AccountID, "USD")
	recipientBalance := walletBalance(s.T(), repos, recipient.AccountID, "USD")
	assert.True(s.T(), senderBalance.Equal(decimal.NewFromInt(60)))
	assert.True(s.T(), recipientBalance.Equal(decimal.NewFromInt(40)))
	assert.True(s.T(), senderBalance.Add(recipientBalance).Equal(decimal.NewFromInt(100)))
}

func (s *LedgerServiceTestSuite) TestTransferBetween_InsufficientFundsRollsBackBothSides() {
	repos := newTestRepos()
	sender := seedAccount(s.T(), repos, "BRX10000008", domain.RoleUser, domain.AccountActive)
	recipient := seedAccount(s.T(), repos, "BRX10000009", domain.RoleUser, domain.AccountActive)
	fundWallet(s.T(), repos, sender.AccountID, "USD", decimal.NewFromInt(30))
	svc := services.NewLedgerService(repos.Accounts, repos.Wallets)

	err := svc.TransferBetween(s.ctx, sender.AccountID, recipient.AccountID, decimal.NewFromInt(40), "USD", sender.AccountID)
	assert.ErrorIs(s.T(), err, apperrors.ErrInsufficientFunds)

	assert.True(s.T(), walletBalance(s.T(), repos, sender.AccountID, "USD").Equal(decimal.NewFromInt(30)))
	assert.True(s.T(), walletBalance(s.T(), repos, recipient.AccountID, "USD").IsZero())
}

func (s *LedgerServiceTestSuite) TestTransferBetween_RejectsNonPositiveAmount() {
	repos := newTestRepos()
	svc := services.NewLedgerService(repos.Accounts, repos.Wallets)

	err := svc.TransferBetween(s.ctx, "a", "b", decimal.Zero, "USD", "a")
	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidAmount)

	err = svc.TransferBetween(s.ctx, "a", "b", decimal.NewFromInt(-5), "USD", "a")
	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidAmount)
}
