package services_test

import (
	"context"
	"regexp"
	"testing"

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

type AccountControlServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	repos portsrepo.Container
	svc   portssvc.AccountControlSvcFacade
	admin domain.Account
	user  domain.Account
}

func TestAccountControlServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountControlServiceTestSuite))
}

func (s *AccountControlServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = newTestRepos()
	s.svc = services.NewAccountControlService(s.repos.Accounts, s.repos.Wallets, nil)

	s.admin = seedAccount(s.T(), s.repos, "BRX50000001", domain.RoleAdmin, domain.AccountActive)
	s.user = seedAccount(s.T(), s.repos, "BRX50000002", domain.RoleUser, domain.AccountActive)
}

var handlePattern = regexp.MustCompile(`^BRX\d{8}$`)

func (s *AccountControlServiceTestSuite) TestCreateAccount_GeneratesHandle() {
	account, err := s.svc.CreateAccount(s.ctx, dto.CreateAccountRequest{DisplayName: "Ada Lovelace"}, s.admin.AccountID)
	require.NoError(s.T(), err)

	assert.Regexp(s.T(), handlePattern, account.Handle)
	assert.Equal(s.T(), domain.AccountActive, account.Status)
	assert.Equal(s.T(), domain.RoleUser, account.Role)

	// The handle resolves back to the account.
	found, err := s.repos.Accounts.FindAccountByHandle(s.ctx, account.Handle)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), account.AccountID, found.AccountID)
}

func (s *AccountControlServiceTestSuite) TestCreateAccount_RequiresAdmin() {
	_, err := s.svc.CreateAccount(s.ctx, dto.CreateAccountRequest{DisplayName: "Nope"}, s.user.AccountID)
	assert.ErrorIs(s.T(), err, apperrors.ErrUnauthorized)
}

func (s *AccountControlServiceTestSuite) TestLockUnlock_Idempotent() {
	require.NoError(s.T(), s.svc.LockAccount(s.ctx, s.user.AccountID, s.admin.AccountID))
	require.NoError(s.T(), s.svc.LockAccount(s.ctx, s.user.AccountID, s.admin.AccountID))

	account, err := s.svc.GetAccount(s.ctx, s.user.AccountID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.AccountLocked, account.Status)

	require.NoError(s.T(), s.svc.UnlockAccount(s.ctx, s.user.AccountID, s.admin.AccountID))
	require.NoError(s.T(), s.svc.UnlockAccount(s.ctx, s.user.AccountID, s.admin.AccountID))

	account, err = s.svc.GetAccount(s.ctx, s.user.AccountID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.AccountActive, account.Status)
}

func (s *AccountControlServiceTestSuite) TestFreeze_BlocksCreditsUntilUnfrozen() {
	fundWallet(s.T(), s.repos, s.user.AccountID, "USD", decimal.NewFromInt(100))
	ledger := services.NewLedgerService(s.repos.Accounts, s.repos.Wallets)

	require.NoError(s.T(), s.svc.FreezeWallets(s.ctx, s.user.AccountID, s.admin.AccountID))

	_, err := ledger.AdjustBalance(s.ctx, s.user.AccountID, "USD", decimal.NewFromInt(10), "tester")
	assert.ErrorIs(s.T(), err, apperrors.ErrWalletFrozen)

	require.NoError(s.T(), s.svc.UnfreezeWallets(s.ctx, s.user.AccountID, s.admin.AccountID))

	wallet, err := ledger.AdjustBalance(s.ctx, s.user.AccountID, "USD", decimal.NewFromInt(10), "tester")
	require.NoError(s.T(), err)
	assert.True(s.T(), wallet.Balance.Equal(decimal.NewFromInt(110)))
}

func (s *AccountControlServiceTestSuite) TestStatusChanges_RequireAdmin() {
	assert.ErrorIs(s.T(), s.svc.LockAccount(s.ctx, s.user.AccountID, s.user.AccountID), apperrors.ErrUnauthorized)
	assert.ErrorIs(s.T(), s.svc.FreezeWallets(s.ctx, s.user.AccountID, s.user.AccountID), apperrors.ErrUnauthorized)
}

func (s *AccountControlServiceTestSuite) TestStatusChanges_UnknownAccount() {
	assert.ErrorIs(s.T(), s.svc.LockAccount(s.ctx, "missing", s.admin.AccountID), apperrors.ErrNotFound)
}
