package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	"github.com/brixal/wallet-backend/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestRepos returns a fresh in-memory repository container.
func newTestRepos() portsrepo.Container {
	return memory.NewStore().Repositories()
}

// seedAccount creates an account directly in the store.
func seedAccount(t *testing.T, repos portsrepo.Container, handle string, role domain.AccountRole, status domain.AccountStatus) domain.Account {
	t.Helper()
	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Handle:      handle,
		DisplayName: "Account " + handle,
		Status:      status,
		Role:        role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "seed",
			LastUpdatedAt: now,
			LastUpdatedBy: "seed",
		},
	}
	require.NoError(t, repos.Accounts.SaveAccount(context.Background(), account))
	return account
}

// fundWallet creates the wallet if needed and credits it.
func fundWallet(t *testing.T, repos portsrepo.Container, accountID, currency string, amount decimal.Decimal) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repos.Wallets.EnsureWallet(ctx, accountID, currency, domain.KindForCurrency(currency), "seed", now))
	if !amount.IsZero() {
		change := domain.BalanceChange{AccountID: accountID, CurrencyCode: currency, Delta: amount}
		require.NoError(t, repos.Wallets.ApplyBalanceChanges(ctx, []domain.BalanceChange{change}, "seed", now))
	}
}

// walletBalance reads the current balance of one wallet.
func walletBalance(t *testing.T, repos portsrepo.Container, accountID, currency string) decimal.Decimal {
	t.Helper()
	wallet, err := repos.Wallets.FindWallet(context.Background(), accountID, currency)
	require.NoError(t, err)
	return wallet.Balance
}

// stubLimiter is a transfer rate limiter with a fixed answer.
type stubLimiter struct {
	allowed bool
	calls   int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	l.calls++
	return l.allowed, nil
}

// MockNotifier records published events.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
