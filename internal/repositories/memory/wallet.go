package memory

import (
	"context"
	"sort"
	"time"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

var _ portsrepo.WalletRepository = (*Store)(nil)

// FindWallet retrieves the wallet for (accountID, currencyCode).
func (s *Store) FindWallet(_ context.Context, accountID, currencyCode string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallet, ok := s.wallets[walletKey{accountID, currencyCode}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &wallet, nil
}

// ListWalletsByAccount returns every wallet owned by the account, sorted by
// currency for deterministic output.
func (s *Store) ListWalletsByAccount(_ context.Context, accountID string) ([]domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var wallets []domain.Wallet
	for key, wallet := range s.wallets {
		if key.accountID == accountID {
			wallets = append(wallets, wallet)
		}
	}
	sort.Slice(wallets, func(i, j int) bool {
		return wallets[i].CurrencyCode < wallets[j].CurrencyCode
	})
	return wallets, nil
}

// EnsureWallet creates the wallet lazily if it does not exist yet.
func (s *Store) EnsureWallet(_ context.Context, accountID, currencyCode string, kind domain.WalletKind, createdBy string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := walletKey{accountID, currencyCode}
	if _, exists := s.wallets[key]; exists {
		return nil
	}
	s.wallets[key] = domain.Wallet{
		AccountID:    accountID,
		CurrencyCode: currencyCode,
		Balance:      decimal.Zero,
		Kind:         kind,
		Status:       domain.WalletActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     at,
			CreatedBy:     createdBy,
			LastUpdatedAt: at,
			LastUpdatedBy: createdBy,
		},
	}
	return nil
}

// ApplyBalanceChanges applies all changes atomically or none of them.
func (s *Store) ApplyBalanceChanges(_ context.Context, changes []domain.BalanceChange, updatedBy string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyChangesLocked(changes, updatedBy, at)
}

// UpdateWalletStatusForAccount writes the status of every wallet owned by
// the account at once. Idempotent.
func (s *Store) UpdateWalletStatusForAccount(_ context.Context, accountID string, status domain.WalletStatus, updatedBy string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, wallet := range s.wallets {
		if key.accountID != accountID {
			continue
		}
		wallet.Status = status
		wallet.LastUpdatedAt = at
		wallet.LastUpdatedBy = updatedBy
		s.wallets[key] = wallet
	}
	return nil
}
