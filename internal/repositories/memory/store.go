// Package memory provides an in-process implementation of every repository
// port. It backs unit tests and local development; the pgsql package is the
// durable production implementation.
package memory

import (
	"sync"
	"time"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
)

// walletKey identifies a wallet by its composite key.
type walletKey struct {
	accountID    string
	currencyCode string
}

// Store holds all entities behind one mutex. A single lock trades the
// per-key parallelism of the pgsql implementation for simplicity; it still
// guarantees that every multi-wallet change is atomic and totally ordered.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	handles      map[string]string // handle -> account id
	wallets      map[walletKey]domain.Wallet
	transactions map[string]domain.Transaction
	transfers    map[string]domain.TransferRequest
	pendingFunds map[string]domain.PendingFund
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		handles:      make(map[string]string),
		wallets:      make(map[walletKey]domain.Wallet),
		transactions: make(map[string]domain.Transaction),
		transfers:    make(map[string]domain.TransferRequest),
		pendingFunds: make(map[string]domain.PendingFund),
	}
}

// Repositories returns the store wrapped as a repository container.
func (s *Store) Repositories() portsrepo.Container {
	return portsrepo.Container{
		Accounts:     s,
		Wallets:      s,
		Transactions: s,
		Transfers:    s,
		PendingFunds: s,
	}
}

// applyChangesLocked validates every change against the status gates and
// the non-negativity invariant, then applies all of them. Callers must hold
// the write lock. Either all changes are applied or none are.
func (s *Store) applyChangesLocked(changes []domain.BalanceChange, updatedBy string, at time.Time) error {
	// Validate first so a late failure cannot leave a partial update.
	staged := make(map[walletKey]domain.Wallet, len(changes))
	for _, change := range changes {
		key := walletKey{change.AccountID, change.CurrencyCode}
		wallet, ok := staged[key]
		if !ok {
			wallet, ok = s.wallets[key]
			if !ok {
				return apperrors.ErrNotFound
			}
		}

		account, ok := s.accounts[change.AccountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		if account.Status == domain.AccountLocked && !change.AllowLockedAccount {
			return apperrors.ErrAccountLocked
		}
		if wallet.Status != domain.WalletActive {
			return apperrors.ErrWalletFrozen
		}

		next := wallet.Balance.Add(change.Delta)
		if next.IsNegative() {
			return apperrors.ErrInsufficientFunds
		}
		wallet.Balance = next
		wallet.LastUpdatedAt = at
		wallet.LastUpdatedBy = updatedBy
		staged[key] = wallet
	}

	for key, wallet := range staged {
		s.wallets[key] = wallet
	}
	return nil
}
