package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
)

var _ portsrepo.AccountRepository = (*Store)(nil)

// SaveAccount inserts a new account.
func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, exists := s.handles[account.Handle]; exists {
		return fmt.Errorf("%w: handle %s", apperrors.ErrDuplicate, account.Handle)
	}

	s.accounts[account.AccountID] = account
	s.handles[account.Handle] = account.AccountID
	return nil
}

// FindAccountByID retrieves an account by its primary key.
func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

// FindAccountByHandle resolves a public handle to its account.
func (s *Store) FindAccountByHandle(_ context.Context, handle string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accountID, ok := s.handles[handle]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	account := s.accounts[accountID]
	return &account, nil
}

// UpdateAccountStatus writes the lifecycle status. Idempotent.
func (s *Store) UpdateAccountStatus(_ context.Context, accountID string, status domain.AccountStatus, updatedBy string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	account.Status = status
	account.LastUpdatedAt = at
	account.LastUpdatedBy = updatedBy
	s.accounts[accountID] = account
	return nil
}
