package memory

import (
	"context"
	"sort"
	"time"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
)

var _ portsrepo.PendingFundRepository = (*Store)(nil)

// SavePendingFund inserts the fund and applies the staging debit of the
// sender's wallet in one atomic unit.
func (s *Store) SavePendingFund(_ context.Context, fund domain.PendingFund, debit domain.BalanceChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pendingFunds[fund.PendingFundID]; exists {
		return apperrors.ErrDuplicate
	}
	if err := s.applyChangesLocked([]domain.BalanceChange{debit}, fund.SenderAccountID, fund.CreatedAt); err != nil {
		return err
	}
	s.pendingFunds[fund.PendingFundID] = fund
	return nil
}

// FindPendingFundByID retrieves a pending fund.
func (s *Store) FindPendingFundByID(_ context.Context, pendingFundID string) (*domain.PendingFund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fund, ok := s.pendingFunds[pendingFundID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &fund, nil
}

// ClaimPendingFund sets claimed=true iff the fund is unresolved and before
// expiry, crediting the recipient atomically. The compare-and-set here and
// in ExpirePendingFund share the terminal-state check, so a fund resolves
// exactly once.
func (s *Store) ClaimPendingFund(_ context.Context, pendingFundID string, credit domain.BalanceChange, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fund, ok := s.pendingFunds[pendingFundID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if fund.Claimed {
		return apperrors.ErrAlreadyClaimed
	}
	if fund.Expired || !at.Before(fund.ExpiresAt) {
		return apperrors.ErrExpired
	}

	if err := s.applyChangesLocked([]domain.BalanceChange{credit}, fund.RecipientAccountID, at); err != nil {
		return err
	}
	fund.Claimed = true
	s.pendingFunds[pendingFundID] = fund
	return nil
}

// ListExpiredUnclaimed returns unresolved funds with expiry <= asOf,
// oldest first.
func (s *Store) ListExpiredUnclaimed(_ context.Context, asOf time.Time) ([]domain.PendingFund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var funds []domain.PendingFund
	for _, fund := range s.pendingFunds {
		if !fund.Claimed && !fund.Expired && !fund.ExpiresAt.After(asOf) {
			funds = append(funds, fund)
		}
	}
	sort.Slice(funds, func(i, j int) bool {
		return funds[i].ExpiresAt.Before(funds[j].ExpiresAt)
	})
	return funds, nil
}

// ExpirePendingFund sets expired=true iff the fund is unresolved, reverting
// the full amount to the sender atomically.
func (s *Store) ExpirePendingFund(_ context.Context, pendingFundID string, revert domain.BalanceChange, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fund, ok := s.pendingFunds[pendingFundID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if fund.Claimed {
		return apperrors.ErrAlreadyClaimed
	}
	if fund.Expired {
		return apperrors.ErrExpired
	}

	if err := s.applyChangesLocked([]domain.BalanceChange{revert}, fund.SenderAccountID, at); err != nil {
		return err
	}
	fund.Expired = true
	s.pendingFunds[pendingFundID] = fund
	return nil
}
