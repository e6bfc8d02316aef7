package memory

import (
	"context"
	"sort"
	"time"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
)

var _ portsrepo.TransactionRepository = (*Store)(nil)

// SaveTransaction inserts the pending transaction and applies the
// creation-time debit in one atomic unit.
func (s *Store) SaveTransaction(_ context.Context, txn domain.Transaction, debit domain.BalanceChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[txn.TransactionID]; exists {
		return apperrors.ErrDuplicate
	}
	if err := s.applyChangesLocked([]domain.BalanceChange{debit}, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}
	s.transactions[txn.TransactionID] = txn
	return nil
}

// FindTransactionByID retrieves a transaction.
func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

// ResolveTransaction performs the compare-and-set transition pending ->
// next, applying the refund in the same atomic unit when present.
func (s *Store) ResolveTransaction(_ context.Context, transactionID string, next domain.TransactionStatus, refund *domain.BalanceChange, resolvedBy string, at time.Time) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if err := txn.Status.CanTransitionTo(next); err != nil {
		return nil, apperrors.ErrNotPending
	}

	if refund != nil {
		if err := s.applyChangesLocked([]domain.BalanceChange{*refund}, resolvedBy, at); err != nil {
			return nil, err
		}
	}

	txn.Status = next
	txn.ResolvedAt = &at
	txn.ResolvedBy = resolvedBy
	s.transactions[transactionID] = txn
	return &txn, nil
}

// ListTransactionsByAccount returns the account's transactions, newest first.
func (s *Store) ListTransactionsByAccount(_ context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txns []domain.Transaction
	for _, txn := range s.transactions {
		if txn.AccountID == accountID {
			txns = append(txns, txn)
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})

	if offset >= len(txns) {
		return nil, nil
	}
	txns = txns[offset:]
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}
