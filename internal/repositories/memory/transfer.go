package memory

import (
	"context"
	"sort"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
)

var _ portsrepo.TransferRepository = (*Store)(nil)

// SaveTransferRequest inserts a resolved transfer request.
func (s *Store) SaveTransferRequest(_ context.Context, req domain.TransferRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transfers[req.TransferID]; exists {
		return apperrors.ErrDuplicate
	}
	s.transfers[req.TransferID] = req
	return nil
}

// FindTransferRequestByID retrieves a transfer request.
func (s *Store) FindTransferRequestByID(_ context.Context, transferID string) (*domain.TransferRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.transfers[transferID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &req, nil
}

// ListTransfersByAccount returns transfers the account participated in,
// newest first.
func (s *Store) ListTransfersByAccount(_ context.Context, accountID string, limit, offset int) ([]domain.TransferRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var transfers []domain.TransferRequest
	for _, req := range s.transfers {
		if req.FromAccountID == accountID || req.ToAccountID == accountID {
			transfers = append(transfers, req)
		}
	}
	sort.Slice(transfers, func(i, j int) bool {
		return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
	})

	if offset >= len(transfers) {
		return nil, nil
	}
	transfers = transfers[offset:]
	if limit > 0 && len(transfers) > limit {
		transfers = transfers[:limit]
	}
	return transfers, nil
}
