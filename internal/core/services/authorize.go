package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/brixal/wallet-backend/internal/apperrors"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
)

// requireAdmin verifies that the caller holds the administrator role.
// An unknown caller is indistinguishable from a non-admin one.
func requireAdmin(ctx context.Context, accountRepo portsrepo.AccountRepository, adminID string) error {
	if adminID == "" {
		return apperrors.ErrUnauthorized
	}
	account, err := accountRepo.FindAccountByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnauthorized
		}
		return fmt.Errorf("failed to verify admin capability: %w", err)
	}
	if !account.IsAdmin() {
		return apperrors.ErrUnauthorized
	}
	return nil
}
