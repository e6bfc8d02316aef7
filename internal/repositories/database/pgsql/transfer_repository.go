package pgsql

import (
	"context"
	"errors"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransferRepository struct {
	BaseRepository
}

// newPgxTransferRepository creates a new repository for transfer audit records.
func newPgxTransferRepository(pool *pgxpool.Pool) *PgxTransferRepository {
	return &PgxTransferRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransferRepository = (*PgxTransferRepository)(nil)

// SaveTransferRequest inserts a resolved transfer request.
func (r *PgxTransferRepository) SaveTransferRequest(ctx context.Context, req domain.TransferRequest) error {
	query := `
		INSERT INTO transfer_requests (
			transfer_id, from_account_id, to_account_id, amount, currency_code,
			message, status, created_at, resolved_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		req.TransferID,
		req.FromAccountID,
		req.ToAccountID,
		req.Amount,
		req.CurrencyCode,
		req.Message,
		req.Status,
		req.CreatedAt,
		req.ResolvedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert transfer request "+req.TransferID, err)
	}
	return nil
}

// FindTransferRequestByID retrieves a transfer request.
func (r *PgxTransferRepository) FindTransferRequestByID(ctx context.Context, transferID string) (*domain.TransferRequest, error) {
	query := `
		SELECT transfer_id, from_account_id, to_account_id, amount, currency_code,
		       message, status, created_at, resolved_at
		FROM transfer_requests
		WHERE transfer_id = $1;
	`
	var req domain.TransferRequest
	err := r.Pool.QueryRow(ctx, query, transferID).Scan(
		&req.TransferID,
		&req.FromAccountID,
		&req.ToAccountID,
		&req.Amount,
		&req.CurrencyCode,
		&req.Message,
		&req.Status,
		&req.CreatedAt,
		&req.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transfer request by ID "+transferID, err)
	}
	return &req, nil
}

// ListTransfersByAccount returns transfers the account participated in,
// as sender or recipient, newest first.
func (r *PgxTransferRepository) ListTransfersByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.TransferRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT transfer_id, from_account_id, to_account_id, amount, currency_code,
		       message, status, created_at, resolved_at
		FROM transfer_requests
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC, transfer_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transfers for account "+accountID, err)
	}
	defer rows.Close()

	var transfers []domain.TransferRequest
	for rows.Next() {
		var req domain.TransferRequest
		if err := rows.Scan(
			&req.TransferID,
			&req.FromAccountID,
			&req.ToAccountID,
			&req.Amount,
			&req.CurrencyCode,
			&req.Message,
			&req.Status,
			&req.CreatedAt,
			&req.ResolvedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transfer row for account "+accountID, err)
		}
		transfers = append(transfers, req)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transfer rows for account "+accountID, err)
	}
	return transfers, nil
}
