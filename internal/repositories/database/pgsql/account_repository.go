package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (
			account_id, handle, display_name, status, role,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Handle,
		account.DisplayName,
		account.Status,
		account.Role,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert account "+account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its primary key.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, handle, display_name, status, role,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE account_id = $1;
	`
	return r.scanAccount(r.Pool.QueryRow(ctx, query, accountID), "failed to find account by ID "+accountID)
}

// FindAccountByHandle resolves a public handle to its account.
func (r *PgxAccountRepository) FindAccountByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	query := `
		SELECT account_id, handle, display_name, status, role,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE handle = $1;
	`
	return r.scanAccount(r.Pool.QueryRow(ctx, query, handle), "failed to find account by handle "+handle)
}

func (r *PgxAccountRepository) scanAccount(row pgx.Row, errMsg string) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.AccountID,
		&account.Handle,
		&account.DisplayName,
		&account.Status,
		&account.Role,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, errMsg, err)
	}
	return &account, nil
}

// UpdateAccountStatus writes the lifecycle status. Writing the current
// status again is a no-op success.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, at time.Time) error {
	query := `
		UPDATE accounts
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, status, at, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for account "+accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
