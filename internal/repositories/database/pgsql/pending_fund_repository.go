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

type PgxPendingFundRepository struct {
	BaseRepository
	walletRepo *PgxWalletRepository
}

// newPgxPendingFundRepository creates a new repository for claimable,
// time-boxed credits.
func newPgxPendingFundRepository(pool *pgxpool.Pool, walletRepo *PgxWalletRepository) *PgxPendingFundRepository {
	return &PgxPendingFundRepository{
		BaseRepository: BaseRepository{Pool: pool},
		walletRepo:     walletRepo,
	}
}

var _ portsrepo.PendingFundRepository = (*PgxPendingFundRepository)(nil)

// SavePendingFund inserts the fund and applies the staging debit of the
// sender's wallet in one atomic unit.
func (r *PgxPendingFundRepository) SavePendingFund(ctx context.Context, fund domain.PendingFund, debit domain.BalanceChange) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.walletRepo.applyBalanceChangesInTx(ctx, tx, []domain.BalanceChange{debit}, fund.SenderAccountID, fund.CreatedAt); err != nil {
		return err
	}

	query := `
		INSERT INTO pending_funds (
			pending_fund_id, recipient_account_id, sender_account_id,
			amount, currency_code, network_fee, expires_at,
			claimed, expired, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		fund.PendingFundID,
		fund.RecipientAccountID,
		fund.SenderAccountID,
		fund.Amount,
		fund.CurrencyCode,
		fund.NetworkFee,
		fund.ExpiresAt,
		fund.Claimed,
		fund.Expired,
		fund.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert pending fund "+fund.PendingFundID, err)
	}

	return r.Commit(ctx, tx)
}

// FindPendingFundByID retrieves a pending fund.
func (r *PgxPendingFundRepository) FindPendingFundByID(ctx context.Context, pendingFundID string) (*domain.PendingFund, error) {
	query := `
		SELECT pending_fund_id, recipient_account_id, sender_account_id,
		       amount, currency_code, network_fee, expires_at,
		       claimed, expired, created_at
		FROM pending_funds
		WHERE pending_fund_id = $1;
	`
	fund, err := scanPendingFund(r.Pool.QueryRow(ctx, query, pendingFundID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find pending fund by ID "+pendingFundID, err)
	}
	return fund, nil
}

// ClaimPendingFund sets claimed=true iff the fund is unresolved and not yet
// past expiry, crediting the recipient in the same database transaction.
// The row is locked before the terminal-state check so a racing claim and
// sweep resolve the fund exactly once.
func (r *PgxPendingFundRepository) ClaimPendingFund(ctx context.Context, pendingFundID string, credit domain.BalanceChange, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	fund, err := r.lockPendingFund(ctx, tx, pendingFundID)
	if err != nil {
		return err
	}
	if fund.Claimed {
		return apperrors.ErrAlreadyClaimed
	}
	if fund.Expired || !at.Before(fund.ExpiresAt) {
		return apperrors.ErrExpired
	}

	if err := r.walletRepo.applyBalanceChangesInTx(ctx, tx, []domain.BalanceChange{credit}, fund.RecipientAccountID, at); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE pending_funds SET claimed = TRUE WHERE pending_fund_id = $1;`, pendingFundID); err != nil {
		return apperrors.NewAppError(500, "failed to mark pending fund claimed "+pendingFundID, err)
	}

	return r.Commit(ctx, tx)
}

// ListExpiredUnclaimed returns unresolved funds with expiry <= asOf.
func (r *PgxPendingFundRepository) ListExpiredUnclaimed(ctx context.Context, asOf time.Time) ([]domain.PendingFund, error) {
	query := `
		SELECT pending_fund_id, recipient_account_id, sender_account_id,
		       amount, currency_code, network_fee, expires_at,
		       claimed, expired, created_at
		FROM pending_funds
		WHERE claimed = FALSE AND expired = FALSE AND expires_at <= $1
		ORDER BY expires_at;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expired pending funds", err)
	}
	defer rows.Close()

	var funds []domain.PendingFund
	for rows.Next() {
		fund, err := scanPendingFund(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pending fund row", err)
		}
		funds = append(funds, *fund)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating pending fund rows", err)
	}
	return funds, nil
}

// ExpirePendingFund sets expired=true iff the fund is unresolved, reverting
// the full amount to the sender in the same database transaction.
func (r *PgxPendingFundRepository) ExpirePendingFund(ctx context.Context, pendingFundID string, revert domain.BalanceChange, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	fund, err := r.lockPendingFund(ctx, tx, pendingFundID)
	if err != nil {
		return err
	}
	if fund.Claimed {
		return apperrors.ErrAlreadyClaimed
	}
	if fund.Expired {
		return apperrors.ErrExpired
	}

	if err := r.walletRepo.applyBalanceChangesInTx(ctx, tx, []domain.BalanceChange{revert}, fund.SenderAccountID, at); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE pending_funds SET expired = TRUE WHERE pending_fund_id = $1;`, pendingFundID); err != nil {
		return apperrors.NewAppError(500, "failed to mark pending fund expired "+pendingFundID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxPendingFundRepository) lockPendingFund(ctx context.Context, tx pgx.Tx, pendingFundID string) (*domain.PendingFund, error) {
	query := `
		SELECT pending_fund_id, recipient_account_id, sender_account_id,
		       amount, currency_code, network_fee, expires_at,
		       claimed, expired, created_at
		FROM pending_funds
		WHERE pending_fund_id = $1
		FOR UPDATE;
	`
	fund, err := scanPendingFund(tx.QueryRow(ctx, query, pendingFundID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock pending fund "+pendingFundID, err)
	}
	return fund, nil
}

func scanPendingFund(row pgx.Row) (*domain.PendingFund, error) {
	var fund domain.PendingFund
	err := row.Scan(
		&fund.PendingFundID,
		&fund.RecipientAccountID,
		&fund.SenderAccountID,
		&fund.Amount,
		&fund.CurrencyCode,
		&fund.NetworkFee,
		&fund.ExpiresAt,
		&fund.Claimed,
		&fund.Expired,
		&fund.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fund, nil
}
