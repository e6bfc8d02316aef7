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

type PgxTransactionRepository struct {
	BaseRepository
	walletRepo *PgxWalletRepository
}

// newPgxTransactionRepository creates a new repository for externally-bound
// transactions. It shares the wallet repository so the insert and the
// balance movement run in one database transaction.
func newPgxTransactionRepository(pool *pgxpool.Pool, walletRepo *PgxWalletRepository) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		walletRepo:     walletRepo,
	}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// SaveTransaction inserts the pending transaction and applies the
// creation-time debit in one atomic unit.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, debit domain.BalanceChange) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.walletRepo.applyBalanceChangesInTx(ctx, tx, []domain.BalanceChange{debit}, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (
			transaction_id, account_id, type, amount, currency_code,
			network_fee, destination, risk_score, status,
			created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		txn.TransactionID,
		txn.AccountID,
		txn.Type,
		txn.Amount,
		txn.CurrencyCode,
		txn.NetworkFee,
		txn.Destination,
		txn.RiskScore,
		txn.Status,
		txn.CreatedAt,
		txn.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_id, type, amount, currency_code,
		       network_fee, destination, risk_score, status,
		       created_at, created_by, resolved_at, resolved_by
		FROM transactions
		WHERE transaction_id = $1;
	`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}
	return txn, nil
}

// ResolveTransaction performs the compare-and-set transition pending ->
// next, applying the refund in the same database transaction when present.
// The row is locked before the status check so a concurrent approve and
// reject cannot both observe the pending state.
func (r *PgxTransactionRepository) ResolveTransaction(ctx context.Context, transactionID string, next domain.TransactionStatus, refund *domain.BalanceChange, resolvedBy string, at time.Time) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT status
		FROM transactions
		WHERE transaction_id = $1
		FOR UPDATE;
	`
	var current domain.TransactionStatus
	if err := tx.QueryRow(ctx, lockQuery, transactionID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock transaction "+transactionID, err)
	}
	if err := current.CanTransitionTo(next); err != nil {
		return nil, apperrors.ErrNotPending
	}

	if refund != nil {
		if err := r.walletRepo.applyBalanceChangesInTx(ctx, tx, []domain.BalanceChange{*refund}, resolvedBy, at); err != nil {
			return nil, err
		}
	}

	updateQuery := `
		UPDATE transactions
		SET status = $2,
		    resolved_at = $3,
		    resolved_by = $4
		WHERE transaction_id = $1
		RETURNING transaction_id, account_id, type, amount, currency_code,
		          network_fee, destination, risk_score, status,
		          created_at, created_by, resolved_at, resolved_by;
	`
	txn, err := scanTransaction(tx.QueryRow(ctx, updateQuery, transactionID, next, at, resolvedBy))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to resolve transaction "+transactionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactionsByAccount returns the account's transactions, newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT transaction_id, account_id, type, amount, currency_code,
		       network_fee, destination, risk_score, status,
		       created_at, created_by, resolved_at, resolved_by
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for account "+accountID, err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for account "+accountID, err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows for account "+accountID, err)
	}
	return txns, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	var resolvedBy *string
	err := row.Scan(
		&txn.TransactionID,
		&txn.AccountID,
		&txn.Type,
		&txn.Amount,
		&txn.CurrencyCode,
		&txn.NetworkFee,
		&txn.Destination,
		&txn.RiskScore,
		&txn.Status,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.ResolvedAt,
		&resolvedBy,
	)
	if err != nil {
		return nil, err
	}
	if resolvedBy != nil {
		txn.ResolvedBy = *resolvedBy
	}
	return &txn, nil
}
