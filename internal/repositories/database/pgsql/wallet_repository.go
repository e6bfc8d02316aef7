package pgsql

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxWalletRepository struct {
	BaseRepository
}

// newPgxWalletRepository creates a new repository for wallet data.
func newPgxWalletRepository(pool *pgxpool.Pool) *PgxWalletRepository {
	return &PgxWalletRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.WalletRepository = (*PgxWalletRepository)(nil)

// FindWallet retrieves the wallet for (accountID, currencyCode).
func (r *PgxWalletRepository) FindWallet(ctx context.Context, accountID, currencyCode string) (*domain.Wallet, error) {
	query := `
		SELECT account_id, currency_code, balance, kind, status,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM wallets
		WHERE account_id = $1 AND currency_code = $2;
	`
	var wallet domain.Wallet
	err := r.Pool.QueryRow(ctx, query, accountID, currencyCode).Scan(
		&wallet.AccountID,
		&wallet.CurrencyCode,
		&wallet.Balance,
		&wallet.Kind,
		&wallet.Status,
		&wallet.CreatedAt,
		&wallet.CreatedBy,
		&wallet.LastUpdatedAt,
		&wallet.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find wallet for account "+accountID, err)
	}
	return &wallet, nil
}

// ListWalletsByAccount returns every wallet owned by the account.
func (r *PgxWalletRepository) ListWalletsByAccount(ctx context.Context, accountID string) ([]domain.Wallet, error) {
	query := `
		SELECT account_id, currency_code, balance, kind, status,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM wallets
		WHERE account_id = $1
		ORDER BY currency_code;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query wallets for account "+accountID, err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		var wallet domain.Wallet
		if err := rows.Scan(
			&wallet.AccountID,
			&wallet.CurrencyCode,
			&wallet.Balance,
			&wallet.Kind,
			&wallet.Status,
			&wallet.CreatedAt,
			&wallet.CreatedBy,
			&wallet.LastUpdatedAt,
			&wallet.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan wallet row for account "+accountID, err)
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating wallet rows for account "+accountID, err)
	}
	return wallets, nil
}

// EnsureWallet creates the wallet lazily if it does not exist yet.
// Creating an existing wallet is a no-op.
func (r *PgxWalletRepository) EnsureWallet(ctx context.Context, accountID, currencyCode string, kind domain.WalletKind, createdBy string, at time.Time) error {
	query := `
		INSERT INTO wallets (
			account_id, currency_code, balance, kind, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (account_id, currency_code) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, query,
		accountID,
		currencyCode,
		decimal.Zero,
		kind,
		domain.WalletActive,
		at,
		createdBy,
		at,
		createdBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to ensure wallet for account "+accountID, err)
	}
	return nil
}

// ApplyBalanceChanges applies all changes atomically or none of them,
// within its own database transaction.
func (r *PgxWalletRepository) ApplyBalanceChanges(ctx context.Context, changes []domain.BalanceChange, updatedBy string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.applyBalanceChangesInTx(ctx, tx, changes, updatedBy, at); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// applyBalanceChangesInTx locks the touched wallet rows in a fixed global
// order (account id, then currency) and applies every change, enforcing the
// account-lock, wallet-frozen and non-negative-balance gates. Other
// repositories reuse it so an insert and its balance movement share one
// database transaction.
func (r *PgxWalletRepository) applyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes []domain.BalanceChange, updatedBy string, at time.Time) error {
	ordered := make([]domain.BalanceChange, len(changes))
	copy(ordered, changes)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].AccountID != ordered[j].AccountID {
			return ordered[i].AccountID < ordered[j].AccountID
		}
		return ordered[i].CurrencyCode < ordered[j].CurrencyCode
	})

	lockQuery := `
		SELECT w.balance, w.status, a.status
		FROM wallets w
		JOIN accounts a ON a.account_id = w.account_id
		WHERE w.account_id = $1 AND w.currency_code = $2
		FOR UPDATE OF w;
	`
	updateQuery := `
		UPDATE wallets
		SET balance = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE account_id = $1 AND currency_code = $2;
	`

	for _, change := range ordered {
		var balance decimal.Decimal
		var walletStatus domain.WalletStatus
		var accountStatus domain.AccountStatus

		err := tx.QueryRow(ctx, lockQuery, change.AccountID, change.CurrencyCode).Scan(&balance, &walletStatus, &accountStatus)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return apperrors.NewAppError(500, "failed to lock wallet for account "+change.AccountID, err)
		}

		if accountStatus == domain.AccountLocked && !change.AllowLockedAccount {
			return apperrors.ErrAccountLocked
		}
		if walletStatus != domain.WalletActive {
			return apperrors.ErrWalletFrozen
		}
		next := balance.Add(change.Delta)
		if next.IsNegative() {
			return apperrors.ErrInsufficientFunds
		}

		if _, err := tx.Exec(ctx, updateQuery, change.AccountID, change.CurrencyCode, next, at, updatedBy); err != nil {
			return apperrors.NewAppError(500, "failed to update balance for account "+change.AccountID, err)
		}
	}
	return nil
}

// UpdateWalletStatusForAccount writes the status of every wallet owned by
// the account at once. Idempotent.
func (r *PgxWalletRepository) UpdateWalletStatusForAccount(ctx context.Context, accountID string, status domain.WalletStatus, updatedBy string, at time.Time) error {
	query := `
		UPDATE wallets
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE account_id = $1;
	`
	if _, err := r.Pool.Exec(ctx, query, accountID, status, at, updatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to update wallet status for account "+accountID, err)
	}
	return nil
}
