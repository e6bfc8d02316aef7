package pgsql

import (
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryContainer wires every pgx-backed repository over one pool.
func NewRepositoryContainer(dbPool *pgxpool.Pool) portsrepo.Container {
	accountRepo := newPgxAccountRepository(dbPool)
	walletRepo := newPgxWalletRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, walletRepo)
	transferRepo := newPgxTransferRepository(dbPool)
	pendingFundRepo := newPgxPendingFundRepository(dbPool, walletRepo)

	return portsrepo.Container{
		Accounts:     accountRepo,
		Wallets:      walletRepo,
		Transactions: transactionRepo,
		Transfers:    transferRepo,
		PendingFunds: pendingFundRepo,
	}
}
