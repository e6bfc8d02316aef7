package repositories

// Container aggregates every repository the service layer depends on, so
// wiring code can hand over one value instead of five.
type Container struct {
	Accounts     AccountRepository
	Wallets      WalletRepository
	Transactions TransactionRepository
	Transfers    TransferRepository
	PendingFunds PendingFundRepository
}
