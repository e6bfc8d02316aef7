package services

import (
	portsrepo "github.com/brixal/wallet-backend/internal/core/ports/repositories"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
)

// Container aggregates the core services so wiring code can construct the
// whole graph in one place.
type Container struct {
	Ledger         portssvc.LedgerSvcFacade
	Transfers      portssvc.TransferSvcFacade
	Approvals      portssvc.ApprovalSvcFacade
	PendingFunds   portssvc.PendingFundSvcFacade
	AccountControl portssvc.AccountControlSvcFacade
}

// NewContainer wires every core service against the given repositories,
// rate limiter and notifier.
func NewContainer(repos portsrepo.Container, limiter portssvc.TransferRateLimiter, notifier portssvc.Notifier) *Container {
	ledger := NewLedgerService(repos.Accounts, repos.Wallets)
	return &Container{
		Ledger:         ledger,
		Transfers:      NewTransferService(repos.Accounts, repos.Wallets, repos.Transfers, ledger, limiter, notifier),
		Approvals:      NewApprovalService(repos.Accounts, repos.Transactions, notifier),
		PendingFunds:   NewPendingFundService(repos.Accounts, repos.Wallets, repos.PendingFunds, notifier),
		AccountControl: NewAccountControlService(repos.Accounts, repos.Wallets, notifier),
	}
}
