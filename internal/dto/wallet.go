package dto

import (
	"github.com/brixal/wallet-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WalletResponse is the API representation of a wallet.
type WalletResponse struct {
	AccountID    string          `json:"accountID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	Kind         string          `json:"kind"`
	Status       string          `json:"status"`
}

// ToWalletResponse maps a domain wallet to its API shape.
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		AccountID:    w.AccountID,
		CurrencyCode: w.CurrencyCode,
		Balance:      w.Balance,
		Kind:         string(w.Kind),
		Status:       string(w.Status),
	}
}

// ToWalletResponses maps a slice of domain wallets.
func ToWalletResponses(wallets []domain.Wallet) []WalletResponse {
	out := make([]WalletResponse, len(wallets))
	for i := range wallets {
		out[i] = ToWalletResponse(&wallets[i])
	}
	return out
}
