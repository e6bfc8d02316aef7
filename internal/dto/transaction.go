package dto

import (
	"time"

	"github.com/brixal/wallet-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the payload for staging an externally-bound
// transaction (withdrawal or crypto payout).
type CreateTransactionRequest struct {
	Type         string          `json:"type" binding:"required,oneof=WITHDRAWAL CRYPTO_WITHDRAWAL"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,min=3,max=10"`
	Destination  string          `json:"destination" binding:"required,max=512"`
	NetworkFee   decimal.Decimal `json:"networkFee"`
}

// TransactionResponse is the API representation of a transaction record.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	NetworkFee    decimal.Decimal `json:"networkFee"`
	Destination   string          `json:"destination,omitempty"`
	RiskScore     int             `json:"riskScore"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	ResolvedAt    *time.Time      `json:"resolvedAt,omitempty"`
}

// ToTransactionResponse maps a domain transaction to its API shape.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		AccountID:     t.AccountID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		CurrencyCode:  t.CurrencyCode,
		NetworkFee:    t.NetworkFee,
		Destination:   t.Destination,
		RiskScore:     t.RiskScore,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		ResolvedAt:    t.ResolvedAt,
	}
}

// ToTransactionResponses maps a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
