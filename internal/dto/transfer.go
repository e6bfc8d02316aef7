package dto

import (
	"time"

	"github.com/brixal/wallet-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransferRequest is the payload for initiating a peer-to-peer transfer.
type CreateTransferRequest struct {
	ToHandle     string          `json:"toHandle" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,min=3,max=10"`
	Message      string          `json:"message" binding:"omitempty,max=280"`
}

// TransferResponse is the API representation of a transfer request record.
type TransferResponse struct {
	TransferID    string          `json:"transferID"`
	FromAccountID string          `json:"fromAccountID"`
	ToAccountID   string          `json:"toAccountID"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	Message       string          `json:"message,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	ResolvedAt    time.Time       `json:"resolvedAt"`
}

// ToTransferResponse maps a domain transfer request to its API shape.
func ToTransferResponse(t *domain.TransferRequest) TransferResponse {
	return TransferResponse{
		TransferID:    t.TransferID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		CurrencyCode:  t.CurrencyCode,
		Message:       t.Message,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		ResolvedAt:    t.ResolvedAt,
	}
}

// ToTransferResponses maps a slice of domain transfer requests.
func ToTransferResponses(transfers []domain.TransferRequest) []TransferResponse {
	out := make([]TransferResponse, len(transfers))
	for i := range transfers {
		out[i] = ToTransferResponse(&transfers[i])
	}
	return out
}
