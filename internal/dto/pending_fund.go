package dto

import (
	"time"

	"github.com/brixal/wallet-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StagePendingFundRequest is the payload for staging a claimable credit.
// TTLSeconds bounds how long the recipient has before the sweep reverts the
// amount to the sender.
type StagePendingFundRequest struct {
	RecipientAccountID string          `json:"recipientAccountID" binding:"required,uuid"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode       string          `json:"currencyCode" binding:"required,min=3,max=10"`
	NetworkFee         decimal.Decimal `json:"networkFee"`
	TTLSeconds         int64           `json:"ttlSeconds" binding:"required,min=1"`
}

// PendingFundResponse is the API representation of a pending fund.
type PendingFundResponse struct {
	PendingFundID      string          `json:"pendingFundID"`
	RecipientAccountID string          `json:"recipientAccountID"`
	SenderAccountID    string          `json:"senderAccountID"`
	Amount             decimal.Decimal `json:"amount"`
	CurrencyCode       string          `json:"currencyCode"`
	NetworkFee         decimal.Decimal `json:"networkFee"`
	ExpiresAt          time.Time       `json:"expiresAt"`
	Claimed            bool            `json:"claimed"`
	Expired            bool            `json:"expired"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ToPendingFundResponse maps a domain pending fund to its API shape.
func ToPendingFundResponse(p *domain.PendingFund) PendingFundResponse {
	return PendingFundResponse{
		PendingFundID:      p.PendingFundID,
		RecipientAccountID: p.RecipientAccountID,
		SenderAccountID:    p.SenderAccountID,
		Amount:             p.Amount,
		CurrencyCode:       p.CurrencyCode,
		NetworkFee:         p.NetworkFee,
		ExpiresAt:          p.ExpiresAt,
		Claimed:            p.Claimed,
		Expired:            p.Expired,
		CreatedAt:          p.CreatedAt,
	}
}
