package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingFund is a credit not yet applied to the recipient's spendable
// balance. It resolves exactly once: either the recipient claims it before
// expiry (wallet credited with amount minus fee, fee consumed) or the sweep
// reverts the full amount to the original sender with no fee charged.
type PendingFund struct {
	PendingFundID      string          `json:"pendingFundID"` // Primary Key (UUID)
	RecipientAccountID string          `json:"recipientAccountID"`
	SenderAccountID    string          `json:"senderAccountID"` // Revert target on expiry
	Amount             decimal.Decimal `json:"amount"`
	CurrencyCode       string          `json:"currencyCode"`
	NetworkFee         decimal.Decimal `json:"networkFee"` // Charged on claim only
	ExpiresAt          time.Time       `json:"expiresAt"`
	Claimed            bool            `json:"claimed"`
	Expired            bool            `json:"expired"` // Set by the sweep, mutually exclusive with Claimed
	CreatedAt          time.Time       `json:"createdAt"`
}

// Resolved reports whether the fund has reached its terminal state.
func (p *PendingFund) Resolved() bool {
	return p.Claimed || p.Expired
}
