package domain

import "github.com/shopspring/decimal"

// WalletStatus is the status of a single-currency wallet.
type WalletStatus string

const (
	WalletActive    WalletStatus = "ACTIVE"
	WalletFrozen    WalletStatus = "FROZEN"
	WalletSuspended WalletStatus = "SUSPENDED"
)

// WalletKind distinguishes fiat from crypto wallets.
type WalletKind string

const (
	WalletFiat   WalletKind = "FIAT"
	WalletCrypto WalletKind = "CRYPTO"
)

// Wallet is a single-currency balance owned by exactly one account, keyed by
// (account id, currency code). Wallets are created lazily on first need and
// never deleted. Invariant: Balance >= 0 at all times.
type Wallet struct {
	AccountID    string          `json:"accountID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	Kind         WalletKind      `json:"kind"`
	Status       WalletStatus    `json:"status"`
	AuditFields
}

// IsActive reports whether the wallet accepts debits and credits.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletActive
}

// BalanceChange describes one signed mutation of a wallet balance. A set of
// changes handed to the wallet repository is applied atomically: rows are
// locked in a fixed global order (account id, then currency) and either all
// changes commit or none do.
type BalanceChange struct {
	AccountID    string
	CurrencyCode string
	Delta        decimal.Decimal

	// AllowLockedAccount exempts this change from the account-lock gate.
	// Used for administrator-initiated reversals returning funds to a
	// locked account. The wallet-frozen gate is never bypassed.
	AllowLockedAccount bool
}

// KindForCurrency infers the wallet kind for a currency code. Three-letter
// ISO codes are fiat; everything else is treated as a crypto asset.
func KindForCurrency(currencyCode string) WalletKind {
	if len(currencyCode) == 3 {
		return WalletFiat
	}
	return WalletCrypto
}
