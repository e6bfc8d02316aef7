package domain

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountLocked    AccountStatus = "LOCKED"
	AccountSuspended AccountStatus = "SUSPENDED"
)

// AccountRole is the capability level of an account. Role provisioning is
// configuration, not something this service exposes an API for.
type AccountRole string

const (
	RoleUser  AccountRole = "USER"
	RoleAdmin AccountRole = "ADMIN"
)

// Account represents a user identity within the core domain.
// Accounts are never hard-deleted; lifecycle changes are status writes only.
type Account struct {
	AccountID   string        `json:"accountID"`   // Primary Key (UUID)
	Handle      string        `json:"handle"`      // Public shareable identifier, e.g. BRX12345678
	DisplayName string        `json:"displayName"` // User-facing name
	Status      AccountStatus `json:"status"`
	Role        AccountRole   `json:"role"`
	AuditFields
}

// IsLocked reports whether the account refuses action initiation.
func (a *Account) IsLocked() bool {
	return a.Status == AccountLocked
}

// IsAdmin reports whether the account carries the administrator capability.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
