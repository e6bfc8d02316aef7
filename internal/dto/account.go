package dto

import (
	"github.com/brixal/wallet-backend/internal/core/domain"
)

// CreateAccountRequest is the admin payload for provisioning an account.
// The public handle is generated server-side.
type CreateAccountRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=1,max=100"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID   string `json:"accountID"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status"`
}

// ToAccountResponse maps a domain account to its API shape. The role is
// deliberately not exposed.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Handle:      a.Handle,
		DisplayName: a.DisplayName,
		Status:      string(a.Status),
	}
}
