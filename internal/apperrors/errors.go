package apperrors

import (
	"errors"
	"fmt"
)

// Validation errors: rejected before any state is touched, safe to retry
// after correcting input.
var (
	// ErrInvalidAmount indicates a zero, negative or otherwise unusable amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrRecipientNotFound indicates the destination handle resolved to no account.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrSelfTransfer indicates the sender addressed their own handle.
	ErrSelfTransfer = errors.New("self transfer rejected")

	// ErrValidation indicates that input data failed validation checks.
	ErrValidation = errors.New("validation error")
)

// Policy errors: rejected by design and surfaced verbatim. Only
// ErrRateLimited is meaningfully retryable, after the window slides.
var (
	// ErrRateLimited indicates the sender exceeded the transfer-initiation window.
	ErrRateLimited = errors.New("rate limited")

	// ErrWalletFrozen indicates the wallet refuses debits and credits.
	ErrWalletFrozen = errors.New("wallet frozen")

	// ErrAccountLocked indicates the owning account refuses action initiation.
	ErrAccountLocked = errors.New("account locked")

	// ErrUnauthorized indicates the caller lacks the required capability.
	ErrUnauthorized = errors.New("unauthorized")
)

// Consistency errors: the requested state transition is no longer valid.
// Never coerced silently; callers must refresh state.
var (
	// ErrInsufficientFunds indicates a debit would take the balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadyClaimed indicates the pending fund was claimed earlier.
	ErrAlreadyClaimed = errors.New("pending fund already claimed")

	// ErrExpired indicates the pending fund was reverted by the expiry sweep.
	ErrExpired = errors.New("pending fund expired")

	// ErrNotPending indicates the transaction is already terminal.
	ErrNotPending = errors.New("transaction is not pending")
)

var (
	// ErrNotFound indicates that a requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicate indicates an attempt to create a resource that already exists.
	ErrDuplicate = errors.New("resource already exists")

	// ErrInternal indicates an unexpected failure that should not reach callers verbatim.
	ErrInternal = errors.New("internal error")
)

// AppError carries a status code alongside a message and wrapped cause.
// Repositories use it for infrastructure-level failures (begin/commit/etc.).
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
