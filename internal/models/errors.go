package models

import "errors"

var (
	// ErrInvalidAmount indicates a zero or negative amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds indicates a debit that would overdraw the account.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnknownRecipient indicates a transfer to a display name that does not resolve.
	ErrUnknownRecipient = errors.New("unknown recipient")
	// ErrSelfTransfer indicates a transfer from an account to itself.
	ErrSelfTransfer = errors.New("self transfer not allowed")
	// ErrInvalidName indicates a registration with an empty display name.
	ErrInvalidName = errors.New("display name must not be empty")
	// ErrDuplicateName indicates a registration with a display name already in use.
	ErrDuplicateName = errors.New("display name already taken")
	// ErrAccountNotFound indicates an unknown account id.
	ErrAccountNotFound = errors.New("account not found")
	// ErrStorageUnavailable wraps storage-layer I/O failures. The atomic
	// unit that hit the failure is rolled back before it surfaces.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
