// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrDuplicateIdentity  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrCorruptStore       = errors.New("corrupt record store")
	ErrIOFailure          = errors.New("storage i/o failure")
	ErrBusy               = errors.New("store busy")
)

// IsError reports whether err matches target in its chain.
// Thin wrapper over errors.Is so handlers can map error kinds uniformly.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
