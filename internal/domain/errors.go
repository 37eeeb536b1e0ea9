package domain

import "errors"

var (
	// ErrInvalidArgument is returned when an amount is not positive or an
	// initial balance is negative. Always detected before any mutation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientFunds is returned when a debit would break the
	// non-negative or the minimum balance rule.
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrAccountNotFound = errors.New("account not found")
	ErrSameAccount     = errors.New("source and destination account are the same")
	ErrRateNotFound    = errors.New("exchange rate not found")
)
