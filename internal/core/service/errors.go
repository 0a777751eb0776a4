package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownProduct   = errors.New("unknown product")
	ErrUnlimitedProduct = errors.New("product is not supply limited")
	ErrInvalidAmount    = errors.New("decrement amount must be positive")
	ErrInvalidQuantity  = errors.New("quantity must not be negative")
	ErrInvalidPrice     = errors.New("unit price must be positive")
)

// InsufficientInventoryError is a business-rule rejection: the requested
// amount exceeds what is available. Never retried.
type InsufficientInventoryError struct {
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory: %d available", e.Available)
}

// ConcurrencyExhaustedError means the optimistic protocol gave up: every
// attempt observed a conflicting write, or the deadline expired first. The
// whole operation is safe to retry later.
type ConcurrencyExhaustedError struct {
	Attempts int
}

func (e *ConcurrencyExhaustedError) Error() string {
	return fmt.Sprintf("concurrency exhausted after %d attempts", e.Attempts)
}
