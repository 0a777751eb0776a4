package domain

import "time"

// SaleRecord is the advisory audit entry written to the journal after an
// accepted decrement. Losing one never affects inventory correctness.
type SaleRecord struct {
	ID               string
	ProductID        string
	Amount           int
	PreviousQuantity int
	NewQuantity      int
	Version          int
	RequestID        string
	CreatedAt        time.Time
}
