package port

import (
	"context"

	"github.com/mintdrop/inventory/internal/core/domain"
)

// SaleJournal persists advisory audit entries for accepted decrements.
type SaleJournal interface {
	RecordSale(ctx context.Context, record domain.SaleRecord) error
}
