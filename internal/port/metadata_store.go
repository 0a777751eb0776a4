package port

import (
	"context"

	"github.com/mintdrop/inventory/internal/core/domain"
)

// MetadataStore wraps the remote catalog's retrieve/update operations. The
// store offers no transactions, no locks and no conditional writes: Update is
// a whole-record overwrite, which is why the ledger layers an optimistic
// protocol on top instead of relying on the store.
type MetadataStore interface {
	// Retrieve fetches the product record, (nil, nil) when absent.
	Retrieve(ctx context.Context, productID string) (*domain.Product, error)

	// Update overwrites the full metadata record unconditionally.
	Update(ctx context.Context, productID string, product *domain.Product) error
}
