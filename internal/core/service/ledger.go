package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mintdrop/inventory/internal/core/domain"
	"github.com/mintdrop/inventory/internal/obs"
	"github.com/mintdrop/inventory/internal/port"
)

// DecrementResult reports an accepted decrement. Attempt is 1-based: 1 means
// the first optimistic attempt went through unchallenged.
type DecrementResult struct {
	PreviousQuantity int
	NewQuantity      int
	Version          int
	Attempt          int
}

// Ledger owns the inventory state machine. The backing store only supports
// whole-record overwrite, so every quantity mutation goes through an
// optimistic read / write / verify cycle; conflicts are detected by comparing
// the read-back version against the writer's expectation and retried with
// exponential backoff.
//
// The verify step runs after the overwrite has already landed, so the
// protocol is weaker than a true compare-and-swap: it detects that some
// conflicting write interleaved, not which write won. Two writers that both
// overwrite before either reads back can each observe their own version as
// current. The residual risk is accepted and documented rather than hidden.
type Ledger struct {
	store       port.MetadataStore
	maxAttempts int
	baseBackoff time.Duration
	saleQueue   chan domain.SaleRecord
}

func NewLedger(store port.MetadataStore, maxAttempts int, baseBackoff time.Duration, queueSize int) *Ledger {
	return &Ledger{
		store:       store,
		maxAttempts: maxAttempts,
		baseBackoff: baseBackoff,
		saleQueue:   make(chan domain.SaleRecord, queueSize),
	}
}

// Ensure retrieves the product, creating it with catalog defaults on first
// access. Two concurrent first-requests may both create; the defaults are
// identical, so last writer wins and both callers proceed.
func (l *Ledger) Ensure(ctx context.Context, productID string) (*domain.Product, error) {
	if !domain.KnownProduct(productID) {
		return nil, ErrUnknownProduct
	}

	p, err := l.store.Retrieve(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("retrieve product: %w", err)
	}
	if p != nil {
		return p, nil
	}

	created := domain.NewProduct(productID, time.Now().UTC())
	if err := l.store.Update(ctx, productID, &created); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &created, nil
}

// Snapshot bootstraps and returns every catalog product.
func (l *Ledger) Snapshot(ctx context.Context) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(domain.Catalog))
	for id := range domain.Catalog {
		p, err := l.Ensure(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = p
	}
	return out, nil
}

// Decrement reduces the product quantity by amount using the optimistic
// protocol. Insufficiency and validation failures are terminal and never
// retried; only a version mismatch on verify consumes a retry attempt. Store
// I/O failures propagate immediately, since hammering an unavailable store
// with decrement backoff would only worsen contention.
func (l *Ledger) Decrement(ctx context.Context, requestID, productID string, amount int) (*DecrementResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	for attempt := 0; attempt < l.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, &ConcurrencyExhaustedError{Attempts: attempt}
		}

		current, err := l.Ensure(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !current.Limited {
			return nil, ErrUnlimitedProduct
		}
		if amount > current.Quantity {
			return nil, &InsufficientInventoryError{Available: current.Quantity}
		}

		next := *current
		next.Quantity = current.Quantity - amount
		next.Version = current.Version + 1
		next.UpdatedAt = time.Now().UTC()
		next.LastDecrementBy = amount

		if err := l.store.Update(ctx, productID, &next); err != nil {
			return nil, fmt.Errorf("write decrement: %w", err)
		}

		verified, err := l.store.Retrieve(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("verify decrement: %w", err)
		}
		if verified != nil && verified.Version == next.Version {
			l.enqueueSale(domain.SaleRecord{
				ID:               uuid.NewString(),
				ProductID:        productID,
				Amount:           amount,
				PreviousQuantity: current.Quantity,
				NewQuantity:      next.Quantity,
				Version:          next.Version,
				RequestID:        requestID,
				CreatedAt:        next.UpdatedAt,
			})
			return &DecrementResult{
				PreviousQuantity: current.Quantity,
				NewQuantity:      next.Quantity,
				Version:          next.Version,
				Attempt:          attempt + 1,
			}, nil
		}

		// Lost update: another writer interleaved. Back off, then restart
		// from a fresh read.
		if attempt == l.maxAttempts-1 {
			break
		}
		if err := sleepContext(ctx, backoffDelay(attempt, l.baseBackoff)); err != nil {
			return nil, &ConcurrencyExhaustedError{Attempts: attempt + 1}
		}
	}

	return nil, &ConcurrencyExhaustedError{Attempts: l.maxAttempts}
}

// AdminUpdate sets quantity and/or unit price directly, bypassing the
// sufficiency check but still bumping the version and verifying the write
// once. It does not retry: concurrent admin updates and decrements on the
// same product are serialized operationally, not by protocol.
func (l *Ledger) AdminUpdate(ctx context.Context, productID string, quantity *int, unitPriceCents *int64) (*domain.Product, error) {
	if quantity == nil && unitPriceCents == nil {
		return nil, ErrInvalidAmount
	}
	if quantity != nil && *quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPriceCents != nil && *unitPriceCents <= 0 {
		return nil, ErrInvalidPrice
	}

	current, err := l.Ensure(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity != nil && !current.Limited {
		return nil, ErrUnlimitedProduct
	}

	next := *current
	if quantity != nil {
		next.Quantity = *quantity
	}
	if unitPriceCents != nil {
		next.UnitPriceCents = *unitPriceCents
	}
	next.Version = current.Version + 1
	next.UpdatedAt = time.Now().UTC()

	if err := l.store.Update(ctx, productID, &next); err != nil {
		return nil, fmt.Errorf("write admin update: %w", err)
	}

	verified, err := l.store.Retrieve(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("verify admin update: %w", err)
	}
	if verified == nil || verified.Version != next.Version {
		return nil, &ConcurrencyExhaustedError{Attempts: 1}
	}
	return verified, nil
}

func (l *Ledger) enqueueSale(record domain.SaleRecord) {
	select {
	case l.saleQueue <- record:
	default:
		// The journal is advisory; dropping an entry must never block or
		// fail a sale.
		obs.Logger.Warn("sale journal queue full, dropping record",
			"product_id", record.ProductID, "request_id", record.RequestID)
	}
}

// GetSaleQueue exposes the journal queue for the worker pool.
func (l *Ledger) GetSaleQueue() <-chan domain.SaleRecord {
	return l.saleQueue
}

// Close closes the journal queue. Call after all in-flight decrements finish.
func (l *Ledger) Close() {
	close(l.saleQueue)
}
