package domain

import "time"

// Catalog product ids. The catalog is a small fixed set; anything else is
// rejected at the edge.
const (
	ProductLimitedCard = "limited-edition-card"
	ProductDisplayCase = "display-case"
	ProductCustomCard  = "custom-card"
)

// Product is the metadata blob stored per catalog entry. Quantity and Version
// together form the optimistic-concurrency state; everything else is
// presentation or advisory audit data.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images,omitempty"`

	UnitPriceCents int64 `json:"unit_price_cents"`

	// Limited products track a finite remaining quantity. Unlimited products
	// (made to order) carry no sellable-unit count and cannot be decremented.
	Limited  bool `json:"limited"`
	Quantity int  `json:"quantity"`

	// Version increments by exactly 1 on every accepted write. A write whose
	// read-back version differs from the writer's expectation did not apply
	// atomically and must be treated as unverified.
	Version int `json:"version"`

	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	LastDecrementBy int       `json:"last_decrement_by,omitempty"`
}

// Defaults describes the record created for a product on first access.
type Defaults struct {
	Name           string
	Description    string
	UnitPriceCents int64
	Limited        bool
	Quantity       int
	Schedule       []TierSpec
}

// Catalog enumerates the defaults for every product id. Bootstrap and the
// pricing engine read from this table rather than scattering literals through
// handlers.
var Catalog = map[string]Defaults{
	ProductLimitedCard: {
		Name:           "Limited Edition Card",
		Description:    "Numbered first-run print, fixed supply.",
		UnitPriceCents: 4900,
		Limited:        true,
		Quantity:       100,
		Schedule:       StandardSchedule,
	},
	ProductDisplayCase: {
		Name:           "Display Case",
		Description:    "Acrylic display case, fixed supply.",
		UnitPriceCents: 2900,
		Limited:        true,
		Quantity:       50,
		Schedule:       StandardSchedule,
	},
	ProductCustomCard: {
		Name:           "Custom Card",
		Description:    "Made to order, not supply limited.",
		UnitPriceCents: 9900,
		Limited:        false,
		Quantity:       0,
		Schedule:       CustomSchedule,
	},
}

// KnownProduct reports whether id is part of the fixed catalog.
func KnownProduct(id string) bool {
	_, ok := Catalog[id]
	return ok
}

// NewProduct builds the initial record for a product id from the catalog
// table. Version starts at 1.
func NewProduct(id string, now time.Time) Product {
	d := Catalog[id]
	return Product{
		ID:             id,
		Name:           d.Name,
		Description:    d.Description,
		UnitPriceCents: d.UnitPriceCents,
		Limited:        d.Limited,
		Quantity:       d.Quantity,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
