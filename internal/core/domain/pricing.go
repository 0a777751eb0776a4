package domain

// TierSpec is one row of a bulk-discount schedule: buy Quantity units, get
// DiscountPercent off the unit price.
type TierSpec struct {
	Quantity        int
	DiscountPercent int
}

// StandardSchedule applies to fixed-supply products.
var StandardSchedule = []TierSpec{
	{Quantity: 1, DiscountPercent: 0},
	{Quantity: 5, DiscountPercent: 5},
	{Quantity: 10, DiscountPercent: 10},
	{Quantity: 25, DiscountPercent: 15},
}

// CustomSchedule applies to made-to-order products, which discount far more
// aggressively at volume.
var CustomSchedule = []TierSpec{
	{Quantity: 1, DiscountPercent: 0},
	{Quantity: 2, DiscountPercent: 25},
	{Quantity: 5, DiscountPercent: 35},
	{Quantity: 10, DiscountPercent: 50},
}

// Tier is a computed price point for a quantity threshold. Tiers are derived,
// never stored; the JSON tags are the client-facing names.
type Tier struct {
	Quantity        int   `json:"quantity"`
	UnitPriceCents  int64 `json:"unitPriceCents"`
	TotalPriceCents int64 `json:"totalPriceCents"`
	DiscountPercent int   `json:"discountPercent"`
}
