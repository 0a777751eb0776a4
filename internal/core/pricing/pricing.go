// Package pricing computes bulk-discount tiers. It is pure: no state, no I/O.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mintdrop/inventory/internal/core/domain"
)

var oneHundred = decimal.NewFromInt(100)

// Tiers expands a discount schedule against a base unit price. Rounding is
// floor at each step: the discounted unit price is floored to whole cents
// before being multiplied out, so tiers(4900) at 5% off yields 4655/unit and
// 23275 for five, not 23275.25 rounded elsewhere.
func Tiers(basePriceCents int64, schedule []domain.TierSpec) []domain.Tier {
	tiers := make([]domain.Tier, 0, len(schedule))
	for _, spec := range schedule {
		unit := discountedUnitPrice(basePriceCents, spec.DiscountPercent)
		tiers = append(tiers, domain.Tier{
			Quantity:        spec.Quantity,
			UnitPriceCents:  unit,
			TotalPriceCents: unit * int64(spec.Quantity),
			DiscountPercent: spec.DiscountPercent,
		})
	}
	return tiers
}

func discountedUnitPrice(basePriceCents int64, discountPercent int) int64 {
	if discountPercent == 0 {
		return basePriceCents
	}
	factor := oneHundred.Sub(decimal.NewFromInt(int64(discountPercent))).Div(oneHundred)
	return decimal.NewFromInt(basePriceCents).Mul(factor).Floor().IntPart()
}
