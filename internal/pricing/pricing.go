// Package pricing derives a line item's effective unit price from a catalog
// base price and an optional discount descriptor. This is the only place in
// the engine where prices are rounded; callers must not re-round.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dermawan/storefront/internal/errs"
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

// Discount is the promotional descriptor attached to a catalog item.
// For percentage discounts Value is expected in [1,100]; the catalog
// validates that bound before the descriptor ever reaches this package.
type Discount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Price is the outcome of pricing one unit. OriginalUnitPrice is set only
// when a discount actually applied.
type Price struct {
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	OriginalUnitPrice *decimal.Decimal `json:"original_unit_price,omitempty"`
}

var (
	hundred = decimal.NewFromInt(100)
)

// ComputeEffectivePrice applies d to basePrice. A nil descriptor or a value
// <= 0 means no discount. Invalid input is rejected, never silently clamped;
// only the output of a valid computation is clamped to >= 0.
func ComputeEffectivePrice(basePrice decimal.Decimal, d *Discount) (Price, error) {
	if basePrice.IsNegative() {
		return Price{}, errs.Validation("base_price", "must not be negative")
	}
	if d == nil || !d.Value.IsPositive() {
		return Price{UnitPrice: basePrice}, nil
	}

	var unit decimal.Decimal
	switch d.Type {
	case DiscountPercentage:
		unit = round2(basePrice.Mul(hundred.Sub(d.Value)).Div(hundred))
	case DiscountFixedAmount:
		unit = round2(basePrice.Sub(d.Value))
	default:
		return Price{}, errs.Validation("discount_type", "unknown type "+string(d.Type))
	}
	if unit.IsNegative() {
		unit = decimal.Zero
	}

	orig := basePrice
	return Price{UnitPrice: unit, OriginalUnitPrice: &orig}, nil
}

// round2 rounds to 2 decimal places, half away from zero. Prices are never
// negative at this point so this is plain half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
