package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dermawan/storefront/internal/errs"
	"github.com/dermawan/storefront/internal/pricing"
)

// Item is a sellable product record. Created and edited by admin/manager,
// read-only to customers.
type Item struct {
	ID        string            `json:"id"`
	SKU       string            `json:"sku"`
	Name      string            `json:"name"`
	BasePrice decimal.Decimal   `json:"base_price"`
	IsOnSale  bool              `json:"is_on_sale"`
	Discount  *pricing.Discount `json:"discount,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (it *Item) Validate() error {
	if it.Name == "" {
		return errs.Validation("name", "must not be blank")
	}
	if it.BasePrice.IsNegative() {
		return errs.Validation("base_price", "must not be negative")
	}
	if it.IsOnSale {
		if it.Discount == nil {
			return errs.Validation("discount", "required when item is on sale")
		}
		if !it.Discount.Value.IsPositive() {
			return errs.Validation("discount", "value must be > 0")
		}
	}
	if d := it.Discount; d != nil {
		switch d.Type {
		case pricing.DiscountPercentage:
			one := decimal.NewFromInt(1)
			hundred := decimal.NewFromInt(100)
			if d.Value.LessThan(one) || d.Value.GreaterThan(hundred) {
				return errs.Validation("discount", "percentage must lie in [1,100]")
			}
		case pricing.DiscountFixedAmount:
			if d.Value.IsNegative() {
				return errs.Validation("discount", "fixed amount must not be negative")
			}
		default:
			return errs.Validation("discount", "unknown type "+string(d.Type))
		}
	}
	return nil
}

// ActiveDiscount returns the descriptor the pricing calculator should see:
// nil unless the item is currently flagged on sale.
func (it *Item) ActiveDiscount() *pricing.Discount {
	if !it.IsOnSale {
		return nil
	}
	return it.Discount
}
