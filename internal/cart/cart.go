// Package cart holds per-session shopping carts and the pure operations over
// them. Prices on a line are frozen copies of what the pricing calculator
// produced at the time of the last add; repeat adds re-price against the
// current catalog discount state.
package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dermawan/storefront/internal/catalog"
	"github.com/dermawan/storefront/internal/errs"
	"github.com/dermawan/storefront/internal/pricing"
)

// Line is one product's quantity and effective price within a cart.
// OriginalUnitPrice is present only when the unit price was discounted.
type Line struct {
	ItemID            string           `json:"item_id"`
	Name              string           `json:"name"`
	Quantity          int              `json:"quantity"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	OriginalUnitPrice *decimal.Decimal `json:"original_unit_price,omitempty"`
}

type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddItem adds qty units of it to the cart. If the item is already present
// the line's quantity grows and its prices are recomputed from the item's
// current discount state, so a promotion that started or ended between two
// adds never leaves a stale or averaged price on the line.
func AddItem(c Cart, it *catalog.Item, qty int) (Cart, error) {
	if qty < 1 {
		return c, errs.Validation("quantity", "must be at least 1")
	}
	p, err := pricing.ComputeEffectivePrice(it.BasePrice, it.ActiveDiscount())
	if err != nil {
		return c, err
	}

	out := clone(c)
	for i := range out.Lines {
		if out.Lines[i].ItemID == it.ID {
			out.Lines[i].Quantity += qty
			out.Lines[i].Name = it.Name
			out.Lines[i].UnitPrice = p.UnitPrice
			out.Lines[i].OriginalUnitPrice = p.OriginalUnitPrice
			out.UpdatedAt = time.Now().UTC()
			return out, nil
		}
	}
	out.Lines = append(out.Lines, Line{
		ItemID:            it.ID,
		Name:              it.Name,
		Quantity:          qty,
		UnitPrice:         p.UnitPrice,
		OriginalUnitPrice: p.OriginalUnitPrice,
	})
	out.UpdatedAt = time.Now().UTC()
	return out, nil
}

// UpdateQuantity sets the line's quantity. Quantities below 1 are rejected;
// removal is an explicit RemoveItem call, uniformly at every call site.
func UpdateQuantity(c Cart, itemID string, qty int) (Cart, error) {
	if qty < 1 {
		return c, errs.Validation("quantity", "must be at least 1; use remove instead")
	}
	out := clone(c)
	for i := range out.Lines {
		if out.Lines[i].ItemID == itemID {
			out.Lines[i].Quantity = qty
			out.UpdatedAt = time.Now().UTC()
			return out, nil
		}
	}
	return c, errs.Validation("item_id", "not in cart")
}

func RemoveItem(c Cart, itemID string) Cart {
	out := Cart{SessionID: c.SessionID, UpdatedAt: time.Now().UTC()}
	for _, ln := range c.Lines {
		if ln.ItemID != itemID {
			out.Lines = append(out.Lines, ln)
		}
	}
	return out
}

func Clear(c Cart) Cart {
	return Cart{SessionID: c.SessionID, UpdatedAt: time.Now().UTC()}
}

// Total sums unitPrice * quantity across lines. No rounding here; each unit
// price was already rounded by the pricing calculator.
func Total(c Cart) decimal.Decimal {
	total := decimal.Zero
	for _, ln := range c.Lines {
		total = total.Add(ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return total
}

func clone(c Cart) Cart {
	out := c
	out.Lines = make([]Line, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
