package orders

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dermawan/storefront/internal/cart"
	"github.com/dermawan/storefront/internal/errs"
)

// New builds an immutable order from checkout input. The total is recomputed
// here from the lines, never trusted from a client-supplied figure. The
// initial status is always PENDING_PAYMENT regardless of payment method;
// payment confirmation is a later, explicit transition.
func New(userID string, customer CustomerInfo, lines []cart.Line, paymentMethod, notes string) (*Order, error) {
	if len(lines) == 0 {
		return nil, errs.ErrEmptyCart
	}
	if strings.TrimSpace(customer.Name) == "" {
		return nil, errs.Validation("customer.name", "must not be blank")
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return nil, errs.Validation("customer.phone", "must not be blank")
	}
	if customer.Email != "" {
		if _, err := mail.ParseAddress(customer.Email); err != nil {
			return nil, errs.Validation("customer.email", "not a valid address")
		}
	}
	if paymentMethod == "" {
		return nil, errs.Validation("payment_method", "must not be blank")
	}
	if userID == "" {
		userID = GuestUserID
	}

	total := decimal.Zero
	items := make([]cart.Line, len(lines))
	copy(items, lines)
	for _, ln := range items {
		if ln.Quantity < 1 {
			return nil, errs.Validation("quantity", "must be at least 1")
		}
		total = total.Add(ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}

	now := time.Now().UTC()
	return &Order{
		ID:            uuid.NewString(),
		Number:        newOrderNumber(now),
		UserID:        userID,
		Customer:      customer,
		Items:         items,
		Total:         total,
		Status:        StatusPendingPayment,
		PaymentMethod: paymentMethod,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// newOrderNumber: human-readable, collision-free at storefront volumes
// (millisecond timestamp plus a random suffix).
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}
