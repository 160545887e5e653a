package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dermawan/storefront/internal/cart"
)

// GuestUserID marks orders checked out without an account.
const GuestUserID = "guest"

// CustomerInfo is the contact snapshot embedded in the order at checkout.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Order is created once at checkout. Items and the contact snapshot are
// frozen from then on; only Status and UpdatedAt ever change, and only
// through Transition. Cancellation is a status, never a deletion.
type Order struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	UserID        string          `json:"user_id"`
	Customer      CustomerInfo    `json:"customer"`
	Items         []cart.Line     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        Status          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OwnedBy reports whether userID owns this order.
func (o *Order) OwnedBy(userID string) bool {
	return o.UserID != GuestUserID && o.UserID == userID
}
