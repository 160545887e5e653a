package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermawan/storefront/internal/cart"
	"github.com/dermawan/storefront/internal/errs"
)

func testOrder(status Status) *Order {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &Order{
		ID:     "ord-1",
		Number: "ORD-1",
		UserID: "user-1",
		Items: []cart.Line{
			{ItemID: "item-1", Name: "Mug", Quantity: 2, UnitPrice: decimal.NewFromInt(8500)},
		},
		Total:         decimal.NewFromInt(17000),
		Status:        status,
		PaymentMethod: "cod",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// allowedByTable mirrors the authorization table: customer cancels own
// pending orders, manager drives fulfilment, admin may set anything from a
// non-terminal status. Kept independent of the production map on purpose.
func allowedByTable(role Role, from, to Status) bool {
	if from.Terminal() {
		return false
	}
	switch role {
	case RoleCustomer:
		return from == StatusPendingPayment && to == StatusCancelled
	case RoleManager:
		switch to {
		case StatusProcessing, StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCancelled:
			return true
		}
		return false
	case RoleAdmin:
		return true
	}
	return false
}

func TestTransitionExhaustive(t *testing.T) {
	for _, role := range []Role{RoleCustomer, RoleManager, RoleAdmin} {
		for _, from := range AllStatuses {
			for _, to := range AllStatuses {
				o := testOrder(from)
				got, changed, err := Transition(o, role, "user-1", to)

				if to == from {
					require.NoError(t, err, "%s %s->%s: no-op must succeed", role, from, to)
					assert.False(t, changed)
					assert.Equal(t, o, got)
					continue
				}
				if allowedByTable(role, from, to) {
					require.NoError(t, err, "%s %s->%s", role, from, to)
					assert.True(t, changed)
					assert.Equal(t, to, got.Status)
					continue
				}

				require.Error(t, err, "%s %s->%s must be rejected", role, from, to)
				if from.Terminal() && role != RoleAdmin {
					assert.True(t, errs.IsSelfAction(err), "%s %s->%s: got %v", role, from, to, err)
				} else {
					assert.True(t, errs.IsUnauthorized(err), "%s %s->%s: got %v", role, from, to, err)
				}
				assert.Equal(t, from, o.Status, "failed transition must not touch the order")
			}
		}
	}
}

func TestTransitionCustomerCannotCancelShipped(t *testing.T) {
	o := testOrder(StatusShipped)
	_, _, err := Transition(o, RoleCustomer, "user-1", StatusCancelled)
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
	assert.Equal(t, StatusShipped, o.Status)
}

func TestTransitionManagerShipsProcessingOrder(t *testing.T) {
	o := testOrder(StatusProcessing)
	got, changed, err := Transition(o, RoleManager, "mgr-1", StatusShipped)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusShipped, got.Status)
	assert.True(t, got.UpdatedAt.After(o.UpdatedAt), "updatedAt must advance")
	assert.Equal(t, o.CreatedAt, got.CreatedAt)
}

func TestTransitionAdminCannotReopenTerminal(t *testing.T) {
	for _, from := range []Status{StatusCancelled, StatusRefunded, StatusDelivered} {
		o := testOrder(from)
		_, _, err := Transition(o, RoleAdmin, "admin-1", StatusPaid)
		require.Error(t, err, "from %s", from)
		assert.True(t, errs.IsUnauthorized(err))
	}
}

func TestTransitionAdminOverrideFromNonTerminal(t *testing.T) {
	// Admin may jump anywhere as long as the source is live, including
	// straight to a terminal status.
	o := testOrder(StatusOutForDelivery)
	got, changed, err := Transition(o, RoleAdmin, "admin-1", StatusRefunded)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusRefunded, got.Status)
}

func TestTransitionForeignCustomer(t *testing.T) {
	o := testOrder(StatusPendingPayment)
	_, _, err := Transition(o, RoleCustomer, "somebody-else", StatusCancelled)
	require.Error(t, err)
	assert.True(t, errs.IsSelfAction(err))
}

func TestTransitionGuestOrderNotCustomerActionable(t *testing.T) {
	o := testOrder(StatusPendingPayment)
	o.UserID = GuestUserID
	_, _, err := Transition(o, RoleCustomer, GuestUserID, StatusCancelled)
	require.Error(t, err)
	assert.True(t, errs.IsSelfAction(err))
}

func TestTransitionRejectsUnknownInput(t *testing.T) {
	o := testOrder(StatusPaid)
	_, _, err := Transition(o, RoleManager, "mgr-1", Status("LOST"))
	assert.True(t, errs.IsValidation(err))

	_, _, err = Transition(o, Role("auditor"), "x", StatusProcessing)
	assert.True(t, errs.IsValidation(err))
}

func TestInvoiceable(t *testing.T) {
	want := map[Status]bool{
		StatusPendingPayment: false,
		StatusPaid:           true,
		StatusProcessing:     false,
		StatusShipped:        true,
		StatusOutForDelivery: true,
		StatusDelivered:      true,
		StatusCancelled:      false,
		StatusRefunded:       false,
	}
	require.Len(t, want, len(AllStatuses))
	for st, eligible := range want {
		assert.Equal(t, eligible, Invoiceable(testOrder(st)), "status %s", st)
	}
}

func TestFilterInvoiceable(t *testing.T) {
	var list []Order
	for _, st := range AllStatuses {
		list = append(list, *testOrder(st))
	}
	got := FilterInvoiceable(list)
	require.Len(t, got, 4)
	for _, o := range got {
		assert.True(t, Invoiceable(&o))
	}
	// Input untouched.
	assert.Len(t, list, len(AllStatuses))
}
