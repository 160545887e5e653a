package orders

import (
	"time"

	"github.com/dermawan/storefront/internal/errs"
)

// Transition validates and applies a status change, returning an updated
// copy. The input order is never touched, so a failed transition leaves no
// partial write (UpdatedAt included). Requesting the current status is a
// retry-safe no-op: the order comes back unchanged with changed=false.
//
// This is the only code allowed to change Order.Status; every surface routes
// through it instead of writing the field directly.
func Transition(o *Order, role Role, actorID string, next Status) (out *Order, changed bool, err error) {
	if !next.Valid() {
		return nil, false, errs.Validation("status", "unknown status "+string(next))
	}
	if !role.Valid() {
		return nil, false, errs.Validation("role", "unknown role "+string(role))
	}
	if role == RoleCustomer && !o.OwnedBy(actorID) {
		return nil, false, &errs.SelfActionError{ActorID: actorID, OrderID: o.ID, Reason: "order belongs to another customer"}
	}

	if next == o.Status {
		return o, false, nil
	}

	if o.Status.Terminal() {
		if role != RoleAdmin {
			return nil, false, &errs.SelfActionError{ActorID: actorID, OrderID: o.ID, Reason: "order is in terminal status " + string(o.Status)}
		}
		// Terminal states are immutable for admin too; the override only
		// covers non-terminal sources.
		return nil, false, &errs.UnauthorizedTransitionError{Role: string(role), From: string(o.Status), To: string(next)}
	}

	if !allowed(role, o.Status, next) {
		return nil, false, &errs.UnauthorizedTransitionError{Role: string(role), From: string(o.Status), To: string(next)}
	}

	updated := *o
	updated.Status = next
	updated.UpdatedAt = time.Now().UTC()
	return &updated, true, nil
}

// Invoiceable reports whether the order may be presented as an invoice.
// Pending, cancelled and refunded orders never are.
func Invoiceable(o *Order) bool {
	switch o.Status {
	case StatusPaid, StatusShipped, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}

// FilterInvoiceable projects the order list onto its invoice-eligible subset.
// Pure; input order preserved.
func FilterInvoiceable(list []Order) []Order {
	out := make([]Order, 0, len(list))
	for _, o := range list {
		if Invoiceable(&o) {
			out = append(out, o)
		}
	}
	return out
}
