package orders

// Status is the closed set of order lifecycle states.
type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusProcessing     Status = "PROCESSING"
	StatusShipped        Status = "SHIPPED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
	StatusRefunded       Status = "REFUNDED"
)

// AllStatuses in lifecycle order. Delivered, Cancelled and Refunded are
// terminal.
var AllStatuses = []Status{
	StatusPendingPayment,
	StatusPaid,
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
	StatusRefunded,
}

func (s Status) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusProcessing, StatusShipped,
		StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Role of the actor requesting a transition. The engine does not
// authenticate; the caller supplies a trusted role/id pair.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

func (r Role) Staff() bool { return r == RoleManager || r == RoleAdmin }

// managerTargets is the set of statuses a manager may set. Customers may only
// cancel, and only while the order still awaits payment. Admin may set any
// status. Nobody moves an order out of a terminal status.
var managerTargets = map[Status]bool{
	StatusProcessing:     true,
	StatusShipped:        true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
	StatusCancelled:      true,
}

func allowed(role Role, from, to Status) bool {
	switch role {
	case RoleCustomer:
		return to == StatusCancelled && from == StatusPendingPayment
	case RoleManager:
		return managerTargets[to]
	case RoleAdmin:
		return true
	}
	return false
}
