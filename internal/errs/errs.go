// Package errs defines the engine-wide error taxonomy. Every error here is
// scoped to a single operation; none of them leaves prior state modified.
package errs

import (
	"errors"
	"fmt"
)

// ErrEmptyCart: checkout attempted with no items. User-correctable.
var ErrEmptyCart = errors.New("cart has no items")

// ValidationError: malformed input to pricing, cart or order creation.
// Fix the input, do not retry as-is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UnauthorizedTransitionError: the (role, from, to) combination is not in the
// transition table. Not retryable.
type UnauthorizedTransitionError struct {
	Role string
	From string
	To   string
}

func (e *UnauthorizedTransitionError) Error() string {
	return fmt.Sprintf("role %s may not move order from %s to %s", e.Role, e.From, e.To)
}

// SelfActionError: actor touched a terminal or foreign order. Not retryable.
type SelfActionError struct {
	ActorID string
	OrderID string
	Reason  string
}

func (e *SelfActionError) Error() string {
	return fmt.Sprintf("actor %s cannot act on order %s: %s", e.ActorID, e.OrderID, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsUnauthorized(err error) bool {
	var ue *UnauthorizedTransitionError
	return errors.As(err, &ue)
}

func IsSelfAction(err error) bool {
	var se *SelfActionError
	return errors.As(err, &se)
}
