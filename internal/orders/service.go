package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dermawan/storefront/internal/cart"
)

// Service ties the factory and the state machine to the persistence port and
// the notification bus. UI surfaces call this; they never write Status
// themselves.
type Service struct {
	Store    Store
	Bus      Bus
	Producer string // event producer name, e.g. "storefront-api"
}

// Checkout converts the submitted form plus cart lines into a persisted
// order and emits order.created.
func (s *Service) Checkout(ctx context.Context, userID string, customer CustomerInfo, lines []cart.Line, paymentMethod, notes, traceID string) (*Order, error) {
	o, err := New(userID, customer, lines, paymentMethod, notes)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	s.publish(EventOrderCreated, o.ID, traceID, OrderCreatedPayload{Order: *o})
	return o, nil
}

// ChangeStatus runs the state machine over the stored order and, when it
// actually moved, persists the new status guarded by the previous updated_at
// and emits order.status.changed. The idempotent no-op neither writes nor
// publishes.
func (s *Service) ChangeStatus(ctx context.Context, orderID string, role Role, actorID string, next Status, traceID string) (*Order, error) {
	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	updated, changed, err := Transition(o, role, actorID, next)
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}
	if err := s.Store.UpdateStatus(ctx, o.ID, updated.Status, o.UpdatedAt, updated.UpdatedAt); err != nil {
		return nil, err
	}
	s.publish(EventOrderStatusChanged, o.ID, traceID, OrderStatusChangedPayload{
		OrderID:   o.ID,
		Number:    o.Number,
		Status:    updated.Status,
		ActorRole: role,
	})
	return updated, nil
}

// Get enforces ownership for customers; staff read anything.
func (s *Service) Get(ctx context.Context, orderID string, role Role, actorID string) (*Order, error) {
	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !role.Staff() && !o.OwnedBy(actorID) {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Service) ListFor(ctx context.Context, role Role, actorID string) ([]Order, error) {
	if role.Staff() {
		return s.Store.List(ctx)
	}
	return s.Store.ListByUser(ctx, actorID)
}

// Invoices projects the visible order set onto its invoice-eligible subset.
func (s *Service) Invoices(ctx context.Context, role Role, actorID string) ([]Order, error) {
	list, err := s.ListFor(ctx, role, actorID)
	if err != nil {
		return nil, err
	}
	return FilterInvoiceable(list), nil
}

func (s *Service) publish(eventType, orderID, traceID string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.Bus.Publish(Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Producer,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       b,
	})
}
