package orders

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermawan/storefront/internal/errs"
)

type memStore struct {
	mu     sync.Mutex
	orders map[string]Order
}

func newMemStore() *memStore { return &memStore{orders: map[string]Order{}} }

func (s *memStore) Create(_ context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = *o
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *memStore) GetByNumber(_ context.Context, number string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.Number == number {
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) List(_ context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *memStore) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	all, _ := s.List(ctx)
	var out []Order
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id string, status Status, prevUpdatedAt, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return ErrNotFound
	}
	if !o.UpdatedAt.Equal(prevUpdatedAt) {
		return ErrStale
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	s.orders[id] = o
	return nil
}

type recorderBus struct {
	mu     sync.Mutex
	events []Envelope
}

func (b *recorderBus) Publish(ev Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *recorderBus) all() []Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Envelope(nil), b.events...)
}

func newService() (*Service, *memStore, *recorderBus) {
	st := newMemStore()
	bus := &recorderBus{}
	return &Service{Store: st, Bus: bus, Producer: "storefront-api"}, st, bus
}

func TestServiceCheckoutPublishesOrderCreated(t *testing.T) {
	svc, _, bus := newService()

	o, err := svc.Checkout(context.Background(), "user-1", validCustomer(), checkoutLines(), "cod", "", "trace-1")
	require.NoError(t, err)

	evs := bus.all()
	require.Len(t, evs, 1)
	ev := evs[0]
	assert.Equal(t, EventOrderCreated, ev.EventType)
	assert.Equal(t, 1, ev.EventVersion)
	assert.Equal(t, o.ID, ev.CorrelationID)
	assert.Equal(t, "storefront-api", ev.Producer)
	assert.Equal(t, "trace-1", ev.TraceID)

	var p OrderCreatedPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &p))
	assert.Equal(t, o.ID, p.Order.ID)
	assert.Equal(t, StatusPendingPayment, p.Order.Status)

	got, err := svc.Get(context.Background(), o.ID, RoleCustomer, "user-1")
	require.NoError(t, err)
	assert.Equal(t, o.Number, got.Number)
}

func TestServiceCheckoutEmptyCartPersistsNothing(t *testing.T) {
	svc, st, bus := newService()
	_, err := svc.Checkout(context.Background(), "user-1", validCustomer(), nil, "cod", "", "")
	assert.ErrorIs(t, err, errs.ErrEmptyCart)
	assert.Empty(t, st.orders)
	assert.Empty(t, bus.all())
}

func TestServiceChangeStatus(t *testing.T) {
	svc, st, bus := newService()
	o, err := svc.Checkout(context.Background(), "user-1", validCustomer(), checkoutLines(), "cod", "", "")
	require.NoError(t, err)

	got, err := svc.ChangeStatus(context.Background(), o.ID, RoleManager, "mgr-1", StatusProcessing, "trace-2")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)

	stored := st.orders[o.ID]
	assert.Equal(t, StatusProcessing, stored.Status)
	assert.True(t, stored.UpdatedAt.After(o.UpdatedAt))

	evs := bus.all()
	require.Len(t, evs, 2)
	assert.Equal(t, EventOrderStatusChanged, evs[1].EventType)
	var p OrderStatusChangedPayload
	require.NoError(t, json.Unmarshal(evs[1].Payload, &p))
	assert.Equal(t, o.ID, p.OrderID)
	assert.Equal(t, StatusProcessing, p.Status)
	assert.Equal(t, RoleManager, p.ActorRole)
}

func TestServiceChangeStatusNoOpSkipsWriteAndEvent(t *testing.T) {
	svc, st, bus := newService()
	o, err := svc.Checkout(context.Background(), "user-1", validCustomer(), checkoutLines(), "cod", "", "")
	require.NoError(t, err)

	got, err := svc.ChangeStatus(context.Background(), o.ID, RoleManager, "mgr-1", StatusPendingPayment, "")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingPayment, got.Status)
	assert.Equal(t, o.UpdatedAt, st.orders[o.ID].UpdatedAt, "no-op must not bump updatedAt")
	assert.Len(t, bus.all(), 1, "no-op must not publish")
}

func TestServiceChangeStatusRejectionLeavesStoreUntouched(t *testing.T) {
	svc, st, bus := newService()
	o, err := svc.Checkout(context.Background(), "user-1", validCustomer(), checkoutLines(), "cod", "", "")
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), o.ID, RoleCustomer, "user-1", StatusPaid, "")
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
	assert.Equal(t, StatusPendingPayment, st.orders[o.ID].Status)
	assert.Equal(t, o.UpdatedAt, st.orders[o.ID].UpdatedAt)
	assert.Len(t, bus.all(), 1)
}

func TestServiceGetHidesForeignOrdersFromCustomers(t *testing.T) {
	svc, _, _ := newService()
	o, err := svc.Checkout(context.Background(), "user-1", validCustomer(), checkoutLines(), "cod", "", "")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), o.ID, RoleCustomer, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(context.Background(), o.ID, RoleManager, "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestServiceInvoices(t *testing.T) {
	svc, st, _ := newService()

	mine, err := svc.Checkout(context.Background(), "user-1", validCustomer(), checkoutLines(), "cod", "", "")
	require.NoError(t, err)
	other, err := svc.Checkout(context.Background(), "user-2", validCustomer(), checkoutLines(), "cod", "", "")
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), mine.ID, RoleAdmin, "admin-1", StatusPaid, "")
	require.NoError(t, err)
	_, err = svc.ChangeStatus(context.Background(), other.ID, RoleAdmin, "admin-1", StatusShipped, "")
	require.NoError(t, err)

	own, err := svc.Invoices(context.Background(), RoleCustomer, "user-1")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	all, err := svc.Invoices(context.Background(), RoleManager, "mgr-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// A pending order never shows up as an invoice.
	_, err = svc.Checkout(context.Background(), "user-1", validCustomer(), checkoutLines(), "cod", "", "")
	require.NoError(t, err)
	own, err = svc.Invoices(context.Background(), RoleCustomer, "user-1")
	require.NoError(t, err)
	assert.Len(t, own, 1)
	assert.Len(t, st.orders, 3)
}
