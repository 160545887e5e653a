package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// Envelope wraps every event published to the notification bus.
type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g. "storefront-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// OrderCreatedPayload carries the full order so dashboard consumers do not
// need a read-back.
type OrderCreatedPayload struct {
	Order Order `json:"order"`
}

type OrderStatusChangedPayload struct {
	OrderID   string `json:"order_id"`
	Number    string `json:"number"`
	Status    Status `json:"status"`
	ActorRole Role   `json:"actor_role"`
}
