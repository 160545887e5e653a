package kafka

import (
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/dermawan/storefront/internal/orders"
)

// EventBus routes engine envelopes to their per-topic producers. It satisfies
// orders.Bus; delivery stays best-effort because the producers are async.
type EventBus struct {
	Created       *Producer // order.created
	StatusChanged *Producer // order.status.changed
}

func (b *EventBus) Publish(ev orders.Envelope) {
	var p *Producer
	switch ev.EventType {
	case orders.EventOrderCreated:
		p = b.Created
	case orders.EventOrderStatusChanged:
		p = b.StatusChanged
	default:
		slog.Warn("dropping event with unknown type", "event_type", ev.EventType)
		return
	}
	p.Publish(orders.PartitionKey(ev.CorrelationID), MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(ev.EventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
