package orders

// Bus is the notification boundary. Delivery is best-effort; the engine never
// fails an operation because a subscriber could not be reached.
type Bus interface {
	Publish(ev Envelope)
}

// NopBus discards everything. Useful for tools that mutate orders without a
// broker at hand.
type NopBus struct{}

func (NopBus) Publish(Envelope) {}
