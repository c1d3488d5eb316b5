package shared

import "context"

// EventHandler consumes domain events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error

	// EventTypes names the event types this handler wants. Empty means all.
	EventTypes() []string
}

// EventPublisher is the side aggregates' callers use after a state change
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber registers handlers. Subscribing with no event types
// delivers everything.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is both ends plus lifecycle control
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
