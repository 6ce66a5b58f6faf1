package shared

import "context"

// EventHandler processes domain events. EventTypes names the events the
// handler wants; an empty slice subscribes it to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is the narrow publish-side dependency application
// services take. Events are published after the aggregate is saved.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the full bus: publication, subscription management and
// lifecycle.
type EventBus interface {
	EventPublisher

	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)

	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
