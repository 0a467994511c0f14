// Package events carries the in-process event bus that decouples the
// intake engine from its observers: searches, resolutions and session
// lifecycle are published here and consumed by the audit trail without
// either side importing the other.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event crossing the bus.
type Event interface {
	// EventName identifies the event type, e.g. "intake.search.completed".
	EventName() string
	// OccurredAt returns when the event happened.
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp half of the Event contract; domain
// events embed it and add their own EventName.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of one registered name.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events to subscribed handlers.
type Bus interface {
	// Publish dispatches to every handler registered for the event's
	// name. Dispatch is asynchronous; failures are the bus's problem,
	// never the publisher's.
	Publish(ctx context.Context, event Event)

	// PublishSync dispatches inline and returns the first handler error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name, matching
	// Event.EventName of the events it wants.
	Subscribe(eventName string, handler Handler)
}
