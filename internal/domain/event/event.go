// Package event defines the domain event envelope. Aggregates append events
// to their pending list as a side effect of each operation; callers drain
// them with PullDomainEvents and hand them to an event bus.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable fact emitted by an aggregate operation.
type Event struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

// New builds an event with a fresh identifier.
func New(eventType, aggregateType, aggregateID string, payload map[string]any, occurredAt time.Time) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       payload,
		OccurredAt:    occurredAt.UTC(),
	}
}

// Pending is the append-only event list carried inside an aggregate value.
// Append never mutates the receiver's backing array, so two aggregate
// versions never share a pending slice they could both grow.
type Pending []Event

// Append returns a new list with e added at the end.
func (p Pending) Append(e Event) Pending {
	out := make(Pending, len(p), len(p)+1)
	copy(out, p)
	return append(out, e)
}

// Events returns a copy in emission order.
func (p Pending) Events() []Event {
	out := make([]Event, len(p))
	copy(out, p)
	return out
}
