package ports

import (
	"context"

	"github.com/jsamuelsen11/teamspace/internal/domain/event"
)

// EventHandler reacts to a published domain event.
type EventHandler func(ctx context.Context, e event.Event) error

// EventBus dispatches drained domain events to subscribers. The domain only
// produces events; subscribers live outside it.
type EventBus interface {
	// Publish dispatches events in order. Handler failures do not stop
	// dispatch; they are joined into the returned error.
	Publish(ctx context.Context, events ...event.Event) error

	// Subscribe registers handler for eventType, or for every event when
	// eventType is "*".
	Subscribe(eventType string, handler EventHandler)
}
