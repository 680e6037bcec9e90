// Package eventbus provides an in-process, synchronous implementation of
// [ports.EventBus]. Events are delivered in publish order to the handlers
// subscribed to their type, then to the wildcard handlers.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/platform/logging"
	"github.com/jsamuelsen11/teamspace/internal/platform/telemetry"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// Compile-time interface checks.
var (
	_ ports.EventBus      = (*Bus)(nil)
	_ ports.HealthChecker = (*Bus)(nil)
)

// Bus is safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]ports.EventHandler

	metrics      *telemetry.Metrics
	logPublished bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithMetrics counts delivered events on metrics.DomainEventsPublished.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(b *Bus) { b.metrics = m }
}

// WithPublishLogging logs every published event at info level instead of
// debug.
func WithPublishLogging(enabled bool) Option {
	return func(b *Bus) { b.logPublished = enabled }
}

func New(opts ...Option) *Bus {
	b := &Bus{handlers: make(map[string][]ports.EventHandler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for eventType, or for every event when
// eventType is [Wildcard].
func (b *Bus) Subscribe(eventType string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers each event to its handlers. A failing handler does not
// stop delivery; all failures are joined into the returned error.
func (b *Bus) Publish(ctx context.Context, events ...event.Event) error {
	logger := logging.FromContext(ctx)
	level := slog.LevelDebug
	if b.logPublished {
		level = slog.LevelInfo
	}

	var errs []error
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		logger.Log(ctx, level, "domain event published",
			slog.String("event_type", e.Type),
			slog.String("aggregate_type", e.AggregateType),
			slog.String("aggregate_id", e.AggregateID),
			slog.String("event_id", e.ID),
		)

		for _, h := range b.handlersFor(e.Type) {
			if err := h(ctx, e); err != nil {
				logger.ErrorContext(ctx, "event handler failed",
					slog.String("event_type", e.Type),
					slog.String("event_id", e.ID),
					slog.Any("error", err),
				)
				errs = append(errs, fmt.Errorf("handling %s: %w", e.Type, err))
			}
		}

		if b.metrics != nil {
			b.metrics.DomainEventsPublished.Add(ctx, 1,
				metric.WithAttributes(telemetry.AttrEventType.String(e.Type)))
		}
	}
	return errors.Join(errs...)
}

// handlersFor copies the handler lists under the read lock so handlers run
// without holding it and may subscribe further handlers.
func (b *Bus) handlersFor(eventType string) []ports.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	typed := b.handlers[eventType]
	wild := b.handlers[Wildcard]
	out := make([]ports.EventHandler, 0, len(typed)+len(wild))
	out = append(out, typed...)
	if eventType != Wildcard {
		out = append(out, wild...)
	}
	return out
}

func (b *Bus) Name() string { return "eventbus" }

// HealthCheck reports healthy while the bus accepts events; it has no
// external dependency to probe.
func (b *Bus) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}
