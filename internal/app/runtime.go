// Package app provides application services that orchestrate use cases by
// loading aggregates through repository ports, invoking domain operations,
// saving the resulting snapshots in one unit of work, and publishing the
// drained domain events. Services hold no business rules of their own beyond
// resolving cross-aggregate facts the kernel asks for (workspace membership,
// workspace override flags).
package app

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/platform/telemetry"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

const tracerName = "github.com/jsamuelsen11/teamspace/internal/app"

// Clock supplies the operation timestamp handed to the kernel.
type Clock func() time.Time

// Runtime carries the infrastructure every service shares: the unit of
// work, the event bus, logging, metrics and tracing.
type Runtime struct {
	uow     ports.UnitOfWork
	bus     ports.EventBus
	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
	clock   Clock
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithClock overrides time.Now, mainly for tests.
func WithClock(c Clock) RuntimeOption {
	return func(r *Runtime) { r.clock = c }
}

// WithMetrics records operation duration and outcome.
func WithMetrics(m *telemetry.Metrics) RuntimeOption {
	return func(r *Runtime) { r.metrics = m }
}

// NewRuntime builds a Runtime. A nil logger discards output; a nil unit of
// work runs operations without a transaction.
func NewRuntime(uow ports.UnitOfWork, bus ports.EventBus, logger *slog.Logger, opts ...RuntimeOption) *Runtime {
	if uow == nil {
		uow = ports.NoopUnitOfWork{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runtime{
		uow:    uow,
		bus:    bus,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run executes fn inside one transaction: loads through the operation
// context share the transaction, staged saves commit with it, and recorded
// events are published only after the commit succeeded. Publish failures
// are logged, not returned; the state change has already happened.
func run[T any](
	ctx context.Context,
	rt *Runtime,
	operation string,
	attrs []slog.Attr,
	fn func(oc *appctx.OperationContext, now time.Time) (T, error),
) (T, error) {
	spanAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		spanAttrs = append(spanAttrs, attribute.String(a.Key, a.Value.String()))
	}
	ctx, span := rt.tracer.Start(ctx, operation, trace.WithAttributes(spanAttrs...))
	defer span.End()

	start := time.Now()
	now := rt.clock().UTC()

	var (
		out    T
		events []event.Event
	)
	err := rt.uow.RunInTransaction(ctx, func(txCtx context.Context) error {
		oc := appctx.New(txCtx)
		result, err := fn(oc, now)
		if err != nil {
			return err
		}
		if err := oc.Commit(txCtx); err != nil {
			return err
		}
		out = result
		events = oc.Events()
		return nil
	})

	code := domain.CodeOf(err)
	rt.metrics.RecordOperation(ctx, operation, start, string(code), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		rt.logFailure(ctx, operation, attrs, code, err)
		var zero T
		return zero, err
	}

	if len(events) > 0 && rt.bus != nil {
		if perr := rt.bus.Publish(ctx, events...); perr != nil {
			rt.logger.LogAttrs(ctx, slog.LevelError, "failed to publish domain events",
				append(slices.Clip(attrs),
					slog.String("operation", operation),
					slog.Int("events", len(events)),
					slog.Any("error", perr),
				)...)
		}
	}
	return out, nil
}

// logFailure logs expected domain rejections at warn and everything else at
// error.
func (rt *Runtime) logFailure(ctx context.Context, operation string, attrs []slog.Attr, code domain.Code, err error) {
	level := slog.LevelError
	msg := "operation failed"
	if code != "" {
		level = slog.LevelWarn
		msg = "operation rejected"
	}
	fields := append(slices.Clip(attrs),
		slog.String("operation", operation),
		slog.Any("error", err),
	)
	if code != "" {
		fields = append(fields, slog.String("code", string(code)))
	}
	rt.logger.LogAttrs(ctx, level, msg, fields...)
}

// snapshotter is the shape every aggregate shares.
type snapshotter[A any, P any] interface {
	ID() string
	PullDomainEvents() (A, []event.Event)
	ToPrimitives() P
}

// persist drains agg's events into oc and stages a save of its snapshot.
// An aggregate with no pending events is unchanged and is not saved.
func persist[A snapshotter[A, P], P any](oc *appctx.OperationContext, kind string, agg A, save func(context.Context, P) error) (A, error) {
	drained, events := agg.PullDomainEvents()
	if len(events) == 0 {
		return drained, nil
	}
	oc.Record(events...)
	snapshot := drained.ToPrimitives()
	err := oc.Stage(cacheKey(kind, drained.ID()), drained, appctx.ActionFunc{
		Desc: "save " + kind + " " + drained.ID(),
		Do:   func(ctx context.Context) error { return save(ctx, snapshot) },
	})
	return drained, err
}

func cacheKey(kind, id string) string { return kind + ":" + id }

// requireActor rejects anonymous calls before anything is loaded.
func requireActor(actorUserID string) error {
	if actorUserID == "" {
		return domain.Unauthorized("actor is required")
	}
	return nil
}

// isNotFound reports whether err is a missing-aggregate failure.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
