// Package appctx provides operation-scoped context for application services.
//
// OperationContext extends Go's context.Context with in-memory caching of
// loaded aggregates, staged write actions with automatic rollback, and the
// domain events drained from every aggregate the operation touched:
//
//	oc := appctx.New(ctx)
//
//	// Stage 1: load aggregates with memoization
//	ws, err := appctx.GetOrFetch(oc, "workspace:ws-1", loadWorkspace)
//
//	// Stage 2: mutate, stage the write, keep the events
//	ws, events := ws.PullDomainEvents()
//	oc.Stage("workspace:ws-1", ws, saveAction)
//	oc.Record(events...)
//
//	// Stage 3: execute the staged writes, then publish oc.Events()
//	err = oc.Commit(ctx)
//
// A new OperationContext is created per service call and must not be
// reused across calls.
package appctx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
)

// ErrAlreadyCommitted is returned by Stage and Commit once the operation
// committed.
var ErrAlreadyCommitted = errors.New("appctx: operation context already committed")

// ErrNilAction is returned when Stage is given a nil action.
var ErrNilAction = errors.New("appctx: nil action")

// ErrTypeMismatch is returned by GetOrFetch when a cached value's type does
// not match the requested type T. This indicates a programming error where
// the same cache key is used with different types.
var ErrTypeMismatch = errors.New("appctx: cached value type mismatch")

// OperationContext is an operation-scoped context wrapper. The cache is not
// safe for concurrent use; the action queue and event list are.
type OperationContext struct {
	context.Context
	cache map[string]cacheEntry

	queueMu   sync.Mutex
	items     []domain.Action
	events    []event.Event
	committed bool
}

// cacheEntry stores the result of a GetOrFetch call, including any error.
type cacheEntry struct {
	value any
	err   error
}

// New creates an OperationContext wrapping ctx with an empty cache and no
// staged actions.
func New(ctx context.Context) *OperationContext {
	return &OperationContext{
		Context: ctx,
		cache:   make(map[string]cacheEntry),
	}
}

// GetOrFetch returns a cached value for the given key, or calls fetchFn to
// fetch and cache it. Both successful results and errors are cached, so an
// aggregate is loaded at most once per operation.
//
// The same key must always be used with the same type T. If a cached value
// exists but its type does not match T, GetOrFetch returns ErrTypeMismatch.
func GetOrFetch[T any](oc *OperationContext, key string, fetchFn func(ctx context.Context) (T, error)) (T, error) {
	if entry, ok := oc.cache[key]; ok {
		if entry.err != nil {
			var zero T
			return zero, entry.err
		}
		v, ok := entry.value.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("%w: key %q holds %T, requested %T", ErrTypeMismatch, key, entry.value, zero)
		}
		return v, nil
	}

	val, err := fetchFn(oc.Context)
	oc.cache[key] = cacheEntry{value: val, err: err}
	return val, err
}

// Stage replaces the cached entity for key and queues action for Commit.
// Subsequent GetOrFetch calls for key return the staged entity, so a second
// mutation in the same operation builds on the first.
func (oc *OperationContext) Stage(key string, entity any, action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}
	oc.queueMu.Lock()
	defer oc.queueMu.Unlock()

	if oc.committed {
		return ErrAlreadyCommitted
	}
	oc.cache[key] = cacheEntry{value: entity}
	oc.items = append(oc.items, action)
	return nil
}

// Record keeps drained domain events for publication after Commit.
func (oc *OperationContext) Record(events ...event.Event) {
	oc.queueMu.Lock()
	defer oc.queueMu.Unlock()
	oc.events = append(oc.events, events...)
}

// Events returns the recorded events in emission order.
func (oc *OperationContext) Events() []event.Event {
	oc.queueMu.Lock()
	defer oc.queueMu.Unlock()
	out := make([]event.Event, len(oc.events))
	copy(out, oc.events)
	return out
}

// Pending reports the number of staged actions.
func (oc *OperationContext) Pending() int {
	oc.queueMu.Lock()
	defer oc.queueMu.Unlock()
	return len(oc.items)
}
