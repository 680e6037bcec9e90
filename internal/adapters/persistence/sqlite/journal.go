package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain/event"
)

// EventJournal appends published domain events to an audit table. Record
// has the shape of a ports.EventHandler so it can be subscribed to the bus
// for every event type.
type EventJournal struct {
	store *Store
}

func NewEventJournal(store *Store) *EventJournal {
	return &EventJournal{store: store}
}

// Record stores e. Recording the same event twice is a no-op.
func (j *EventJournal) Record(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("encoding event %s payload: %w", e.ID, err)
	}
	_, err = j.store.querier(ctx).ExecContext(ctx, `
INSERT INTO event_journal (event_id, event_type, aggregate_type, aggregate_id, payload, occurred_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(event_id) DO NOTHING`,
		e.ID, e.Type, e.AggregateType, e.AggregateID, string(payload), e.OccurredAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("journaling event %s: %w", e.ID, err)
	}
	return nil
}

// ListByAggregate returns the journaled events of one aggregate, oldest
// first. limit <= 0 returns all of them.
func (j *EventJournal) ListByAggregate(ctx context.Context, aggregateType, aggregateID string, limit int) ([]event.Event, error) {
	query := `SELECT event_id, event_type, aggregate_type, aggregate_id, payload, occurred_at
FROM event_journal WHERE aggregate_type = ? AND aggregate_id = ? ORDER BY seq`
	args := []any{aggregateType, aggregateID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.store.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	out := []event.Event{}
	for rows.Next() {
		var (
			e                   event.Event
			payload, occurredAt string
		)
		if err := rows.Scan(&e.ID, &e.Type, &e.AggregateType, &e.AggregateID, &payload, &occurredAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, fmt.Errorf("decoding event %s payload: %w", e.ID, err)
		}
		if e.OccurredAt, err = time.Parse(time.RFC3339Nano, occurredAt); err != nil {
			return nil, fmt.Errorf("parsing event %s time: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return out, nil
}
