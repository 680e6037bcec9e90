package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
)

// Snapshot kinds.
const (
	kindUser              = "user"
	kindWorkspace         = "workspace"
	kindProject           = "project"
	kindTask              = "task"
	kindAvailability      = "availability"
	kindConversation      = "conversation"
	kindAgent             = "agent"
	kindAgentCommand      = "agent_command"
	kindAgentConversation = "agent_conversation"
)

type keys struct {
	scope     string
	secondary string
}

func (s *Store) get(ctx context.Context, kind, id string, dst any) error {
	var body string
	err := s.querier(ctx).QueryRowContext(ctx,
		`SELECT body FROM snapshots WHERE kind = ? AND id = ?`, kind, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("%s %s not found", kind, id)
	}
	if err != nil {
		return fmt.Errorf("reading %s %s: %w", kind, id, err)
	}
	return decode(kind, id, body, dst)
}

// getBy loads the single snapshot of kind whose column equals value.
func (s *Store) getBy(ctx context.Context, kind, column, value string, dst any) error {
	var id, body string
	err := s.querier(ctx).QueryRowContext(ctx,
		`SELECT id, body FROM snapshots WHERE kind = ? AND `+column+` = ? ORDER BY rowid LIMIT 1`,
		kind, value).Scan(&id, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("%s with %s %s not found", kind, column, value)
	}
	if err != nil {
		return fmt.Errorf("reading %s by %s: %w", kind, column, err)
	}
	return decode(kind, id, body, dst)
}

func (s *Store) put(ctx context.Context, kind, id string, k keys, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s %s: %w", kind, id, err)
	}
	_, err = s.querier(ctx).ExecContext(ctx, `
INSERT INTO snapshots (kind, id, scope_key, secondary_key, body, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(kind, id) DO UPDATE SET
    scope_key = excluded.scope_key,
    secondary_key = excluded.secondary_key,
    body = excluded.body,
    updated_at = excluded.updated_at`,
		kind, id, k.scope, k.secondary, string(body), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("writing %s %s: %w", kind, id, err)
	}
	return nil
}

// takenBy returns the id of another snapshot of kind holding column=value,
// or "" when none does.
func (s *Store) takenBy(ctx context.Context, kind, column, value, id string) (string, error) {
	var other string
	err := s.querier(ctx).QueryRowContext(ctx,
		`SELECT id FROM snapshots WHERE kind = ? AND `+column+` = ? AND id <> ? LIMIT 1`,
		kind, value, id).Scan(&other)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("checking %s %s: %w", kind, column, err)
	}
	return other, nil
}

// list decodes every snapshot of kind under scope, in insertion order.
func list[T any](ctx context.Context, s *Store, kind, scope string) ([]T, error) {
	rows, err := s.querier(ctx).QueryContext(ctx,
		`SELECT id, body FROM snapshots WHERE kind = ? AND scope_key = ? ORDER BY rowid`, kind, scope)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		var v T
		if err := decode(kind, id, body, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	return out, nil
}

func decode(kind, id, body string, dst any) error {
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return fmt.Errorf("decoding %s %s: %w", kind, id, err)
	}
	return nil
}
