package appctx

import (
	"context"

	"github.com/jsamuelsen11/teamspace/internal/domain"
)

var _ domain.Action = ActionFunc{}

// ActionFunc adapts plain functions to [domain.Action]. A nil Undo makes
// Rollback a no-op, which suits writes that run inside a database
// transaction.
type ActionFunc struct {
	Desc string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

func (a ActionFunc) Execute(ctx context.Context) error { return a.Do(ctx) }

func (a ActionFunc) Rollback(ctx context.Context) error {
	if a.Undo == nil {
		return nil
	}
	return a.Undo(ctx)
}

func (a ActionFunc) Description() string { return a.Desc }
