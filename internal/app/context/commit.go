package appctx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/platform/logging"
)

// Commit executes all staged actions in insertion order. If any action
// fails, previously completed actions are rolled back in reverse order.
// Rollback errors are logged but do not affect the returned error.
//
// After Commit returns the OperationContext is marked committed and no
// further actions can be staged. The runtime calls Commit inside the
// transaction body with the transaction context, so staged saves share the
// transaction.
func (oc *OperationContext) Commit(ctx context.Context) error {
	oc.queueMu.Lock()
	if oc.committed {
		oc.queueMu.Unlock()
		return ErrAlreadyCommitted
	}
	oc.committed = true
	items := oc.items
	oc.queueMu.Unlock()

	logger := logging.FromContext(ctx)

	for i, item := range items {
		logger.DebugContext(ctx, "executing action",
			slog.String("operation", "OperationContext.Commit"),
			slog.Int("step", i+1),
			slog.Int("total", len(items)),
			slog.String("action", item.Description()),
		)

		if err := item.Execute(ctx); err != nil {
			logger.ErrorContext(ctx, "action failed, initiating rollback",
				slog.String("operation", "OperationContext.Commit"),
				slog.Int("failed_step", i+1),
				slog.String("action", item.Description()),
				slog.Any("error", err),
			)
			rollbackItems(ctx, items, i-1, logger)
			return fmt.Errorf("executing %s: %w", item.Description(), err)
		}
	}

	return nil
}

// rollbackItems rolls back items 0..upTo (inclusive) in reverse order.
func rollbackItems(ctx context.Context, items []domain.Action, upTo int, logger *slog.Logger) {
	for i := upTo; i >= 0; i-- {
		item := items[i]

		logger.InfoContext(ctx, "rolling back action",
			slog.String("operation", "OperationContext.Commit"),
			slog.Int("step", i+1),
			slog.String("action", item.Description()),
		)

		if err := item.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed",
				slog.String("operation", "OperationContext.Commit"),
				slog.Int("step", i+1),
				slog.String("action", item.Description()),
				slog.Any("error", err),
			)
		}
	}
}
