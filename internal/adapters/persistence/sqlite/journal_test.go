package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/adapters/persistence/sqlite"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
)

func TestEventJournal_RecordAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	journal := sqlite.NewEventJournal(openStore(t))

	created := event.New(event.WorkspaceCreated, "workspace", "ws-1", map[string]any{"name": "Ops"}, epoch)
	renamed := event.New(event.WorkspaceRenamed, "workspace", "ws-1", map[string]any{"name": "Ops Team"}, epoch.Add(1))
	other := event.New(event.WorkspaceCreated, "workspace", "ws-2", nil, epoch)

	for _, e := range []event.Event{created, renamed, other} {
		require.NoError(t, journal.Record(ctx, e))
	}
	// Duplicates are ignored.
	require.NoError(t, journal.Record(ctx, created))

	got, err := journal.ListByAggregate(ctx, "workspace", "ws-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, created.ID, got[0].ID)
	assert.Equal(t, event.WorkspaceRenamed, got[1].Type)
	assert.Equal(t, "Ops Team", got[1].Payload["name"])
	assert.True(t, got[0].OccurredAt.Equal(epoch))

	limited, err := journal.ListByAggregate(ctx, "workspace", "ws-1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
