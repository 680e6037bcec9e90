package app

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
	"github.com/jsamuelsen11/teamspace/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestNewRuntime_Defaults(t *testing.T) {
	t.Parallel()

	rt := NewRuntime(nil, nil, nil)
	if rt.logger == nil {
		t.Fatal("NewRuntime(nil logger) should create a discard logger, got nil")
	}
	if rt.uow == nil {
		t.Fatal("NewRuntime(nil uow) should fall back to a no-op unit of work")
	}
}

func TestRun_PublishesEventsAfterCommit(t *testing.T) {
	t.Parallel()
	bus := mocks.NewMockEventBus(t)
	rt := NewRuntime(nil, bus, discardLogger(), WithClock(func() time.Time { return fixedNow }))

	saved := false
	bus.EXPECT().Publish(mock.Anything, mock.Anything).
		Run(func(_ context.Context, events ...event.Event) {
			assert.True(t, saved, "events must be published after the save ran")
			require.Len(t, events, 1)
			assert.Equal(t, event.WorkspaceCreated, events[0].Type)
		}).
		Return(nil).Once()

	ws, err := run(context.Background(), rt, "CreateWorkspace", nil,
		func(oc *appctx.OperationContext, now time.Time) (*workspace.Workspace, error) {
			w, err := workspace.New("u-1", "Ops", now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindWorkspace, w, func(context.Context, workspace.Primitives) error {
				saved = true
				return nil
			})
		})
	require.NoError(t, err)
	assert.Empty(t, ws.PendingEvents(), "returned aggregate should be drained")
	assert.Equal(t, fixedNow, ws.CreatedAt())
}

func TestRun_FailureSkipsSaveAndPublish(t *testing.T) {
	t.Parallel()
	bus := mocks.NewMockEventBus(t)
	rt := NewRuntime(nil, bus, discardLogger())

	_, err := run(context.Background(), rt, "Broken", nil,
		func(oc *appctx.OperationContext, now time.Time) (*workspace.Workspace, error) {
			w, err := workspace.New("u-1", "Ops", now)
			if err != nil {
				return nil, err
			}
			if _, err := persist(oc, kindWorkspace, w, func(context.Context, workspace.Primitives) error {
				t.Error("save must not run when the operation fails")
				return nil
			}); err != nil {
				return nil, err
			}
			return nil, domain.Forbidden("nope")
		})
	require.ErrorIs(t, err, domain.ErrForbidden)
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRun_PublishErrorIsNotReturned(t *testing.T) {
	t.Parallel()
	bus := mocks.NewMockEventBus(t)
	rt := NewRuntime(nil, bus, discardLogger())
	bus.EXPECT().Publish(mock.Anything, mock.Anything).Return(errors.New("subscriber down")).Once()

	_, err := run(context.Background(), rt, "CreateWorkspace", nil,
		func(oc *appctx.OperationContext, now time.Time) (*workspace.Workspace, error) {
			w, err := workspace.New("u-1", "Ops", now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindWorkspace, w, func(context.Context, workspace.Primitives) error { return nil })
		})
	require.NoError(t, err)
}

func TestPersist_SkipsUnchangedAggregate(t *testing.T) {
	t.Parallel()
	w, err := workspace.New("u-1", "Ops", fixedNow)
	require.NoError(t, err)
	w, _ = w.PullDomainEvents()

	oc := appctx.New(context.Background())
	_, err = persist(oc, kindWorkspace, w, func(context.Context, workspace.Primitives) error {
		t.Error("unchanged aggregate must not be saved")
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, oc.Pending())
	assert.Empty(t, oc.Events())
}

func TestRequireActor(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, requireActor(""), domain.ErrUnauthorized)
	require.NoError(t, requireActor("u-1"))
}
