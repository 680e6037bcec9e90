package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
)

func TestTaskService_ContributorCreatesTask(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	ctx := context.Background()

	_, err := f.env.tasks.Create(ctx, f.bob, f.projectID, "backlog", "Draft release notes", 0)
	require.ErrorIs(t, err, domain.ErrForbidden, "no project access yet")

	_, err = f.env.projects.GrantAccess(ctx, f.alice, f.projectID, f.bob, rbac.ProjectContributor)
	require.NoError(t, err)
	_, err = f.env.projects.GrantAccess(ctx, f.alice, f.projectID, f.carol, rbac.ProjectTracker)
	require.NoError(t, err)
	f.env.resetEvents()

	created, err := f.env.tasks.Create(ctx, f.bob, f.projectID, "backlog", "Draft release notes", 0)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TaskPending, created.Status())
	assert.Equal(t, f.bob, created.CreatedByUserID())
	assert.Equal(t, []string{event.TaskCreated}, f.env.eventTypes())

	_, err = f.env.tasks.Create(ctx, f.carol, f.projectID, "backlog", "Not allowed", 1)
	require.ErrorIs(t, err, domain.ErrForbidden, "trackers cannot create tasks")

	list, err := f.env.tasks.List(ctx, f.carol, f.projectID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID(), list[0].ID())
}

func TestTaskService_StatusChanges(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	ctx := context.Background()
	tk, err := f.env.tasks.Create(ctx, f.alice, f.projectID, "backlog", "Ship it", 0)
	require.NoError(t, err)
	f.env.resetEvents()

	tk, err = f.env.tasks.ChangeStatus(ctx, f.alice, tk.ID(), lifecycle.TaskInProgress)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TaskInProgress, tk.Status())

	same, err := f.env.tasks.ChangeStatus(ctx, f.alice, tk.ID(), lifecycle.TaskInProgress)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TaskInProgress, same.Status())
	assert.Len(t, same.StatusHistory(), 1, "a no-op change writes no history")

	tk, err = f.env.tasks.ToggleDone(ctx, f.alice, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TaskDone, tk.Status())

	_, err = f.env.tasks.ChangeStatus(ctx, f.alice, tk.ID(), lifecycle.TaskAbandoned)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	tk, err = f.env.tasks.ToggleDone(ctx, f.alice, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TaskInProgress, tk.Status())

	assert.Equal(t, []string{
		event.TaskStatusChanged,
		event.TaskStatusChanged,
		event.TaskStatusChanged,
	}, f.env.eventTypes())
}

func TestTaskService_Assign(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	ctx := context.Background()
	tk, err := f.env.tasks.Create(ctx, f.alice, f.projectID, "backlog", "Ship it", 0)
	require.NoError(t, err)

	_, err = f.env.tasks.Assign(ctx, f.alice, tk.ID(), f.bob)
	require.ErrorIs(t, err, domain.ErrForbidden, "assignee needs project access")

	_, err = f.env.projects.GrantAccess(ctx, f.alice, f.projectID, f.bob, rbac.ProjectViewer)
	require.NoError(t, err)
	tk, err = f.env.tasks.Assign(ctx, f.alice, tk.ID(), f.bob)
	require.NoError(t, err)
	assert.Equal(t, f.bob, tk.AssigneeUserID())

	tk, err = f.env.tasks.Assign(ctx, f.alice, tk.ID(), "")
	require.NoError(t, err)
	assert.Empty(t, tk.AssigneeUserID())
}

func TestTaskService_RenameAndReorder(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	ctx := context.Background()
	tk, err := f.env.tasks.Create(ctx, f.alice, f.projectID, "backlog", "Ship it", 0)
	require.NoError(t, err)

	tk, err = f.env.tasks.Rename(ctx, f.alice, tk.ID(), "Ship it now")
	require.NoError(t, err)
	assert.Equal(t, "Ship it now", tk.Title())

	tk, err = f.env.tasks.Reorder(ctx, f.alice, tk.ID(), "doing", 3)
	require.NoError(t, err)
	assert.Equal(t, "doing", tk.TodoListID())
	assert.Equal(t, 3, tk.OrderIndex())

	stored, err := f.env.tasks.Get(ctx, f.alice, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, "doing", stored.TodoListID())
}

func TestTaskService_Comments(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	ctx := context.Background()
	_, err := f.env.projects.GrantAccess(ctx, f.alice, f.projectID, f.bob, rbac.ProjectTracker)
	require.NoError(t, err)
	tk, err := f.env.tasks.Create(ctx, f.alice, f.projectID, "backlog", "Ship it", 0)
	require.NoError(t, err)

	_, root, err := f.env.tasks.AddComment(ctx, f.bob, tk.ID(), "Blocked on review", "")
	require.NoError(t, err)
	_, reply, err := f.env.tasks.AddComment(ctx, f.alice, tk.ID(), "Reviewing now", root.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, reply.ParentCommentID)

	_, err = f.env.tasks.EditComment(ctx, f.alice, tk.ID(), root.ID, "edited by someone else")
	require.ErrorIs(t, err, domain.ErrForbidden)

	tk, err = f.env.tasks.EditComment(ctx, f.bob, tk.ID(), root.ID, "Blocked on design review")
	require.NoError(t, err)
	edited, ok := tk.Comment(root.ID)
	require.True(t, ok)
	assert.Equal(t, "Blocked on design review", edited.Body)

	_, err = f.env.tasks.DeleteComment(ctx, f.bob, tk.ID(), root.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState, "author cannot delete a comment with active replies")

	tk, err = f.env.tasks.DeleteComment(ctx, f.alice, tk.ID(), root.ID)
	require.NoError(t, err, "managers force-delete the whole thread")
	for _, id := range []string{root.ID, reply.ID} {
		c, ok := tk.Comment(id)
		require.True(t, ok)
		assert.True(t, c.IsDeleted(), "comment %s should be deleted", id)
	}
}

func TestTaskService_UnknownTask(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	_, err := f.env.tasks.Get(context.Background(), f.alice, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
