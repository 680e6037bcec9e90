package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
)

var now = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newTask(t *testing.T) *Task {
	t.Helper()
	tk, err := New("p-1", "list-1", "alice", "Write release notes", 0, now)
	require.NoError(t, err)
	tk, _ = tk.PullDomainEvents()
	return tk
}

func TestNew(t *testing.T) {
	t.Parallel()

	tk, err := New("p-1", "list-1", "alice", "Draft", 3, now)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TaskPending, tk.Status())
	assert.Equal(t, 3, tk.OrderIndex())
	assert.Empty(t, tk.StatusHistory())

	_, err = New("", "", "alice", "Draft", -1, now)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)

	_, err = New("p-1", "list-1", "", "Draft", 0, now)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangeStatus(t *testing.T) {
	t.Parallel()

	tk := newTask(t)

	same, err := tk.ChangeStatus("alice", lifecycle.TaskPending, now)
	require.NoError(t, err)
	assert.Same(t, tk, same)
	assert.Empty(t, same.PendingEvents())

	started, err := tk.ChangeStatus("bob", lifecycle.TaskInProgress, now)
	require.NoError(t, err)
	done, err := started.ChangeStatus("bob", lifecycle.TaskDone, now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, lifecycle.TaskPending, tk.Status(), "receiver must not change")
	assert.Equal(t, []StatusChange{
		{From: lifecycle.TaskPending, To: lifecycle.TaskInProgress, ActorUserID: "bob", OccurredAt: now},
		{From: lifecycle.TaskInProgress, To: lifecycle.TaskDone, ActorUserID: "bob", OccurredAt: now.Add(time.Hour)},
	}, done.StatusHistory())

	_, err = done.ChangeStatus("bob", lifecycle.TaskAbandoned, now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = done.ChangeStatus("bob", "ARCHIVED", now)
	assert.ErrorIs(t, err, domain.ErrValidation)

	reopened, err := done.ToggleDone("bob", now)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TaskInProgress, reopened.Status())
	completed, err := reopened.ToggleDone("bob", now)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TaskDone, completed.Status())
}

func TestOrderingAndAssignment(t *testing.T) {
	t.Parallel()

	tk := newTask(t)

	same, err := tk.SetOrderInList("alice", 0, now)
	require.NoError(t, err)
	assert.Same(t, tk, same)

	reordered, err := tk.SetOrderInList("alice", 4, now)
	require.NoError(t, err)
	assert.Equal(t, event.TaskReordered, reordered.PendingEvents()[0].Type)

	moved, err := tk.MoveToList("alice", "list-2", 0, now)
	require.NoError(t, err)
	assert.Equal(t, "list-2", moved.TodoListID())
	assert.Equal(t, event.TaskMoved, moved.PendingEvents()[0].Type)

	_, err = tk.SetOrderInList("alice", -1, now)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assigned, err := tk.AssignTo("alice", "bob", now)
	require.NoError(t, err)
	assert.Equal(t, "bob", assigned.AssigneeUserID())
	again, err := assigned.AssignTo("alice", "bob", now)
	require.NoError(t, err)
	assert.Same(t, assigned, again)
	cleared, err := assigned.AssignTo("alice", "", now)
	require.NoError(t, err)
	assert.Empty(t, cleared.AssigneeUserID())
}

func TestComments(t *testing.T) {
	t.Parallel()

	tk := newTask(t)
	tk, root, err := tk.AddComment("alice", "Looks good", "", now)
	require.NoError(t, err)
	tk, reply, err := tk.AddComment("bob", "Agreed", root.ID, now)
	require.NoError(t, err)
	tk, nested, err := tk.AddComment("alice", "Thanks", reply.ID, now)
	require.NoError(t, err)

	_, err = tk.EditComment("bob", root.ID, "Hijacked", now)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = tk.DeleteComment("alice", root.ID, false, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "active replies block a plain delete")
	_, err = tk.DeleteComment("bob", root.ID, false, now)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	tk, _ = tk.PullDomainEvents()
	moderated, err := tk.DeleteComment("carol", root.ID, true, now)
	require.NoError(t, err)
	for _, id := range []string{root.ID, reply.ID, nested.ID} {
		c, ok := moderated.Comment(id)
		require.True(t, ok)
		assert.True(t, c.IsDeleted(), "comment %s should be deleted", id)
	}
	assert.Len(t, moderated.PendingEvents(), 3)

	again, err := moderated.DeleteComment("carol", root.ID, true, now)
	require.NoError(t, err)
	assert.Same(t, moderated, again)

	_, _, err = moderated.AddComment("bob", "late reply", root.ID, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = moderated.EditComment("alice", root.ID, "edited", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = moderated.DeleteComment("alice", root.ID, false, now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRehydrate(t *testing.T) {
	t.Parallel()

	tk := newTask(t)
	tk, root, err := tk.AddComment("alice", "root", "", now)
	require.NoError(t, err)
	tk, _, err = tk.AddComment("bob", "reply", root.ID, now)
	require.NoError(t, err)
	tk, err = tk.ChangeStatus("alice", lifecycle.TaskInProgress, now)
	require.NoError(t, err)

	back, err := Rehydrate(tk.ToPrimitives())
	require.NoError(t, err)
	assert.Equal(t, tk.ToPrimitives(), back.ToPrimitives())
	assert.Empty(t, back.PendingEvents())

	dangling := tk.ToPrimitives()
	dangling.Comments[1].ParentCommentID = "missing"
	_, err = Rehydrate(dangling)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	orphaned := tk.ToPrimitives()
	deletedAt := now
	orphaned.Comments[0].DeletedAt = &deletedAt
	_, err = Rehydrate(orphaned)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	drifted := tk.ToPrimitives()
	drifted.Status = string(lifecycle.TaskDone)
	_, err = Rehydrate(drifted)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	selfParented := tk.ToPrimitives()
	selfParented.Comments[0].ParentCommentID = selfParented.Comments[0].ID
	_, err = Rehydrate(selfParented)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	cyclic := tk.ToPrimitives()
	cyclic.Comments[0].ParentCommentID = cyclic.Comments[1].ID
	_, err = Rehydrate(cyclic)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDeleteComment_CyclicThreadTerminates(t *testing.T) {
	t.Parallel()

	tk := newTask(t)
	tk.comments = []Comment{
		{ID: "a", AuthorUserID: "alice", Body: "a", ParentCommentID: "b", CreatedAt: now, UpdatedAt: now},
		{ID: "b", AuthorUserID: "bob", Body: "b", ParentCommentID: "a", CreatedAt: now, UpdatedAt: now},
	}

	next, err := tk.DeleteComment("carol", "a", true, now)
	require.NoError(t, err)
	for _, c := range next.Comments() {
		assert.True(t, c.IsDeleted(), "comment %s", c.ID)
	}
	assert.Len(t, next.PendingEvents(), len(tk.PendingEvents())+2)
}
