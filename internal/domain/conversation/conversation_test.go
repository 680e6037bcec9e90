package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
)

var now = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func TestThread(t *testing.T) {
	t.Parallel()

	c, err := New("ws-1", now)
	require.NoError(t, err)
	c, root, err := c.AddMessage("alice", "Standup moved to 10:00", "", now)
	require.NoError(t, err)
	c, reply, err := c.AddMessage("bob", "ok", root.ID, now)
	require.NoError(t, err)

	types := make([]string, 0, 3)
	for _, e := range c.PendingEvents() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{event.ConversationCreated, event.ConversationMessageAdded, event.ConversationMessageAdded}, types)

	_, _, err = c.AddMessage("bob", "x", "missing", now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = c.AddMessage("bob", "   ", "", now)
	assert.ErrorIs(t, err, domain.ErrValidation)

	edited, err := c.EditMessage("alice", root.ID, "Standup moved to 10:30", now)
	require.NoError(t, err)
	m, _ := edited.Message(root.ID)
	require.NotNil(t, m.EditedAt)
	_, err = c.EditMessage("bob", root.ID, "no", now)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = c.DeleteMessage("alice", root.ID, false, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	c, err = c.DeleteMessage("bob", reply.ID, false, now)
	require.NoError(t, err)
	c, err = c.DeleteMessage("alice", root.ID, false, now)
	require.NoError(t, err)

	_, _, err = c.AddMessage("bob", "late", root.ID, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = c.EditMessage("alice", root.ID, "again", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDeleteMessage_Forced(t *testing.T) {
	t.Parallel()

	c, err := New("ws-1", now)
	require.NoError(t, err)
	c, root, err := c.AddMessage("alice", "spam", "", now)
	require.NoError(t, err)
	c, _, err = c.AddMessage("bob", "more spam", root.ID, now)
	require.NoError(t, err)
	c, _ = c.PullDomainEvents()

	moderated, err := c.DeleteMessage("carol", root.ID, true, now)
	require.NoError(t, err)
	for _, m := range moderated.Messages() {
		assert.True(t, m.IsDeleted())
	}
	assert.Len(t, moderated.PendingEvents(), 2)

	again, err := moderated.DeleteMessage("carol", root.ID, true, now)
	require.NoError(t, err)
	assert.Same(t, moderated, again)
}

func TestRehydrate(t *testing.T) {
	t.Parallel()

	c, err := New("ws-1", now)
	require.NoError(t, err)
	c, root, err := c.AddMessage("alice", "root", "", now)
	require.NoError(t, err)
	c, _, err = c.AddMessage("bob", "reply", root.ID, now)
	require.NoError(t, err)

	back, err := Rehydrate(c.ToPrimitives())
	require.NoError(t, err)
	assert.Equal(t, c.ToPrimitives(), back.ToPrimitives())

	dangling := c.ToPrimitives()
	dangling.Messages = dangling.Messages[1:]
	_, err = Rehydrate(dangling)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	selfParented := c.ToPrimitives()
	selfParented.Messages[0].ParentMessageID = selfParented.Messages[0].ID
	_, err = Rehydrate(selfParented)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	cyclic := c.ToPrimitives()
	cyclic.Messages[0].ParentMessageID = cyclic.Messages[1].ID
	_, err = Rehydrate(cyclic)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = New("", now)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteMessage_SelfParentedTerminates(t *testing.T) {
	t.Parallel()

	c, err := New("ws-1", now)
	require.NoError(t, err)
	c.messages = []Message{{ID: "a", AuthorUserID: "alice", Body: "loop", ParentMessageID: "a", CreatedAt: now}}

	next, err := c.DeleteMessage("mod", "a", true, now)
	require.NoError(t, err)
	m, ok := next.Message("a")
	require.True(t, ok)
	assert.True(t, m.IsDeleted())
}
