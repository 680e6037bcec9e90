package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
)

func TestChatService_FirstPostStartsConversation(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	ctx := context.Background()

	history, err := f.env.chat.History(ctx, f.bob, f.workspaceID)
	require.NoError(t, err)
	assert.Empty(t, history)

	first, err := f.env.chat.Post(ctx, f.bob, f.workspaceID, "Standup in 5", "")
	require.NoError(t, err)
	_, err = f.env.chat.Post(ctx, f.carol, f.workspaceID, "Omw", first.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{
		event.ConversationCreated,
		event.ConversationMessageAdded,
		event.ConversationMessageAdded,
	}, f.env.eventTypes())

	history, err = f.env.chat.History(ctx, f.alice, f.workspaceID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Standup in 5", history[0].Body)
	assert.Equal(t, first.ID, history[1].ParentMessageID)
}

func TestChatService_NonMembersCannotPost(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	outsider := f.env.register(t, "dave")

	_, err := f.env.chat.Post(context.Background(), outsider, f.workspaceID, "hello?", "")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.env.chat.History(context.Background(), outsider, f.workspaceID)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestChatService_EditIsAuthorOnly(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	ctx := context.Background()
	m, err := f.env.chat.Post(ctx, f.bob, f.workspaceID, "Standup in 5", "")
	require.NoError(t, err)

	_, err = f.env.chat.Edit(ctx, f.alice, f.workspaceID, m.ID, "Standup cancelled")
	require.ErrorIs(t, err, domain.ErrForbidden)

	edited, err := f.env.chat.Edit(ctx, f.bob, f.workspaceID, m.ID, "Standup in 10")
	require.NoError(t, err)
	assert.Equal(t, "Standup in 10", edited.Body)
}

func TestChatService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("collaborators cannot delete other messages", func(t *testing.T) {
		t.Parallel()
		f := newProjectFixture(t)
		ctx := context.Background()
		m, err := f.env.chat.Post(ctx, f.bob, f.workspaceID, "Standup in 5", "")
		require.NoError(t, err)

		err = f.env.chat.Delete(ctx, f.carol, f.workspaceID, m.ID)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("moderators delete whole threads", func(t *testing.T) {
		t.Parallel()
		f := newProjectFixture(t)
		ctx := context.Background()
		_, err := f.env.workspaces.AssignRole(ctx, f.alice, f.workspaceID, f.carol, rbac.RoleAdmin)
		require.NoError(t, err)
		root, err := f.env.chat.Post(ctx, f.bob, f.workspaceID, "Standup in 5", "")
		require.NoError(t, err)
		_, err = f.env.chat.Post(ctx, f.bob, f.workspaceID, "Actually 10", root.ID)
		require.NoError(t, err)

		require.NoError(t, f.env.chat.Delete(ctx, f.carol, f.workspaceID, root.ID))

		history, err := f.env.chat.History(ctx, f.bob, f.workspaceID)
		require.NoError(t, err)
		for _, m := range history {
			assert.True(t, m.IsDeleted(), "message %s should be deleted", m.ID)
		}
	})

	t.Run("unknown message", func(t *testing.T) {
		t.Parallel()
		f := newProjectFixture(t)
		ctx := context.Background()
		_, err := f.env.chat.Post(ctx, f.bob, f.workspaceID, "Standup in 5", "")
		require.NoError(t, err)
		err = f.env.chat.Delete(ctx, f.bob, f.workspaceID, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
