package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
)

var now = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type directory map[string]bool

func (d directory) IsActiveMember(userID string) bool { return d[userID] }

var members = directory{"alice": true, "bob": true, "carol": true}

func newLaunch(t *testing.T) *Project {
	t.Helper()
	p, err := New("ws-1", "alice", "Launch", "Q2 launch", now)
	require.NoError(t, err)
	p, _ = p.PullDomainEvents()
	return p
}

func TestNew(t *testing.T) {
	t.Parallel()

	p, err := New("ws-1", "alice", "Launch", "", now)
	require.NoError(t, err)
	role, ok := p.RoleOf("alice")
	require.True(t, ok)
	assert.Equal(t, rbac.ProjectManager, role)
	require.Len(t, p.PendingEvents(), 1)
	assert.Equal(t, event.ProjectCreated, p.PendingEvents()[0].Type)

	_, err = New("ws-1", "", "Launch", "", now)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = New("", "alice", "Launch", "", now)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGrantAccess(t *testing.T) {
	t.Parallel()

	p := newLaunch(t)

	granted, err := p.GrantAccess("alice", "bob", rbac.ProjectTracker, members, false, now)
	require.NoError(t, err)
	assert.True(t, granted.HasPermission("bob", rbac.TaskStatusChange))
	assert.False(t, granted.HasPermission("bob", rbac.TaskCreate))
	assert.False(t, p.HasAccess("bob"), "receiver must not change")

	promoted, err := granted.GrantAccess("alice", "bob", rbac.ProjectContributor, members, false, now)
	require.NoError(t, err)
	assert.Len(t, promoted.AccessList(), 2)
	events := promoted.PendingEvents()
	assert.Equal(t, event.ProjectRoleChanged, events[len(events)-1].Type)

	same, err := promoted.ChangeProjectRole("alice", "bob", rbac.ProjectContributor, false, now)
	require.NoError(t, err)
	assert.Same(t, promoted, same)

	_, err = p.GrantAccess("alice", "mallory", rbac.ProjectViewer, members, false, now)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = granted.GrantAccess("bob", "carol", rbac.ProjectViewer, members, false, now)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = p.GrantAccess("alice", "bob", "OWNER", members, false, now)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGrantAccess_WorkspaceOverride(t *testing.T) {
	t.Parallel()

	p := newLaunch(t)
	next, err := p.GrantAccess("carol", "bob", rbac.ProjectViewer, members, true, now)
	require.NoError(t, err)
	assert.True(t, next.HasAccess("bob"))
	assert.False(t, next.HasAccess("carol"))
}

func TestRevokeAccess(t *testing.T) {
	t.Parallel()

	p := newLaunch(t)
	_, err := p.RevokeAccess("alice", "alice", false, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	p, err = p.GrantAccess("alice", "bob", rbac.ProjectViewer, members, false, now)
	require.NoError(t, err)
	p, err = p.RevokeAccess("alice", "bob", false, now)
	require.NoError(t, err)
	assert.False(t, p.HasAccess("bob"))

	_, err = p.RevokeAccess("alice", "bob", false, now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdates(t *testing.T) {
	t.Parallel()

	p := newLaunch(t)

	same, err := p.Rename("alice", "Launch", now)
	require.NoError(t, err)
	assert.Same(t, p, same)

	renamed, err := p.Rename("alice", "Launch v2", now)
	require.NoError(t, err)
	assert.Equal(t, "Launch v2", renamed.Name())

	cleared, err := renamed.UpdateDescription("alice", "", now)
	require.NoError(t, err)
	assert.Empty(t, cleared.Description())

	_, err = p.Rename("bob", "Hijack", now)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRehydrate(t *testing.T) {
	t.Parallel()

	p, err := newLaunch(t).GrantAccess("alice", "bob", rbac.ProjectViewer, members, false, now)
	require.NoError(t, err)

	back, err := Rehydrate(p.ToPrimitives())
	require.NoError(t, err)
	assert.Equal(t, p.ToPrimitives(), back.ToPrimitives())

	empty := p.ToPrimitives()
	empty.Access = nil
	_, err = Rehydrate(empty)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	dup := p.ToPrimitives()
	dup.Access = append(dup.Access, dup.Access[0])
	_, err = Rehydrate(dup)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	bad := p.ToPrimitives()
	bad.Access[1].RoleID = "ADMIN"
	_, err = Rehydrate(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
