package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
)

// projectFixture is a workspace owned by alice with bob and carol as
// collaborators and one project alice manages.
type projectFixture struct {
	env               *testEnv
	alice, bob, carol string
	workspaceID       string
	projectID         string
}

func newProjectFixture(t *testing.T) projectFixture {
	t.Helper()
	env := newTestEnv(t)
	ctx := context.Background()
	f := projectFixture{
		env:   env,
		alice: env.register(t, "alice"),
		bob:   env.register(t, "bob"),
		carol: env.register(t, "carol"),
	}
	ws, err := env.workspaces.Create(ctx, f.alice, "Ops")
	require.NoError(t, err)
	f.workspaceID = ws.ID()
	for _, u := range []string{f.bob, f.carol} {
		_, err = env.workspaces.InviteMember(ctx, f.alice, f.workspaceID, u)
		require.NoError(t, err)
	}
	p, err := env.projects.Create(ctx, f.alice, f.workspaceID, "Launch", "Q3 launch plan")
	require.NoError(t, err)
	f.projectID = p.ID()
	env.resetEvents()
	return f
}

func TestProjectService_CreatorBecomesManager(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)

	p, err := f.env.projects.Get(context.Background(), f.alice, f.projectID)
	require.NoError(t, err)
	role, ok := p.RoleOf(f.alice)
	require.True(t, ok)
	assert.Equal(t, rbac.ProjectManager, role)
	assert.Equal(t, f.workspaceID, p.WorkspaceID())
}

func TestProjectService_Create_Forbidden(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	outsider := f.env.register(t, "dave")

	_, err := f.env.projects.Create(context.Background(), outsider, f.workspaceID, "Side", "")
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProjectService_Visibility(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	ctx := context.Background()

	_, err := f.env.projects.Get(ctx, f.bob, f.projectID)
	require.ErrorIs(t, err, domain.ErrForbidden, "collaborators without access cannot see the project")

	list, err := f.env.projects.List(ctx, f.bob, f.workspaceID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.env.projects.GrantAccess(ctx, f.alice, f.projectID, f.bob, rbac.ProjectViewer)
	require.NoError(t, err)

	list, err = f.env.projects.List(ctx, f.bob, f.workspaceID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.projectID, list[0].ID())
}

func TestProjectService_GrantAccess(t *testing.T) {
	t.Parallel()

	t.Run("target must be an active workspace member", func(t *testing.T) {
		t.Parallel()
		f := newProjectFixture(t)
		outsider := f.env.register(t, "dave")
		_, err := f.env.projects.GrantAccess(context.Background(), f.alice, f.projectID, outsider, rbac.ProjectViewer)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("contributors cannot manage access", func(t *testing.T) {
		t.Parallel()
		f := newProjectFixture(t)
		ctx := context.Background()
		_, err := f.env.projects.GrantAccess(ctx, f.alice, f.projectID, f.bob, rbac.ProjectContributor)
		require.NoError(t, err)
		_, err = f.env.projects.GrantAccess(ctx, f.bob, f.projectID, f.carol, rbac.ProjectViewer)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("workspace admins override project roles", func(t *testing.T) {
		t.Parallel()
		f := newProjectFixture(t)
		ctx := context.Background()
		_, err := f.env.workspaces.AssignRole(ctx, f.alice, f.workspaceID, f.carol, rbac.RoleAdmin)
		require.NoError(t, err)

		p, err := f.env.projects.GrantAccess(ctx, f.carol, f.projectID, f.bob, rbac.ProjectTracker)
		require.NoError(t, err)
		role, ok := p.RoleOf(f.bob)
		require.True(t, ok)
		assert.Equal(t, rbac.ProjectTracker, role)
	})

	t.Run("granting twice changes the role", func(t *testing.T) {
		t.Parallel()
		f := newProjectFixture(t)
		ctx := context.Background()
		_, err := f.env.projects.GrantAccess(ctx, f.alice, f.projectID, f.bob, rbac.ProjectViewer)
		require.NoError(t, err)
		p, err := f.env.projects.GrantAccess(ctx, f.alice, f.projectID, f.bob, rbac.ProjectContributor)
		require.NoError(t, err)
		role, _ := p.RoleOf(f.bob)
		assert.Equal(t, rbac.ProjectContributor, role)
		assert.Len(t, p.AccessList(), 2)
	})
}

func TestProjectService_RevokeLastAccess(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	ctx := context.Background()

	_, err := f.env.projects.RevokeAccess(ctx, f.alice, f.projectID, f.alice)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.env.projects.GrantAccess(ctx, f.alice, f.projectID, f.bob, rbac.ProjectManager)
	require.NoError(t, err)
	p, err := f.env.projects.RevokeAccess(ctx, f.bob, f.projectID, f.alice)
	require.NoError(t, err)
	assert.False(t, p.HasAccess(f.alice))
}

func TestProjectService_UpdateDetails(t *testing.T) {
	t.Parallel()
	f := newProjectFixture(t)
	ctx := context.Background()

	p, err := f.env.projects.Rename(ctx, f.alice, f.projectID, "Launch v2")
	require.NoError(t, err)
	assert.Equal(t, "Launch v2", p.Name())

	p, err = f.env.projects.UpdateDescription(ctx, f.alice, f.projectID, "")
	require.NoError(t, err)
	assert.Empty(t, p.Description())

	_, err = f.env.projects.Rename(ctx, f.bob, f.projectID, "Hijacked")
	require.ErrorIs(t, err, domain.ErrForbidden)
}
