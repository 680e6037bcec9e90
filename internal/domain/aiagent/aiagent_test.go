package aiagent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
)

var now = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type scene struct {
	ws      *workspace.Workspace
	project *project.Project
	agent   *Agent
}

// newScene builds workspace Ops (alice owner, bob and carol collaborators),
// project Launch where bob contributes, and an agent allowed to create and
// list tasks and to create projects.
func newScene(t *testing.T, requireApproval bool) scene {
	t.Helper()
	ws, err := workspace.New("alice", "Ops", now)
	require.NoError(t, err)
	for _, u := range []string{"bob", "carol"} {
		ws, err = ws.InviteMember("alice", u, now)
		require.NoError(t, err)
	}
	p, err := project.New(ws.ID(), "alice", "Launch", "", now)
	require.NoError(t, err)
	p, err = p.GrantAccess("alice", "bob", rbac.ProjectContributor, ws, false, now)
	require.NoError(t, err)

	policy, err := NewPolicy([]IntentType{IntentListTasks, IntentCreateTask, IntentCreateProject, IntentCreateTask}, requireApproval)
	require.NoError(t, err)
	a, err := New(ws.ID(), "alice", "Planner", "anthropic", "large", policy, now)
	require.NoError(t, err)
	return scene{ws: ws, project: p, agent: a}
}

func TestNewPolicy(t *testing.T) {
	t.Parallel()

	p, err := NewPolicy([]IntentType{IntentListTasks, IntentCreateTask, IntentListTasks}, true)
	require.NoError(t, err)
	assert.Equal(t, []IntentType{IntentCreateTask, IntentListTasks}, p.AllowedIntents)
	assert.True(t, p.RequiresApproval(IntentCreateTask))
	assert.False(t, p.RequiresApproval(IntentListTasks), "reads never wait for approval")

	_, err = NewPolicy([]IntentType{"DROP_DATABASE"}, false)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestIntentCatalog(t *testing.T) {
	t.Parallel()

	for i := range intents {
		switch i.Scope() {
		case ScopeWorkspace:
			perm, ok := i.WorkspacePermission()
			assert.True(t, ok && perm.IsValid(), "%s", i)
		case ScopeProject:
			perm, ok := i.ProjectPermission()
			assert.True(t, ok && perm.IsValid(), "%s", i)
		default:
			t.Errorf("%s has no scope", i)
		}
	}
	assert.False(t, IntentSummarizeProject.IsWrite())
	assert.True(t, IntentPostChatMessage.IsWrite())
}

func TestCanExecute(t *testing.T) {
	t.Parallel()

	s := newScene(t, false)
	paused, err := s.agent.Pause("alice", now)
	require.NoError(t, err)
	other, err := workspace.New("mallory", "Elsewhere", now)
	require.NoError(t, err)
	foreignProject, err := project.New(other.ID(), "mallory", "Heist", "", now)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  ExecutionRequest
		want bool
	}{
		{
			name: "contributor creates task",
			req:  ExecutionRequest{Workspace: s.ws, Project: s.project, Agent: s.agent, InitiatorUserID: "bob", Intent: IntentCreateTask},
			want: true,
		},
		{
			name: "initiator without project access",
			req:  ExecutionRequest{Workspace: s.ws, Project: s.project, Agent: s.agent, InitiatorUserID: "carol", Intent: IntentListTasks},
		},
		{
			name: "intent outside allow-list",
			req:  ExecutionRequest{Workspace: s.ws, Project: s.project, Agent: s.agent, InitiatorUserID: "alice", Intent: IntentAssignTask},
		},
		{
			name: "paused agent",
			req:  ExecutionRequest{Workspace: s.ws, Project: s.project, Agent: paused, InitiatorUserID: "alice", Intent: IntentListTasks},
		},
		{
			name: "agent from another workspace",
			req:  ExecutionRequest{Workspace: other, Agent: s.agent, InitiatorUserID: "mallory", Intent: IntentCreateProject},
		},
		{
			name: "project intent without project",
			req:  ExecutionRequest{Workspace: s.ws, Agent: s.agent, InitiatorUserID: "alice", Intent: IntentListTasks},
		},
		{
			name: "project from another workspace",
			req:  ExecutionRequest{Workspace: s.ws, Project: foreignProject, Agent: s.agent, InitiatorUserID: "mallory", Intent: IntentListTasks},
		},
		{
			name: "workspace intent for collaborator",
			req:  ExecutionRequest{Workspace: s.ws, Agent: s.agent, InitiatorUserID: "carol", Intent: IntentCreateProject},
			want: true,
		},
		{
			name: "workspace intent for stranger",
			req:  ExecutionRequest{Workspace: s.ws, Agent: s.agent, InitiatorUserID: "mallory", Intent: IntentCreateProject},
		},
		{
			name: "missing workspace",
			req:  ExecutionRequest{Agent: s.agent, InitiatorUserID: "alice", Intent: IntentCreateProject},
		},
	}

	var policy AuthorizationPolicy
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, policy.CanExecute(tt.req))
		})
	}
}

func TestAgentLifecycle(t *testing.T) {
	t.Parallel()

	a := newScene(t, false).agent
	paused, err := a.Pause("alice", now)
	require.NoError(t, err)
	active, err := paused.Activate("alice", now)
	require.NoError(t, err)
	assert.True(t, active.IsActive())

	revoked, err := active.Revoke("alice", now)
	require.NoError(t, err)
	_, err = revoked.Activate("alice", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = revoked.UpdatePolicy("alice", Policy{}, now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	same, err := a.UpdatePolicy("alice", a.Policy(), now)
	require.NoError(t, err)
	assert.Same(t, a, same)

	back, err := RehydrateAgent(revoked.ToPrimitives())
	require.NoError(t, err)
	assert.Equal(t, revoked.ToPrimitives(), back.ToPrimitives())
}

func TestCommand(t *testing.T) {
	t.Parallel()

	t.Run("auto approved without approval policy", func(t *testing.T) {
		t.Parallel()
		s := newScene(t, false)
		c, err := Propose(s.agent, s.project.ID(), "bob", IntentCreateTask, map[string]string{"title": "Ship"}, now)
		require.NoError(t, err)
		assert.Equal(t, lifecycle.CommandApproved, c.State())
		types := []string{}
		for _, e := range c.PendingEvents() {
			types = append(types, e.Type)
		}
		assert.Equal(t, []string{event.CommandProposed, event.CommandApproved}, types)

		done, err := c.MarkExecuted("created task", now)
		require.NoError(t, err)
		assert.Equal(t, "created task", done.Outcome())
		_, err = done.MarkFailed("late", now)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("writes wait for approval", func(t *testing.T) {
		t.Parallel()
		s := newScene(t, true)
		c, err := Propose(s.agent, s.project.ID(), "bob", IntentCreateTask, nil, now)
		require.NoError(t, err)
		assert.Equal(t, lifecycle.CommandProposed, c.State())
		_, err = c.MarkExecuted("too early", now)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		rejected, err := c.Reject("alice", " not now ", now)
		require.NoError(t, err)
		assert.Equal(t, "not now", rejected.Outcome())
		assert.Equal(t, "alice", rejected.DecidedByUserID())
		_, err = rejected.Approve("alice", now)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		read, err := Propose(s.agent, s.project.ID(), "bob", IntentListTasks, nil, now)
		require.NoError(t, err)
		assert.Equal(t, lifecycle.CommandApproved, read.State())
	})

	t.Run("proposal rejected", func(t *testing.T) {
		t.Parallel()
		s := newScene(t, false)
		_, err := Propose(s.agent, "", "bob", IntentCreateTask, nil, now)
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = Propose(s.agent, s.project.ID(), "bob", IntentAssignTask, nil, now)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		paused, err := s.agent.Pause("alice", now)
		require.NoError(t, err)
		_, err = Propose(paused, s.project.ID(), "bob", IntentCreateTask, nil, now)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("failure needs a reason", func(t *testing.T) {
		t.Parallel()
		s := newScene(t, false)
		c, err := Propose(s.agent, s.project.ID(), "bob", IntentCreateTask, nil, now)
		require.NoError(t, err)
		_, err = c.MarkFailed("  ", now)
		assert.ErrorIs(t, err, domain.ErrValidation)
		failed, err := c.MarkFailed("FORBIDDEN: lost access", now)
		require.NoError(t, err)

		back, err := RehydrateCommand(failed.ToPrimitives())
		require.NoError(t, err)
		assert.Equal(t, failed.ToPrimitives(), back.ToPrimitives())
	})
}

func TestConversation(t *testing.T) {
	t.Parallel()

	s := newScene(t, false)
	c, err := Open(s.agent, "bob", now)
	require.NoError(t, err)
	c, err = c.AppendTurn(SpeakerUser, "what is left on Launch?", "", now)
	require.NoError(t, err)
	c, err = c.AppendTurn(SpeakerAgent, "three tasks", "cmd-1", now)
	require.NoError(t, err)
	assert.Len(t, c.Turns(), 2)

	_, err = c.AppendTurn("SYSTEM", "hi", "", now)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = c.Close("alice", now)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	closed, err := c.Close("bob", now)
	require.NoError(t, err)
	_, err = closed.AppendTurn(SpeakerUser, "one more", "", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	reopened, err := closed.Reopen("bob", now)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ConversationOpen, reopened.State())

	back, err := RehydrateConversation(closed.ToPrimitives())
	require.NoError(t, err)
	assert.Equal(t, closed.ToPrimitives(), back.ToPrimitives())

	revoked, err := s.agent.Revoke("alice", now)
	require.NoError(t, err)
	_, err = Open(revoked, "bob", now)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
