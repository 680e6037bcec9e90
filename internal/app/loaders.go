package app

import (
	"context"
	"time"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain/aiagent"
	"github.com/jsamuelsen11/teamspace/internal/domain/availability"
	"github.com/jsamuelsen11/teamspace/internal/domain/conversation"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/task"
	"github.com/jsamuelsen11/teamspace/internal/domain/user"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

// Cache kinds. They double as the aggregate names in staged action
// descriptions.
const (
	kindUser              = "user"
	kindWorkspace         = "workspace"
	kindProject           = "project"
	kindTask              = "task"
	kindAvailability      = "availability"
	kindConversation      = "conversation"
	kindAgent             = "agent"
	kindAgentCommand      = "agent_command"
	kindAgentConversation = "agent_conversation"
)

// load memoizes one aggregate per operation: a second load of the same id
// returns the cached (or staged) version.
func load[A any, P any](
	oc *appctx.OperationContext,
	kind, id string,
	find func(context.Context, string) (P, error),
	rehydrate func(P) (A, error),
) (A, error) {
	return appctx.GetOrFetch(oc, cacheKey(kind, id), func(ctx context.Context) (A, error) {
		p, err := find(ctx, id)
		if err != nil {
			var zero A
			return zero, err
		}
		return rehydrate(p)
	})
}

func loadUser(oc *appctx.OperationContext, repo ports.UserRepository, id string) (*user.User, error) {
	return load(oc, kindUser, id, repo.FindByID, user.Rehydrate)
}

func loadWorkspace(oc *appctx.OperationContext, repo ports.WorkspaceRepository, id string) (*workspace.Workspace, error) {
	return load(oc, kindWorkspace, id, repo.FindByID, workspace.Rehydrate)
}

func loadProject(oc *appctx.OperationContext, repo ports.ProjectRepository, id string) (*project.Project, error) {
	return load(oc, kindProject, id, repo.FindByID, project.Rehydrate)
}

func loadTask(oc *appctx.OperationContext, repo ports.TaskRepository, id string) (*task.Task, error) {
	return load(oc, kindTask, id, repo.FindByID, task.Rehydrate)
}

func loadAvailability(oc *appctx.OperationContext, repo ports.AvailabilityRepository, id string) (*availability.Availability, error) {
	return load(oc, kindAvailability, id, repo.FindByID, availability.Rehydrate)
}

// loadWorkspaceConversation finds the single conversation of a workspace.
func loadWorkspaceConversation(oc *appctx.OperationContext, repo ports.ConversationRepository, workspaceID string) (*conversation.Conversation, error) {
	return load(oc, "conversation_of", workspaceID, repo.FindByWorkspace, conversation.Rehydrate)
}

// workspaceConversation is loadWorkspaceConversation, starting a fresh
// conversation when the workspace has none yet.
func workspaceConversation(oc *appctx.OperationContext, repo ports.ConversationRepository, workspaceID string, now time.Time) (*conversation.Conversation, error) {
	c, err := loadWorkspaceConversation(oc, repo, workspaceID)
	if isNotFound(err) {
		return conversation.New(workspaceID, now)
	}
	return c, err
}

func loadAgent(oc *appctx.OperationContext, repo ports.AgentRepository, id string) (*aiagent.Agent, error) {
	return load(oc, kindAgent, id, repo.FindByID, aiagent.RehydrateAgent)
}

func loadCommand(oc *appctx.OperationContext, repo ports.AgentRepository, id string) (*aiagent.Command, error) {
	return load(oc, kindAgentCommand, id, repo.FindCommand, aiagent.RehydrateCommand)
}

func loadAgentConversation(oc *appctx.OperationContext, repo ports.AgentRepository, id string) (*aiagent.Conversation, error) {
	return load(oc, kindAgentConversation, id, repo.FindConversation, aiagent.RehydrateConversation)
}

// loadProjectScope loads a project together with its owning workspace.
func loadProjectScope(
	oc *appctx.OperationContext,
	workspaces ports.WorkspaceRepository,
	projects ports.ProjectRepository,
	projectID string,
) (*workspace.Workspace, *project.Project, error) {
	p, err := loadProject(oc, projects, projectID)
	if err != nil {
		return nil, nil, err
	}
	ws, err := loadWorkspace(oc, workspaces, p.WorkspaceID())
	if err != nil {
		return nil, nil, err
	}
	return ws, p, nil
}
