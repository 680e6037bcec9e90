package app

import (
	"context"
	"log/slog"
	"time"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/aiagent"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/taskflow"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

var _ ports.AgentService = (*AgentService)(nil)

// AgentRepositories groups the stores an agent command may touch when it
// runs.
type AgentRepositories struct {
	Workspaces     ports.WorkspaceRepository
	Projects       ports.ProjectRepository
	Tasks          ports.TaskRepository
	Availabilities ports.AvailabilityRepository
	Conversations  ports.ConversationRepository
	Agents         ports.AgentRepository
}

// AgentService manages AI agents and runs the commands they propose. A
// command always executes with the initiator's identity, so it can do no
// more than the initiator could do directly.
type AgentService struct {
	rt     *Runtime
	repos  AgentRepositories
	flow   taskflow.Service
	rbac   rbac.AuthorizationPolicy
	policy aiagent.AuthorizationPolicy
}

func NewAgentService(rt *Runtime, repos AgentRepositories) *AgentService {
	return &AgentService{rt: rt, repos: repos}
}

// Create requires workspace.ai.manage.
func (s *AgentService) Create(ctx context.Context, actorUserID, workspaceID, name, provider, model string, intents []aiagent.IntentType, requireApprovalForWrites bool) (*aiagent.Agent, error) {
	return run(ctx, s.rt, "CreateAgent", workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, now time.Time) (*aiagent.Agent, error) {
			if _, err := s.authorize(oc, actorUserID, workspaceID, rbac.WorkspaceAIManage); err != nil {
				return nil, err
			}
			policy, err := aiagent.NewPolicy(intents, requireApprovalForWrites)
			if err != nil {
				return nil, err
			}
			a, err := aiagent.New(workspaceID, actorUserID, name, provider, model, policy, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindAgent, a, s.repos.Agents.Save)
		})
}

// Get requires workspace.view on the agent's workspace.
func (s *AgentService) Get(ctx context.Context, actorUserID, agentID string) (*aiagent.Agent, error) {
	return run(ctx, s.rt, "GetAgent", agentAttrs(actorUserID, agentID),
		func(oc *appctx.OperationContext, _ time.Time) (*aiagent.Agent, error) {
			a, err := loadAgent(oc, s.repos.Agents, agentID)
			if err != nil {
				return nil, err
			}
			if _, err := s.authorize(oc, actorUserID, a.WorkspaceID(), rbac.WorkspaceView); err != nil {
				return nil, err
			}
			return a, nil
		})
}

func (s *AgentService) List(ctx context.Context, actorUserID, workspaceID string) ([]*aiagent.Agent, error) {
	return run(ctx, s.rt, "ListAgents", workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, _ time.Time) ([]*aiagent.Agent, error) {
			if _, err := s.authorize(oc, actorUserID, workspaceID, rbac.WorkspaceView); err != nil {
				return nil, err
			}
			snapshots, err := s.repos.Agents.ListByWorkspace(oc, workspaceID)
			if err != nil {
				return nil, err
			}
			out := make([]*aiagent.Agent, 0, len(snapshots))
			for _, snap := range snapshots {
				a, err := aiagent.RehydrateAgent(snap)
				if err != nil {
					return nil, err
				}
				out = append(out, a)
			}
			return out, nil
		})
}

func (s *AgentService) Pause(ctx context.Context, actorUserID, agentID string) (*aiagent.Agent, error) {
	return s.manage(ctx, "PauseAgent", actorUserID, agentID,
		func(a *aiagent.Agent, now time.Time) (*aiagent.Agent, error) { return a.Pause(actorUserID, now) })
}

func (s *AgentService) Activate(ctx context.Context, actorUserID, agentID string) (*aiagent.Agent, error) {
	return s.manage(ctx, "ActivateAgent", actorUserID, agentID,
		func(a *aiagent.Agent, now time.Time) (*aiagent.Agent, error) { return a.Activate(actorUserID, now) })
}

// Revoke is terminal.
func (s *AgentService) Revoke(ctx context.Context, actorUserID, agentID string) (*aiagent.Agent, error) {
	return s.manage(ctx, "RevokeAgent", actorUserID, agentID,
		func(a *aiagent.Agent, now time.Time) (*aiagent.Agent, error) { return a.Revoke(actorUserID, now) })
}

func (s *AgentService) UpdatePolicy(ctx context.Context, actorUserID, agentID string, intents []aiagent.IntentType, requireApprovalForWrites bool) (*aiagent.Agent, error) {
	return s.manage(ctx, "UpdateAgentPolicy", actorUserID, agentID,
		func(a *aiagent.Agent, now time.Time) (*aiagent.Agent, error) {
			policy, err := aiagent.NewPolicy(intents, requireApprovalForWrites)
			if err != nil {
				return nil, err
			}
			return a.UpdatePolicy(actorUserID, policy, now)
		})
}

// Propose records a command for the initiator. It is refused unless the
// agent and the initiator together may run the intent. projectID is
// required for project-scoped intents and ignored otherwise.
func (s *AgentService) Propose(ctx context.Context, initiatorUserID, agentID, projectID string, intent aiagent.IntentType, arguments map[string]string) (*aiagent.Command, error) {
	return run(ctx, s.rt, "ProposeCommand", agentAttrs(initiatorUserID, agentID),
		func(oc *appctx.OperationContext, now time.Time) (*aiagent.Command, error) {
			if err := requireActor(initiatorUserID); err != nil {
				return nil, err
			}
			a, err := loadAgent(oc, s.repos.Agents, agentID)
			if err != nil {
				return nil, err
			}
			if intent.Scope() != aiagent.ScopeProject {
				projectID = ""
			}
			if err := s.canExecute(oc, a, projectID, initiatorUserID, intent); err != nil {
				return nil, err
			}
			c, err := aiagent.Propose(a, projectID, initiatorUserID, intent, arguments, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindAgentCommand, c, s.repos.Agents.SaveCommand)
		})
}

// Approve and Reject require workspace.ai.manage.
func (s *AgentService) Approve(ctx context.Context, actorUserID, commandID string) (*aiagent.Command, error) {
	return s.decide(ctx, "ApproveCommand", actorUserID, commandID,
		func(c *aiagent.Command, now time.Time) (*aiagent.Command, error) { return c.Approve(actorUserID, now) })
}

func (s *AgentService) Reject(ctx context.Context, actorUserID, commandID, reason string) (*aiagent.Command, error) {
	return s.decide(ctx, "RejectCommand", actorUserID, commandID,
		func(c *aiagent.Command, now time.Time) (*aiagent.Command, error) {
			return c.Reject(actorUserID, reason, now)
		})
}

// Execute runs an APPROVED command. Only its initiator may run it, and the
// agent policy is checked again since either side may have changed since the
// proposal. A command the domain refuses ends FAILED with the refusal as
// its outcome; that is a result, not an error.
func (s *AgentService) Execute(ctx context.Context, actorUserID, commandID string) (*aiagent.Command, error) {
	return run(ctx, s.rt, "ExecuteCommand", commandAttrs(actorUserID, commandID),
		func(oc *appctx.OperationContext, now time.Time) (*aiagent.Command, error) {
			if err := requireActor(actorUserID); err != nil {
				return nil, err
			}
			c, err := loadCommand(oc, s.repos.Agents, commandID)
			if err != nil {
				return nil, err
			}
			if c.InitiatorUserID() != actorUserID {
				return nil, domain.Forbidden("command %s can only be executed by its initiator", commandID)
			}
			if c.State() != lifecycle.CommandApproved {
				return nil, domain.InvalidState("command %s is %s", commandID, c.State())
			}
			a, err := loadAgent(oc, s.repos.Agents, c.AgentID())
			if err != nil {
				return nil, err
			}

			summary, runErr := s.dispatch(oc, a, c, now)
			if runErr != nil && domain.CodeOf(runErr) == "" {
				return nil, runErr
			}
			var next *aiagent.Command
			if runErr != nil {
				next, err = c.MarkFailed(runErr.Error(), now)
			} else {
				next, err = c.MarkExecuted(summary, now)
			}
			if err != nil {
				return nil, err
			}
			return persist(oc, kindAgentCommand, next, s.repos.Agents.SaveCommand)
		})
}

// Commands lists an agent's commands; requires workspace.view.
func (s *AgentService) Commands(ctx context.Context, actorUserID, agentID string) ([]*aiagent.Command, error) {
	return run(ctx, s.rt, "ListCommands", agentAttrs(actorUserID, agentID),
		func(oc *appctx.OperationContext, _ time.Time) ([]*aiagent.Command, error) {
			a, err := loadAgent(oc, s.repos.Agents, agentID)
			if err != nil {
				return nil, err
			}
			if _, err := s.authorize(oc, actorUserID, a.WorkspaceID(), rbac.WorkspaceView); err != nil {
				return nil, err
			}
			snapshots, err := s.repos.Agents.ListCommands(oc, agentID)
			if err != nil {
				return nil, err
			}
			out := make([]*aiagent.Command, 0, len(snapshots))
			for _, snap := range snapshots {
				c, err := aiagent.RehydrateCommand(snap)
				if err != nil {
					return nil, err
				}
				out = append(out, c)
			}
			return out, nil
		})
}

// OpenConversation starts a private thread between the actor, who must be
// an active workspace member, and an active agent.
func (s *AgentService) OpenConversation(ctx context.Context, actorUserID, agentID string) (*aiagent.Conversation, error) {
	return run(ctx, s.rt, "OpenAgentConversation", agentAttrs(actorUserID, agentID),
		func(oc *appctx.OperationContext, now time.Time) (*aiagent.Conversation, error) {
			a, err := loadAgent(oc, s.repos.Agents, agentID)
			if err != nil {
				return nil, err
			}
			if _, err := s.authorize(oc, actorUserID, a.WorkspaceID(), rbac.WorkspaceView); err != nil {
				return nil, err
			}
			c, err := aiagent.Open(a, actorUserID, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindAgentConversation, c, s.repos.Agents.SaveConversation)
		})
}

// GetConversation is limited to the conversation's user.
func (s *AgentService) GetConversation(ctx context.Context, actorUserID, conversationID string) (*aiagent.Conversation, error) {
	return run(ctx, s.rt, "GetAgentConversation", conversationAttrs(actorUserID, conversationID),
		func(oc *appctx.OperationContext, _ time.Time) (*aiagent.Conversation, error) {
			return s.ownConversation(oc, actorUserID, conversationID)
		})
}

// AppendTurn adds a turn to the actor's own conversation. commandID links
// the turn to a command proposed from it and may be empty.
func (s *AgentService) AppendTurn(ctx context.Context, actorUserID, conversationID string, speaker aiagent.Speaker, body, commandID string) (*aiagent.Conversation, error) {
	return s.converse(ctx, "AppendAgentTurn", actorUserID, conversationID,
		func(c *aiagent.Conversation, now time.Time) (*aiagent.Conversation, error) {
			return c.AppendTurn(speaker, body, commandID, now)
		})
}

func (s *AgentService) CloseConversation(ctx context.Context, actorUserID, conversationID string) (*aiagent.Conversation, error) {
	return s.converse(ctx, "CloseAgentConversation", actorUserID, conversationID,
		func(c *aiagent.Conversation, now time.Time) (*aiagent.Conversation, error) {
			return c.Close(actorUserID, now)
		})
}

func (s *AgentService) ReopenConversation(ctx context.Context, actorUserID, conversationID string) (*aiagent.Conversation, error) {
	return s.converse(ctx, "ReopenAgentConversation", actorUserID, conversationID,
		func(c *aiagent.Conversation, now time.Time) (*aiagent.Conversation, error) {
			return c.Reopen(actorUserID, now)
		})
}

func (s *AgentService) manage(
	ctx context.Context,
	operation, actorUserID, agentID string,
	op func(*aiagent.Agent, time.Time) (*aiagent.Agent, error),
) (*aiagent.Agent, error) {
	return run(ctx, s.rt, operation, agentAttrs(actorUserID, agentID),
		func(oc *appctx.OperationContext, now time.Time) (*aiagent.Agent, error) {
			a, err := loadAgent(oc, s.repos.Agents, agentID)
			if err != nil {
				return nil, err
			}
			if _, err := s.authorize(oc, actorUserID, a.WorkspaceID(), rbac.WorkspaceAIManage); err != nil {
				return nil, err
			}
			next, err := op(a, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindAgent, next, s.repos.Agents.Save)
		})
}

func (s *AgentService) decide(
	ctx context.Context,
	operation, actorUserID, commandID string,
	op func(*aiagent.Command, time.Time) (*aiagent.Command, error),
) (*aiagent.Command, error) {
	return run(ctx, s.rt, operation, commandAttrs(actorUserID, commandID),
		func(oc *appctx.OperationContext, now time.Time) (*aiagent.Command, error) {
			c, err := loadCommand(oc, s.repos.Agents, commandID)
			if err != nil {
				return nil, err
			}
			if _, err := s.authorize(oc, actorUserID, c.WorkspaceID(), rbac.WorkspaceAIManage); err != nil {
				return nil, err
			}
			next, err := op(c, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindAgentCommand, next, s.repos.Agents.SaveCommand)
		})
}

func (s *AgentService) converse(
	ctx context.Context,
	operation, actorUserID, conversationID string,
	op func(*aiagent.Conversation, time.Time) (*aiagent.Conversation, error),
) (*aiagent.Conversation, error) {
	return run(ctx, s.rt, operation, conversationAttrs(actorUserID, conversationID),
		func(oc *appctx.OperationContext, now time.Time) (*aiagent.Conversation, error) {
			c, err := s.ownConversation(oc, actorUserID, conversationID)
			if err != nil {
				return nil, err
			}
			next, err := op(c, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindAgentConversation, next, s.repos.Agents.SaveConversation)
		})
}

func (s *AgentService) ownConversation(oc *appctx.OperationContext, actorUserID, conversationID string) (*aiagent.Conversation, error) {
	if err := requireActor(actorUserID); err != nil {
		return nil, err
	}
	c, err := loadAgentConversation(oc, s.repos.Agents, conversationID)
	if err != nil {
		return nil, err
	}
	if c.UserID() != actorUserID {
		return nil, domain.Forbidden("conversation %s belongs to another user", conversationID)
	}
	return c, nil
}

// canExecute loads the request scope and asks the agent policy. The
// refusal names nothing beyond the intent.
func (s *AgentService) canExecute(oc *appctx.OperationContext, a *aiagent.Agent, projectID, initiatorUserID string, intent aiagent.IntentType) error {
	ws, p, err := s.executionScope(oc, a, projectID)
	if err != nil {
		return err
	}
	req := aiagent.ExecutionRequest{
		Workspace:       ws,
		Project:         p,
		Agent:           a,
		InitiatorUserID: initiatorUserID,
		Intent:          intent,
	}
	if !s.policy.CanExecute(req) {
		return domain.Forbidden("agent %s may not %s for user %s", a.ID(), intent, initiatorUserID)
	}
	return nil
}

func (s *AgentService) executionScope(oc *appctx.OperationContext, a *aiagent.Agent, projectID string) (*workspace.Workspace, *project.Project, error) {
	ws, err := loadWorkspace(oc, s.repos.Workspaces, a.WorkspaceID())
	if err != nil {
		return nil, nil, err
	}
	if projectID == "" {
		return ws, nil, nil
	}
	p, err := loadProject(oc, s.repos.Projects, projectID)
	if err != nil {
		return nil, nil, err
	}
	return ws, p, nil
}

func (s *AgentService) authorize(oc *appctx.OperationContext, actorUserID, workspaceID string, perm rbac.WorkspacePermission) (*workspace.Workspace, error) {
	if err := requireActor(actorUserID); err != nil {
		return nil, err
	}
	ws, err := loadWorkspace(oc, s.repos.Workspaces, workspaceID)
	if err != nil {
		return nil, err
	}
	if !s.rbac.CanInWorkspace(ws, actorUserID, perm) {
		return nil, domain.Forbidden("user %s lacks %s in workspace %s", actorUserID, perm, workspaceID)
	}
	return ws, nil
}

func agentAttrs(actorUserID, agentID string) []slog.Attr {
	return []slog.Attr{
		slog.String("actor_user_id", actorUserID),
		slog.String("agent_id", agentID),
	}
}

func commandAttrs(actorUserID, commandID string) []slog.Attr {
	return []slog.Attr{
		slog.String("actor_user_id", actorUserID),
		slog.String("command_id", commandID),
	}
}

func conversationAttrs(actorUserID, conversationID string) []slog.Attr {
	return []slog.Attr{
		slog.String("actor_user_id", actorUserID),
		slog.String("conversation_id", conversationID),
	}
}
