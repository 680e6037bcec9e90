package ports

import (
	"context"

	"github.com/jsamuelsen11/teamspace/internal/domain/aiagent"
	"github.com/jsamuelsen11/teamspace/internal/domain/availability"
	"github.com/jsamuelsen11/teamspace/internal/domain/conversation"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/task"
	"github.com/jsamuelsen11/teamspace/internal/domain/user"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
)

// Service ports are implemented by the application layer and called by the
// CLI. Every method takes the acting user's id first; failures are
// *domain.Error values (or wrap a domain sentinel) so callers can switch on
// domain.CodeOf.

// UserService registers and authenticates users.
type UserService interface {
	// Register returns domain.ErrDuplicate when the email is taken.
	Register(ctx context.Context, name, email, password string) (*user.User, error)

	// Authenticate returns domain.ErrUnauthorized for an unknown email or a
	// wrong password, without saying which.
	Authenticate(ctx context.Context, email, password string) (*user.User, error)

	Get(ctx context.Context, userID string) (*user.User, error)
	Rename(ctx context.Context, actorUserID, userID, name string) (*user.User, error)

	// ChangePassword requires the current password.
	ChangePassword(ctx context.Context, actorUserID, userID, currentPassword, newPassword string) (*user.User, error)
}

// WorkspaceService covers workspace membership, roles and ownership.
type WorkspaceService interface {
	Create(ctx context.Context, actorUserID, name string) (*workspace.Workspace, error)
	Get(ctx context.Context, actorUserID, workspaceID string) (*workspace.Workspace, error)

	// ListOwned returns the workspaces the actor currently owns.
	ListOwned(ctx context.Context, actorUserID string) ([]*workspace.Workspace, error)

	// Permissions returns the actor's effective workspace permissions.
	Permissions(ctx context.Context, actorUserID, workspaceID string) ([]rbac.WorkspacePermission, error)

	Rename(ctx context.Context, actorUserID, workspaceID, name string) (*workspace.Workspace, error)
	InviteMember(ctx context.Context, actorUserID, workspaceID, targetUserID string) (*workspace.Workspace, error)
	RemoveMember(ctx context.Context, actorUserID, workspaceID, targetUserID string) (*workspace.Workspace, error)
	AssignRole(ctx context.Context, actorUserID, workspaceID, targetUserID string, role rbac.RoleID) (*workspace.Workspace, error)
	RevokeRole(ctx context.Context, actorUserID, workspaceID, targetUserID string, role rbac.RoleID) (*workspace.Workspace, error)
	TransferOwnership(ctx context.Context, actorUserID, workspaceID, targetUserID string) (*workspace.Workspace, error)
}

type ProjectService interface {
	Create(ctx context.Context, actorUserID, workspaceID, name, description string) (*project.Project, error)
	Get(ctx context.Context, actorUserID, projectID string) (*project.Project, error)

	// List returns only the projects the actor can see.
	List(ctx context.Context, actorUserID, workspaceID string) ([]*project.Project, error)

	Rename(ctx context.Context, actorUserID, projectID, name string) (*project.Project, error)
	UpdateDescription(ctx context.Context, actorUserID, projectID, description string) (*project.Project, error)
	GrantAccess(ctx context.Context, actorUserID, projectID, targetUserID string, role rbac.ProjectRole) (*project.Project, error)
	ChangeRole(ctx context.Context, actorUserID, projectID, targetUserID string, role rbac.ProjectRole) (*project.Project, error)

	// RevokeAccess returns domain.ErrInvalidState when it would leave the
	// project without any access.
	RevokeAccess(ctx context.Context, actorUserID, projectID, targetUserID string) (*project.Project, error)
}

type TaskService interface {
	Create(ctx context.Context, actorUserID, projectID, todoListID, title string, orderIndex int) (*task.Task, error)
	Get(ctx context.Context, actorUserID, taskID string) (*task.Task, error)
	List(ctx context.Context, actorUserID, projectID string) ([]*task.Task, error)
	ChangeStatus(ctx context.Context, actorUserID, taskID string, target lifecycle.TaskStatus) (*task.Task, error)
	ToggleDone(ctx context.Context, actorUserID, taskID string) (*task.Task, error)
	Assign(ctx context.Context, actorUserID, taskID, assigneeUserID string) (*task.Task, error)
	Rename(ctx context.Context, actorUserID, taskID, title string) (*task.Task, error)
	Reorder(ctx context.Context, actorUserID, taskID, todoListID string, orderIndex int) (*task.Task, error)
	AddComment(ctx context.Context, actorUserID, taskID, body, parentCommentID string) (*task.Task, task.Comment, error)
	EditComment(ctx context.Context, actorUserID, taskID, commentID, body string) (*task.Task, error)
	DeleteComment(ctx context.Context, actorUserID, taskID, commentID string) (*task.Task, error)
}

// ChatService runs the single conversation of a workspace.
type ChatService interface {
	Post(ctx context.Context, actorUserID, workspaceID, body, parentMessageID string) (conversation.Message, error)
	Edit(ctx context.Context, actorUserID, workspaceID, messageID, body string) (conversation.Message, error)
	Delete(ctx context.Context, actorUserID, workspaceID, messageID string) error
	History(ctx context.Context, actorUserID, workspaceID string) ([]conversation.Message, error)
}

type AvailabilityService interface {
	Create(ctx context.Context, actorUserID, projectID, name, description, startDate, endDate string) (*availability.Availability, error)
	Get(ctx context.Context, actorUserID, availabilityID string) (*availability.Availability, error)
	List(ctx context.Context, actorUserID, projectID string) ([]*availability.Availability, error)
	AddSegment(ctx context.Context, actorUserID, availabilityID string, in availability.SegmentInput) (*availability.Availability, availability.Segment, error)
	UpdateSegment(ctx context.Context, actorUserID, availabilityID, segmentID string, in availability.SegmentInput) (*availability.Availability, error)
	RemoveSegment(ctx context.Context, actorUserID, availabilityID, segmentID string) (*availability.Availability, error)
	UpdateDateRange(ctx context.Context, actorUserID, availabilityID, startDate, endDate string) (*availability.Availability, error)
	UpdateDetails(ctx context.Context, actorUserID, availabilityID, name, description string) (*availability.Availability, error)
	Archive(ctx context.Context, actorUserID, availabilityID string) (*availability.Availability, error)
	Reactivate(ctx context.Context, actorUserID, availabilityID string) (*availability.Availability, error)

	// TotalMinutes sums the valid minutes of every segment.
	TotalMinutes(ctx context.Context, actorUserID, availabilityID string) (int, error)
}

// AgentService manages AI agents, their commands and their private
// conversations.
type AgentService interface {
	Create(ctx context.Context, actorUserID, workspaceID, name, provider, model string, intents []aiagent.IntentType, requireApprovalForWrites bool) (*aiagent.Agent, error)
	Get(ctx context.Context, actorUserID, agentID string) (*aiagent.Agent, error)
	List(ctx context.Context, actorUserID, workspaceID string) ([]*aiagent.Agent, error)
	Pause(ctx context.Context, actorUserID, agentID string) (*aiagent.Agent, error)
	Activate(ctx context.Context, actorUserID, agentID string) (*aiagent.Agent, error)
	Revoke(ctx context.Context, actorUserID, agentID string) (*aiagent.Agent, error)
	UpdatePolicy(ctx context.Context, actorUserID, agentID string, intents []aiagent.IntentType, requireApprovalForWrites bool) (*aiagent.Agent, error)

	// Propose returns domain.ErrForbidden when the agent may not run the
	// intent for the initiator.
	Propose(ctx context.Context, initiatorUserID, agentID, projectID string, intent aiagent.IntentType, arguments map[string]string) (*aiagent.Command, error)
	Approve(ctx context.Context, actorUserID, commandID string) (*aiagent.Command, error)
	Reject(ctx context.Context, actorUserID, commandID, reason string) (*aiagent.Command, error)

	// Execute runs an approved command. A refused run yields a FAILED
	// command, not an error.
	Execute(ctx context.Context, actorUserID, commandID string) (*aiagent.Command, error)
	Commands(ctx context.Context, actorUserID, agentID string) ([]*aiagent.Command, error)

	OpenConversation(ctx context.Context, actorUserID, agentID string) (*aiagent.Conversation, error)
	GetConversation(ctx context.Context, actorUserID, conversationID string) (*aiagent.Conversation, error)
	AppendTurn(ctx context.Context, actorUserID, conversationID string, speaker aiagent.Speaker, body, commandID string) (*aiagent.Conversation, error)
	CloseConversation(ctx context.Context, actorUserID, conversationID string) (*aiagent.Conversation, error)
	ReopenConversation(ctx context.Context, actorUserID, conversationID string) (*aiagent.Conversation, error)
}
