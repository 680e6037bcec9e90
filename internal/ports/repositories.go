package ports

import (
	"context"

	"github.com/jsamuelsen11/teamspace/internal/domain/aiagent"
	"github.com/jsamuelsen11/teamspace/internal/domain/availability"
	"github.com/jsamuelsen11/teamspace/internal/domain/conversation"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/task"
	"github.com/jsamuelsen11/teamspace/internal/domain/user"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
)

// Repositories persist the primitive snapshot of an aggregate, never the
// aggregate itself. Every FindByID returns domain.ErrNotFound (wrapped in a
// *domain.Error) when no snapshot exists. Save inserts or replaces.

// UserRepository stores users keyed by id and by normalized email.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (user.Primitives, error)

	// FindByEmail normalizes email before the lookup.
	FindByEmail(ctx context.Context, email string) (user.Primitives, error)

	// Save returns domain.ErrDuplicate when another user already holds the
	// email.
	Save(ctx context.Context, u user.Primitives) error
}

type WorkspaceRepository interface {
	FindByID(ctx context.Context, id string) (workspace.Primitives, error)

	// ListByOwnerUserID returns the workspaces currently owned by userID.
	ListByOwnerUserID(ctx context.Context, userID string) ([]workspace.Primitives, error)

	Save(ctx context.Context, w workspace.Primitives) error
}

type ProjectRepository interface {
	FindByID(ctx context.Context, id string) (project.Primitives, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]project.Primitives, error)
	Save(ctx context.Context, p project.Primitives) error
}

type TaskRepository interface {
	FindByID(ctx context.Context, id string) (task.Primitives, error)
	ListByProject(ctx context.Context, projectID string) ([]task.Primitives, error)
	Save(ctx context.Context, t task.Primitives) error
}

type AvailabilityRepository interface {
	FindByID(ctx context.Context, id string) (availability.Primitives, error)
	ListByProject(ctx context.Context, projectID string) ([]availability.Primitives, error)
	Save(ctx context.Context, a availability.Primitives) error
}

// ConversationRepository stores workspace chats. A workspace has at most one
// conversation.
type ConversationRepository interface {
	FindByID(ctx context.Context, id string) (conversation.Primitives, error)
	FindByWorkspace(ctx context.Context, workspaceID string) (conversation.Primitives, error)
	Save(ctx context.Context, c conversation.Primitives) error
}

// AgentRepository stores agents together with their commands and
// conversations.
type AgentRepository interface {
	FindByID(ctx context.Context, id string) (aiagent.AgentPrimitives, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]aiagent.AgentPrimitives, error)
	Save(ctx context.Context, a aiagent.AgentPrimitives) error

	FindCommand(ctx context.Context, id string) (aiagent.CommandPrimitives, error)
	ListCommands(ctx context.Context, agentID string) ([]aiagent.CommandPrimitives, error)
	SaveCommand(ctx context.Context, c aiagent.CommandPrimitives) error

	FindConversation(ctx context.Context, id string) (aiagent.ConversationPrimitives, error)
	SaveConversation(ctx context.Context, c aiagent.ConversationPrimitives) error
}
