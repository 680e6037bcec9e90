package sqlite

import (
	"context"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/aiagent"
	"github.com/jsamuelsen11/teamspace/internal/domain/availability"
	"github.com/jsamuelsen11/teamspace/internal/domain/conversation"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/task"
	"github.com/jsamuelsen11/teamspace/internal/domain/user"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.UserRepository         = (*UserRepository)(nil)
	_ ports.WorkspaceRepository    = (*WorkspaceRepository)(nil)
	_ ports.ProjectRepository      = (*ProjectRepository)(nil)
	_ ports.TaskRepository         = (*TaskRepository)(nil)
	_ ports.AvailabilityRepository = (*AvailabilityRepository)(nil)
	_ ports.ConversationRepository = (*ConversationRepository)(nil)
	_ ports.AgentRepository        = (*AgentRepository)(nil)
)

type UserRepository struct{ store *Store }

func NewUserRepository(store *Store) *UserRepository { return &UserRepository{store: store} }

func (r *UserRepository) FindByID(ctx context.Context, id string) (user.Primitives, error) {
	var p user.Primitives
	err := r.store.get(ctx, kindUser, id, &p)
	return p, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.Primitives, error) {
	var p user.Primitives
	err := r.store.getBy(ctx, kindUser, "secondary_key", valueobject.NormalizeEmail(email), &p)
	return p, err
}

func (r *UserRepository) Save(ctx context.Context, u user.Primitives) error {
	email := valueobject.NormalizeEmail(u.Email)
	other, err := r.store.takenBy(ctx, kindUser, "secondary_key", email, u.ID)
	if err != nil {
		return err
	}
	if other != "" {
		return domain.Duplicate("email %s is already registered", email)
	}
	return r.store.put(ctx, kindUser, u.ID, keys{secondary: email}, u)
}

type WorkspaceRepository struct{ store *Store }

func NewWorkspaceRepository(store *Store) *WorkspaceRepository {
	return &WorkspaceRepository{store: store}
}

func (r *WorkspaceRepository) FindByID(ctx context.Context, id string) (workspace.Primitives, error) {
	var p workspace.Primitives
	err := r.store.get(ctx, kindWorkspace, id, &p)
	return p, err
}

func (r *WorkspaceRepository) ListByOwnerUserID(ctx context.Context, userID string) ([]workspace.Primitives, error) {
	return list[workspace.Primitives](ctx, r.store, kindWorkspace, userID)
}

// Save indexes the workspace under its current owner so ownership transfers
// move it between owner listings.
func (r *WorkspaceRepository) Save(ctx context.Context, w workspace.Primitives) error {
	return r.store.put(ctx, kindWorkspace, w.ID, keys{scope: w.OwnerUserID}, w)
}

type ProjectRepository struct{ store *Store }

func NewProjectRepository(store *Store) *ProjectRepository { return &ProjectRepository{store: store} }

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (project.Primitives, error) {
	var p project.Primitives
	err := r.store.get(ctx, kindProject, id, &p)
	return p, err
}

func (r *ProjectRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]project.Primitives, error) {
	return list[project.Primitives](ctx, r.store, kindProject, workspaceID)
}

func (r *ProjectRepository) Save(ctx context.Context, p project.Primitives) error {
	return r.store.put(ctx, kindProject, p.ID, keys{scope: p.WorkspaceID}, p)
}

type TaskRepository struct{ store *Store }

func NewTaskRepository(store *Store) *TaskRepository { return &TaskRepository{store: store} }

func (r *TaskRepository) FindByID(ctx context.Context, id string) (task.Primitives, error) {
	var p task.Primitives
	err := r.store.get(ctx, kindTask, id, &p)
	return p, err
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]task.Primitives, error) {
	return list[task.Primitives](ctx, r.store, kindTask, projectID)
}

func (r *TaskRepository) Save(ctx context.Context, t task.Primitives) error {
	return r.store.put(ctx, kindTask, t.ID, keys{scope: t.ProjectID, secondary: t.TodoListID}, t)
}

type AvailabilityRepository struct{ store *Store }

func NewAvailabilityRepository(store *Store) *AvailabilityRepository {
	return &AvailabilityRepository{store: store}
}

func (r *AvailabilityRepository) FindByID(ctx context.Context, id string) (availability.Primitives, error) {
	var p availability.Primitives
	err := r.store.get(ctx, kindAvailability, id, &p)
	return p, err
}

func (r *AvailabilityRepository) ListByProject(ctx context.Context, projectID string) ([]availability.Primitives, error) {
	return list[availability.Primitives](ctx, r.store, kindAvailability, projectID)
}

func (r *AvailabilityRepository) Save(ctx context.Context, a availability.Primitives) error {
	return r.store.put(ctx, kindAvailability, a.ID, keys{scope: a.ProjectID}, a)
}

type ConversationRepository struct{ store *Store }

func NewConversationRepository(store *Store) *ConversationRepository {
	return &ConversationRepository{store: store}
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (conversation.Primitives, error) {
	var p conversation.Primitives
	err := r.store.get(ctx, kindConversation, id, &p)
	return p, err
}

func (r *ConversationRepository) FindByWorkspace(ctx context.Context, workspaceID string) (conversation.Primitives, error) {
	var p conversation.Primitives
	err := r.store.getBy(ctx, kindConversation, "scope_key", workspaceID, &p)
	return p, err
}

func (r *ConversationRepository) Save(ctx context.Context, c conversation.Primitives) error {
	other, err := r.store.takenBy(ctx, kindConversation, "scope_key", c.WorkspaceID, c.ID)
	if err != nil {
		return err
	}
	if other != "" {
		return domain.Duplicate("workspace %s already has conversation %s", c.WorkspaceID, other)
	}
	return r.store.put(ctx, kindConversation, c.ID, keys{scope: c.WorkspaceID}, c)
}

type AgentRepository struct{ store *Store }

func NewAgentRepository(store *Store) *AgentRepository { return &AgentRepository{store: store} }

func (r *AgentRepository) FindByID(ctx context.Context, id string) (aiagent.AgentPrimitives, error) {
	var p aiagent.AgentPrimitives
	err := r.store.get(ctx, kindAgent, id, &p)
	return p, err
}

func (r *AgentRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]aiagent.AgentPrimitives, error) {
	return list[aiagent.AgentPrimitives](ctx, r.store, kindAgent, workspaceID)
}

func (r *AgentRepository) Save(ctx context.Context, a aiagent.AgentPrimitives) error {
	return r.store.put(ctx, kindAgent, a.ID, keys{scope: a.WorkspaceID}, a)
}

func (r *AgentRepository) FindCommand(ctx context.Context, id string) (aiagent.CommandPrimitives, error) {
	var p aiagent.CommandPrimitives
	err := r.store.get(ctx, kindAgentCommand, id, &p)
	return p, err
}

func (r *AgentRepository) ListCommands(ctx context.Context, agentID string) ([]aiagent.CommandPrimitives, error) {
	return list[aiagent.CommandPrimitives](ctx, r.store, kindAgentCommand, agentID)
}

func (r *AgentRepository) SaveCommand(ctx context.Context, c aiagent.CommandPrimitives) error {
	return r.store.put(ctx, kindAgentCommand, c.ID, keys{scope: c.AgentID, secondary: c.WorkspaceID}, c)
}

func (r *AgentRepository) FindConversation(ctx context.Context, id string) (aiagent.ConversationPrimitives, error) {
	var p aiagent.ConversationPrimitives
	err := r.store.get(ctx, kindAgentConversation, id, &p)
	return p, err
}

func (r *AgentRepository) SaveConversation(ctx context.Context, c aiagent.ConversationPrimitives) error {
	return r.store.put(ctx, kindAgentConversation, c.ID, keys{scope: c.AgentID, secondary: c.UserID}, c)
}
