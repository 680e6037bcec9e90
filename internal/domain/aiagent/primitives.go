package aiagent

import (
	"maps"
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

type AgentPrimitives struct {
	ID                       string    `json:"id"`
	WorkspaceID              string    `json:"workspace_id"`
	CreatedByUserID          string    `json:"created_by_user_id"`
	Name                     string    `json:"name"`
	Provider                 string    `json:"provider"`
	Model                    string    `json:"model"`
	State                    string    `json:"state"`
	AllowedIntents           []string  `json:"allowed_intents"`
	RequireApprovalForWrites bool      `json:"require_approval_for_writes"`
	CreatedAt                time.Time `json:"created_at"`
}

func (a *Agent) ToPrimitives() AgentPrimitives {
	intents := make([]string, len(a.policy.AllowedIntents))
	for i, in := range a.policy.AllowedIntents {
		intents[i] = string(in)
	}
	return AgentPrimitives{
		ID:                       a.id,
		WorkspaceID:              a.workspaceID,
		CreatedByUserID:          a.createdByUserID,
		Name:                     a.name.String(),
		Provider:                 a.provider,
		Model:                    a.model,
		State:                    string(a.state),
		AllowedIntents:           intents,
		RequireApprovalForWrites: a.policy.RequireApprovalForWrites,
		CreatedAt:                a.createdAt,
	}
}

func RehydrateAgent(p AgentPrimitives) (*Agent, error) {
	if p.ID == "" || p.WorkspaceID == "" {
		return nil, domain.InvalidState("agent snapshot is missing its id or workspace")
	}
	name, err := valueobject.NewName("name", p.Name)
	if err != nil {
		return nil, err
	}
	state := lifecycle.AgentState(p.State)
	if !state.IsValid() {
		return nil, domain.InvalidState("agent %s has unknown state %q", p.ID, p.State)
	}
	intents := make([]IntentType, len(p.AllowedIntents))
	for i, in := range p.AllowedIntents {
		intents[i] = IntentType(in)
	}
	policy, err := NewPolicy(intents, p.RequireApprovalForWrites)
	if err != nil {
		return nil, err
	}
	return &Agent{
		id:              p.ID,
		workspaceID:     p.WorkspaceID,
		createdByUserID: p.CreatedByUserID,
		name:            name,
		provider:        p.Provider,
		model:           p.Model,
		state:           state,
		policy:          policy,
		createdAt:       p.CreatedAt,
	}, nil
}

type CommandPrimitives struct {
	ID              string            `json:"id"`
	AgentID         string            `json:"agent_id"`
	WorkspaceID     string            `json:"workspace_id"`
	ProjectID       string            `json:"project_id,omitempty"`
	InitiatorUserID string            `json:"initiator_user_id"`
	Intent          string            `json:"intent"`
	Arguments       map[string]string `json:"arguments,omitempty"`
	State           string            `json:"state"`
	DecidedByUserID string            `json:"decided_by_user_id,omitempty"`
	Outcome         string            `json:"outcome,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (c *Command) ToPrimitives() CommandPrimitives {
	return CommandPrimitives{
		ID:              c.id,
		AgentID:         c.agentID,
		WorkspaceID:     c.workspaceID,
		ProjectID:       c.projectID,
		InitiatorUserID: c.initiatorUserID,
		Intent:          string(c.intent),
		Arguments:       maps.Clone(c.arguments),
		State:           string(c.state),
		DecidedByUserID: c.decidedByUserID,
		Outcome:         c.outcome,
		CreatedAt:       c.createdAt,
		UpdatedAt:       c.updatedAt,
	}
}

func RehydrateCommand(p CommandPrimitives) (*Command, error) {
	if p.ID == "" || p.AgentID == "" {
		return nil, domain.InvalidState("command snapshot is missing its id or agent")
	}
	intent := IntentType(p.Intent)
	if !intent.IsValid() {
		return nil, domain.InvalidState("command %s has unknown intent %q", p.ID, p.Intent)
	}
	state := lifecycle.CommandState(p.State)
	if !state.IsValid() {
		return nil, domain.InvalidState("command %s has unknown state %q", p.ID, p.State)
	}
	if intent.Scope() == ScopeProject && p.ProjectID == "" {
		return nil, domain.InvalidState("command %s targets %s without a project", p.ID, intent)
	}
	return &Command{
		id:              p.ID,
		agentID:         p.AgentID,
		workspaceID:     p.WorkspaceID,
		projectID:       p.ProjectID,
		initiatorUserID: p.InitiatorUserID,
		intent:          intent,
		arguments:       maps.Clone(p.Arguments),
		state:           state,
		decidedByUserID: p.DecidedByUserID,
		outcome:         p.Outcome,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}, nil
}

type ConversationPrimitives struct {
	ID          string           `json:"id"`
	AgentID     string           `json:"agent_id"`
	WorkspaceID string           `json:"workspace_id"`
	UserID      string           `json:"user_id"`
	State       string           `json:"state"`
	Turns       []TurnPrimitives `json:"turns"`
	CreatedAt   time.Time        `json:"created_at"`
}

type TurnPrimitives struct {
	Speaker   string    `json:"speaker"`
	Body      string    `json:"body"`
	CommandID string    `json:"command_id,omitempty"`
	At        time.Time `json:"at"`
}

func (c *Conversation) ToPrimitives() ConversationPrimitives {
	turns := make([]TurnPrimitives, len(c.turns))
	for i, t := range c.turns {
		turns[i] = TurnPrimitives{Speaker: string(t.Speaker), Body: t.Body, CommandID: t.CommandID, At: t.At}
	}
	return ConversationPrimitives{
		ID:          c.id,
		AgentID:     c.agentID,
		WorkspaceID: c.workspaceID,
		UserID:      c.userID,
		State:       string(c.state),
		Turns:       turns,
		CreatedAt:   c.createdAt,
	}
}

func RehydrateConversation(p ConversationPrimitives) (*Conversation, error) {
	if p.ID == "" || p.AgentID == "" || p.UserID == "" {
		return nil, domain.InvalidState("conversation snapshot is missing its id, agent or user")
	}
	state := lifecycle.ConversationState(p.State)
	if !state.IsValid() {
		return nil, domain.InvalidState("conversation %s has unknown state %q", p.ID, p.State)
	}
	turns := make([]Turn, 0, len(p.Turns))
	for _, t := range p.Turns {
		speaker := Speaker(t.Speaker)
		if !speaker.IsValid() {
			return nil, domain.InvalidState("conversation %s has a turn with unknown speaker %q", p.ID, t.Speaker)
		}
		turns = append(turns, Turn{Speaker: speaker, Body: t.Body, CommandID: t.CommandID, At: t.At})
	}
	return &Conversation{
		id:          p.ID,
		agentID:     p.AgentID,
		workspaceID: p.WorkspaceID,
		userID:      p.UserID,
		state:       state,
		turns:       turns,
		createdAt:   p.CreatedAt,
	}, nil
}
