// Package aiagent implements AI agents bound to a workspace, the commands they
// propose, their conversations with users, and the policy deciding whether an
// agent may act for a human.
package aiagent

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

const agentAggregateType = "ai_agent"

// Policy is the agent's own allow-list.
type Policy struct {
	AllowedIntents           []IntentType
	RequireApprovalForWrites bool
}

// NewPolicy validates and de-duplicates the allow-list. Intents are kept
// sorted so that equal policies compare equal.
func NewPolicy(allowed []IntentType, requireApprovalForWrites bool) (Policy, error) {
	set := make([]IntentType, 0, len(allowed))
	for _, i := range allowed {
		if !i.IsValid() {
			return Policy{}, domain.FieldError("allowed_intents", "unknown intent "+string(i))
		}
		if !slices.Contains(set, i) {
			set = append(set, i)
		}
	}
	slices.Sort(set)
	return Policy{AllowedIntents: set, RequireApprovalForWrites: requireApprovalForWrites}, nil
}

// Allows reports whether intent is on the allow-list.
func (p Policy) Allows(intent IntentType) bool { return slices.Contains(p.AllowedIntents, intent) }

// RequiresApproval reports whether a command for intent must wait for a
// human decision.
func (p Policy) RequiresApproval(intent IntentType) bool {
	return p.RequireApprovalForWrites && intent.IsWrite()
}

func (p Policy) equal(o Policy) bool {
	return p.RequireApprovalForWrites == o.RequireApprovalForWrites && slices.Equal(p.AllowedIntents, o.AllowedIntents)
}

func (p Policy) clone() Policy {
	return Policy{AllowedIntents: slices.Clone(p.AllowedIntents), RequireApprovalForWrites: p.RequireApprovalForWrites}
}

// Agent is immutable: every operation returns a new *Agent.
type Agent struct {
	id              string
	workspaceID     string
	createdByUserID string
	name            valueobject.Name
	provider        string
	model           string
	state           lifecycle.AgentState
	policy          Policy
	createdAt       time.Time
	events          event.Pending
}

// New creates an ACTIVE agent. Whether the creator may manage agents is
// decided by the caller against workspace.ai.manage.
func New(workspaceID, creatorUserID, name, provider, model string, policy Policy, now time.Time) (*Agent, error) {
	if creatorUserID == "" {
		return nil, domain.Unauthorized("agent creator is required")
	}
	fields := make(map[string]string)
	if workspaceID == "" {
		fields["workspace_id"] = "is required"
	}
	provider, model = strings.TrimSpace(provider), strings.TrimSpace(model)
	if provider == "" {
		fields["provider"] = "is required"
	}
	if model == "" {
		fields["model"] = "is required"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	n, err := valueobject.NewName("name", name)
	if err != nil {
		return nil, err
	}
	policy, err = NewPolicy(policy.AllowedIntents, policy.RequireApprovalForWrites)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		id:              uuid.NewString(),
		workspaceID:     workspaceID,
		createdByUserID: creatorUserID,
		name:            n,
		provider:        provider,
		model:           model,
		state:           lifecycle.AgentActive,
		policy:          policy,
		createdAt:       now.UTC(),
	}
	a.record(event.AgentCreated, map[string]any{
		"workspaceId":     workspaceID,
		"createdByUserId": creatorUserID,
		"provider":        provider,
		"model":           model,
	}, now)
	return a, nil
}

func (a *Agent) ID() string                  { return a.id }
func (a *Agent) WorkspaceID() string         { return a.workspaceID }
func (a *Agent) CreatedByUserID() string     { return a.createdByUserID }
func (a *Agent) Name() string                { return a.name.String() }
func (a *Agent) Provider() string            { return a.provider }
func (a *Agent) Model() string               { return a.model }
func (a *Agent) State() lifecycle.AgentState { return a.state }
func (a *Agent) Policy() Policy              { return a.policy.clone() }
func (a *Agent) CreatedAt() time.Time        { return a.createdAt }

// IsActive reports whether the agent may currently act.
func (a *Agent) IsActive() bool { return a.state == lifecycle.AgentActive }

func (a *Agent) PullDomainEvents() (*Agent, []event.Event) {
	events := a.events.Events()
	next := *a
	next.events = nil
	return &next, events
}

func (a *Agent) PendingEvents() []event.Event { return a.events.Events() }

func (a *Agent) Pause(actorUserID string, now time.Time) (*Agent, error) {
	return a.transition(actorUserID, lifecycle.AgentPause, event.AgentPaused, now)
}

func (a *Agent) Activate(actorUserID string, now time.Time) (*Agent, error) {
	return a.transition(actorUserID, lifecycle.AgentActivate, event.AgentActivated, now)
}

// Revoke is final.
func (a *Agent) Revoke(actorUserID string, now time.Time) (*Agent, error) {
	return a.transition(actorUserID, lifecycle.AgentRevoke, event.AgentRevoked, now)
}

// UpdatePolicy replaces the allow-list. A revoked agent cannot be changed.
func (a *Agent) UpdatePolicy(actorUserID string, policy Policy, now time.Time) (*Agent, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	if a.state == lifecycle.AgentRevoked {
		return nil, domain.InvalidState("agent %s is revoked", a.id)
	}
	policy, err := NewPolicy(policy.AllowedIntents, policy.RequireApprovalForWrites)
	if err != nil {
		return nil, err
	}
	if policy.equal(a.policy) {
		return a, nil
	}
	next := *a
	next.policy = policy
	intents := make([]string, len(policy.AllowedIntents))
	for i, in := range policy.AllowedIntents {
		intents[i] = string(in)
	}
	next.record(event.AgentPolicyUpdated, map[string]any{
		"actorUserId":              actorUserID,
		"allowedIntents":           intents,
		"requireApprovalForWrites": policy.RequireApprovalForWrites,
	}, now)
	return &next, nil
}

func (a *Agent) transition(actorUserID string, ev lifecycle.AgentEvent, eventType string, now time.Time) (*Agent, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	reached, err := lifecycle.AgentMachine.Next(a.state, ev)
	if err != nil {
		return nil, err
	}
	next := *a
	next.state = reached
	next.record(eventType, map[string]any{"actorUserId": actorUserID}, now)
	return &next, nil
}

func (a *Agent) record(eventType string, payload map[string]any, now time.Time) {
	a.events = a.events.Append(event.New(eventType, agentAggregateType, a.id, payload, now))
}
