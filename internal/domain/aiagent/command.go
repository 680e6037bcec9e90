package aiagent

import (
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
)

const commandAggregateType = "ai_command"

// Command is a single intent an agent proposes on behalf of its initiator.
// Commands that need no approval are approved at proposal time.
type Command struct {
	id              string
	agentID         string
	workspaceID     string
	projectID       string
	initiatorUserID string
	intent          IntentType
	arguments       map[string]string
	state           lifecycle.CommandState
	decidedByUserID string
	outcome         string
	createdAt       time.Time
	updatedAt       time.Time
	events          event.Pending
}

// Propose records a command. The agent must be active and allow the intent;
// whether the initiator may run it is AuthorizationPolicy's concern.
func Propose(agent *Agent, projectID, initiatorUserID string, intent IntentType, arguments map[string]string, now time.Time) (*Command, error) {
	if initiatorUserID == "" {
		return nil, domain.Unauthorized("initiator is required")
	}
	if agent == nil {
		return nil, domain.FieldError("agent", "is required")
	}
	if !intent.IsValid() {
		return nil, domain.FieldError("intent", "unknown intent "+string(intent))
	}
	if intent.Scope() == ScopeProject && projectID == "" {
		return nil, domain.FieldError("project_id", "is required for "+string(intent))
	}
	if !agent.IsActive() {
		return nil, domain.InvalidState("agent %s is %s", agent.ID(), agent.State())
	}
	if !agent.policy.Allows(intent) {
		return nil, domain.Forbidden("agent %s is not allowed to %s", agent.ID(), intent)
	}

	c := &Command{
		id:              uuid.NewString(),
		agentID:         agent.ID(),
		workspaceID:     agent.WorkspaceID(),
		projectID:       projectID,
		initiatorUserID: initiatorUserID,
		intent:          intent,
		arguments:       maps.Clone(arguments),
		state:           lifecycle.CommandProposed,
		createdAt:       now.UTC(),
		updatedAt:       now.UTC(),
	}
	c.record(event.CommandProposed, map[string]any{
		"agentId":         c.agentID,
		"initiatorUserId": initiatorUserID,
		"intent":          string(intent),
		"projectId":       projectID,
	}, now)

	if agent.policy.RequiresApproval(intent) {
		return c, nil
	}
	c.state, _ = lifecycle.CommandMachine.Next(c.state, lifecycle.CommandApprove)
	c.record(event.CommandApproved, map[string]any{"automatic": true}, now)
	return c, nil
}

func (c *Command) ID() string                    { return c.id }
func (c *Command) AgentID() string               { return c.agentID }
func (c *Command) WorkspaceID() string           { return c.workspaceID }
func (c *Command) ProjectID() string             { return c.projectID }
func (c *Command) InitiatorUserID() string       { return c.initiatorUserID }
func (c *Command) Intent() IntentType            { return c.intent }
func (c *Command) Arguments() map[string]string  { return maps.Clone(c.arguments) }
func (c *Command) State() lifecycle.CommandState { return c.state }
func (c *Command) DecidedByUserID() string       { return c.decidedByUserID }
func (c *Command) Outcome() string               { return c.outcome }
func (c *Command) CreatedAt() time.Time          { return c.createdAt }
func (c *Command) UpdatedAt() time.Time          { return c.updatedAt }
func (c *Command) PendingEvents() []event.Event  { return c.events.Events() }

func (c *Command) PullDomainEvents() (*Command, []event.Event) {
	events := c.events.Events()
	next := *c
	next.events = nil
	return &next, events
}

// Approve lets a pending command run. Permission to decide is checked by the
// caller.
func (c *Command) Approve(actorUserID string, now time.Time) (*Command, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	next, err := c.step(lifecycle.CommandApprove, event.CommandApproved, map[string]any{"actorUserId": actorUserID}, now)
	if err != nil {
		return nil, err
	}
	next.decidedByUserID = actorUserID
	return next, nil
}

// Reject closes a pending command without running it.
func (c *Command) Reject(actorUserID, reason string, now time.Time) (*Command, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	reason = strings.TrimSpace(reason)
	next, err := c.step(lifecycle.CommandReject, event.CommandRejected, map[string]any{
		"actorUserId": actorUserID,
		"reason":      reason,
	}, now)
	if err != nil {
		return nil, err
	}
	next.decidedByUserID = actorUserID
	next.outcome = reason
	return next, nil
}

// MarkExecuted records a successful run with a short summary.
func (c *Command) MarkExecuted(summary string, now time.Time) (*Command, error) {
	summary = strings.TrimSpace(summary)
	next, err := c.step(lifecycle.CommandExecute, event.CommandExecuted, map[string]any{"summary": summary}, now)
	if err != nil {
		return nil, err
	}
	next.outcome = summary
	return next, nil
}

// MarkFailed records a failed run.
func (c *Command) MarkFailed(reason string, now time.Time) (*Command, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.FieldError("reason", "is required")
	}
	next, err := c.step(lifecycle.CommandFail, event.CommandFailed, map[string]any{"reason": reason}, now)
	if err != nil {
		return nil, err
	}
	next.outcome = reason
	return next, nil
}

func (c *Command) step(ev lifecycle.CommandEvent, eventType string, payload map[string]any, now time.Time) (*Command, error) {
	reached, err := lifecycle.CommandMachine.Next(c.state, ev)
	if err != nil {
		return nil, err
	}
	next := *c
	next.state = reached
	next.updatedAt = now.UTC()
	next.record(eventType, payload, now)
	return &next, nil
}

func (c *Command) record(eventType string, payload map[string]any, now time.Time) {
	c.events = c.events.Append(event.New(eventType, commandAggregateType, c.id, payload, now))
}
