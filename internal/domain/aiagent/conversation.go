package aiagent

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

const conversationAggregateType = "ai_conversation"

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser  Speaker = "USER"
	SpeakerAgent Speaker = "AGENT"
)

func (s Speaker) IsValid() bool { return s == SpeakerUser || s == SpeakerAgent }

// Turn is one exchange in an agent conversation. CommandID links a turn to
// the command it produced, if any.
type Turn struct {
	Speaker   Speaker
	Body      string
	CommandID string
	At        time.Time
}

// Conversation is a private thread between one user and one agent.
type Conversation struct {
	id          string
	agentID     string
	workspaceID string
	userID      string
	state       lifecycle.ConversationState
	turns       []Turn
	createdAt   time.Time
	events      event.Pending
}

// Open starts a conversation. The agent must be active.
func Open(agent *Agent, userID string, now time.Time) (*Conversation, error) {
	if userID == "" {
		return nil, domain.Unauthorized("user is required")
	}
	if agent == nil {
		return nil, domain.FieldError("agent", "is required")
	}
	if !agent.IsActive() {
		return nil, domain.InvalidState("agent %s is %s", agent.ID(), agent.State())
	}
	c := &Conversation{
		id:          uuid.NewString(),
		agentID:     agent.ID(),
		workspaceID: agent.WorkspaceID(),
		userID:      userID,
		state:       lifecycle.ConversationOpen,
		createdAt:   now.UTC(),
	}
	c.record(event.AIConversationOpened, map[string]any{"agentId": c.agentID, "userId": userID}, now)
	return c, nil
}

func (c *Conversation) ID() string                         { return c.id }
func (c *Conversation) AgentID() string                    { return c.agentID }
func (c *Conversation) WorkspaceID() string                { return c.workspaceID }
func (c *Conversation) UserID() string                     { return c.userID }
func (c *Conversation) State() lifecycle.ConversationState { return c.state }
func (c *Conversation) Turns() []Turn                      { return slices.Clone(c.turns) }
func (c *Conversation) CreatedAt() time.Time               { return c.createdAt }
func (c *Conversation) PendingEvents() []event.Event       { return c.events.Events() }

func (c *Conversation) PullDomainEvents() (*Conversation, []event.Event) {
	events := c.events.Events()
	next := c.clone()
	next.events = nil
	return next, events
}

// AppendTurn adds a turn to an open conversation.
func (c *Conversation) AppendTurn(speaker Speaker, body, commandID string, now time.Time) (*Conversation, error) {
	if !speaker.IsValid() {
		return nil, domain.FieldError("speaker", "unknown speaker "+string(speaker))
	}
	text, err := valueobject.NewText("body", body)
	if err != nil {
		return nil, err
	}
	reached, err := lifecycle.ConversationMachine.Next(c.state, lifecycle.ConversationAppend)
	if err != nil {
		return nil, err
	}
	next := c.clone()
	next.state = reached
	next.turns = append(next.turns, Turn{Speaker: speaker, Body: text.String(), CommandID: commandID, At: now.UTC()})
	next.record(event.AIConversationAppended, map[string]any{
		"speaker":   string(speaker),
		"commandId": commandID,
	}, now)
	return next, nil
}

// Close ends the conversation. Only its user may close it.
func (c *Conversation) Close(actorUserID string, now time.Time) (*Conversation, error) {
	return c.transition(actorUserID, lifecycle.ConversationClose, event.AIConversationClosed, now)
}

func (c *Conversation) Reopen(actorUserID string, now time.Time) (*Conversation, error) {
	return c.transition(actorUserID, lifecycle.ConversationReopen, event.AIConversationReopened, now)
}

func (c *Conversation) transition(actorUserID string, ev lifecycle.ConversationEvent, eventType string, now time.Time) (*Conversation, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	if actorUserID != c.userID {
		return nil, domain.Forbidden("conversation %s belongs to another user", c.id)
	}
	reached, err := lifecycle.ConversationMachine.Next(c.state, ev)
	if err != nil {
		return nil, err
	}
	next := c.clone()
	next.state = reached
	next.record(eventType, map[string]any{"actorUserId": actorUserID}, now)
	return next, nil
}

func (c *Conversation) clone() *Conversation {
	next := *c
	next.turns = slices.Clone(c.turns)
	return &next
}

func (c *Conversation) record(eventType string, payload map[string]any, now time.Time) {
	c.events = c.events.Append(event.New(eventType, conversationAggregateType, c.id, payload, now))
}
