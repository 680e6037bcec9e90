// Package conversation implements the WorkspaceConversation aggregate: the
// threaded chat of a workspace. Messages follow the message lifecycle and
// the same reply rules as task comments.
package conversation

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

const aggregateType = "conversation"

// Message is one chat message. EditedAt and DeletedAt are nil until the
// message is edited or deleted.
type Message struct {
	ID              string
	AuthorUserID    string
	Body            string
	ParentMessageID string
	CreatedAt       time.Time
	EditedAt        *time.Time
	DeletedAt       *time.Time
}

// IsDeleted reports whether the message was soft-deleted.
func (m Message) IsDeleted() bool { return m.DeletedAt != nil }

func (m Message) state() lifecycle.MessageState { return lifecycle.MessageStateOf(m.IsDeleted()) }

// Conversation is immutable: every operation returns a new *Conversation.
type Conversation struct {
	id          string
	workspaceID string
	createdAt   time.Time
	messages    []Message
	events      event.Pending
}

// New opens an empty conversation for a workspace.
func New(workspaceID string, now time.Time) (*Conversation, error) {
	if workspaceID == "" {
		return nil, domain.FieldError("workspace_id", "is required")
	}
	c := &Conversation{
		id:          uuid.NewString(),
		workspaceID: workspaceID,
		createdAt:   now.UTC(),
	}
	c.record(event.ConversationCreated, map[string]any{"workspaceId": workspaceID}, now)
	return c, nil
}

func (c *Conversation) ID() string           { return c.id }
func (c *Conversation) WorkspaceID() string  { return c.workspaceID }
func (c *Conversation) CreatedAt() time.Time { return c.createdAt }

// Messages returns the messages in posting order.
func (c *Conversation) Messages() []Message { return slices.Clone(c.messages) }

func (c *Conversation) Message(id string) (Message, bool) {
	if i := c.messageIndex(id); i >= 0 {
		return c.messages[i], true
	}
	return Message{}, false
}

// PullDomainEvents returns a drained copy together with the pending events.
func (c *Conversation) PullDomainEvents() (*Conversation, []event.Event) {
	events := c.events.Events()
	next := c.clone()
	next.events = nil
	return next, events
}

func (c *Conversation) PendingEvents() []event.Event { return c.events.Events() }

// AddMessage posts a message, optionally as a reply. Replying to a deleted
// message fails with INVALID_STATE.
func (c *Conversation) AddMessage(actorUserID, body, parentMessageID string, now time.Time) (*Conversation, Message, error) {
	if actorUserID == "" {
		return nil, Message{}, domain.Unauthorized("actor is required")
	}
	text, err := valueobject.NewText("body", body)
	if err != nil {
		return nil, Message{}, err
	}
	if parentMessageID != "" {
		pi := c.messageIndex(parentMessageID)
		if pi < 0 {
			return nil, Message{}, domain.NotFound("message %s not found in conversation %s", parentMessageID, c.id)
		}
		if c.messages[pi].IsDeleted() {
			return nil, Message{}, domain.InvalidState("cannot reply to deleted message %s", parentMessageID)
		}
		if _, err := lifecycle.MessageMachine.Next(c.messages[pi].state(), lifecycle.MessageReply); err != nil {
			return nil, Message{}, err
		}
	}

	m := Message{
		ID:              uuid.NewString(),
		AuthorUserID:    actorUserID,
		Body:            text.String(),
		ParentMessageID: parentMessageID,
		CreatedAt:       now.UTC(),
	}
	next := c.clone()
	next.messages = append(next.messages, m)
	next.record(event.ConversationMessageAdded, map[string]any{
		"messageId":       m.ID,
		"authorUserId":    actorUserID,
		"parentMessageId": parentMessageID,
	}, now)
	return next, m, nil
}

// EditMessage replaces the body of an active message. Only the author may
// edit.
func (c *Conversation) EditMessage(actorUserID, messageID, body string, now time.Time) (*Conversation, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	i := c.messageIndex(messageID)
	if i < 0 {
		return nil, domain.NotFound("message %s not found in conversation %s", messageID, c.id)
	}
	m := c.messages[i]
	if m.AuthorUserID != actorUserID {
		return nil, domain.Forbidden("only the author can edit message %s", messageID)
	}
	if _, err := lifecycle.MessageMachine.Next(m.state(), lifecycle.MessageEdit); err != nil {
		return nil, err
	}
	text, err := valueobject.NewText("body", body)
	if err != nil {
		return nil, err
	}
	if text.String() == m.Body {
		return c, nil
	}

	next := c.clone()
	editedAt := now.UTC()
	next.messages[i].Body = text.String()
	next.messages[i].EditedAt = &editedAt
	next.record(event.ConversationMessageEdited, map[string]any{
		"messageId":   messageID,
		"actorUserId": actorUserID,
	}, now)
	return next, nil
}

// DeleteMessage soft-deletes a message. Force is the moderation path: it
// skips the author check, takes active replies down with the message, and
// is a no-op on a message that is already deleted.
func (c *Conversation) DeleteMessage(actorUserID, messageID string, force bool, now time.Time) (*Conversation, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	i := c.messageIndex(messageID)
	if i < 0 {
		return nil, domain.NotFound("message %s not found in conversation %s", messageID, c.id)
	}
	m := c.messages[i]
	if !force && m.AuthorUserID != actorUserID {
		return nil, domain.Forbidden("only the author can delete message %s", messageID)
	}
	if force && m.IsDeleted() {
		return c, nil
	}
	if _, err := lifecycle.MessageMachine.Next(m.state(), lifecycle.MessageDelete); err != nil {
		return nil, err
	}
	thread := c.activeReplies(messageID)
	if !force && len(thread) > 0 {
		return nil, domain.InvalidState("message %s has active replies", messageID)
	}

	next := c.clone()
	deletedAt := now.UTC()
	for _, id := range append([]string{messageID}, thread...) {
		j := next.messageIndex(id)
		next.messages[j].DeletedAt = &deletedAt
		next.record(event.ConversationMessageDeleted, map[string]any{
			"messageId":    id,
			"actorUserId":  actorUserID,
			"authorUserId": next.messages[j].AuthorUserID,
			"forced":       force,
		}, now)
	}
	return next, nil
}

func (c *Conversation) messageIndex(id string) int {
	return slices.IndexFunc(c.messages, func(m Message) bool { return m.ID == id })
}

// activeReplies lists active messages below id, breadth first.
func (c *Conversation) activeReplies(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	frontier := []string{id}
	for len(frontier) > 0 {
		parent := frontier[0]
		frontier = frontier[1:]
		for _, m := range c.messages {
			if m.ParentMessageID == parent && !m.IsDeleted() && !seen[m.ID] {
				seen[m.ID] = true
				out = append(out, m.ID)
				frontier = append(frontier, m.ID)
			}
		}
	}
	return out
}

func (c *Conversation) clone() *Conversation {
	next := *c
	next.messages = slices.Clone(c.messages)
	return &next
}

func (c *Conversation) record(eventType string, payload map[string]any, now time.Time) {
	c.events = c.events.Append(event.New(eventType, aggregateType, c.id, payload, now))
}
