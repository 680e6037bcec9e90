package conversation

import (
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
)

// Primitives is the flat, JSON-serializable snapshot of a Conversation.
type Primitives struct {
	ID          string              `json:"id"`
	WorkspaceID string              `json:"workspace_id"`
	CreatedAt   time.Time           `json:"created_at"`
	Messages    []MessagePrimitives `json:"messages"`
}

type MessagePrimitives struct {
	ID              string     `json:"id"`
	AuthorUserID    string     `json:"author_user_id"`
	Body            string     `json:"body"`
	ParentMessageID string     `json:"parent_message_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	EditedAt        *time.Time `json:"edited_at,omitempty"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

func (c *Conversation) ToPrimitives() Primitives {
	messages := make([]MessagePrimitives, len(c.messages))
	for i, m := range c.messages {
		messages[i] = MessagePrimitives(m)
	}
	return Primitives{
		ID:          c.id,
		WorkspaceID: c.workspaceID,
		CreatedAt:   c.createdAt,
		Messages:    messages,
	}
}

// Rehydrate rebuilds a Conversation and re-validates the reply tree.
func Rehydrate(p Primitives) (*Conversation, error) {
	if p.ID == "" {
		return nil, domain.FieldError("id", "is required")
	}
	if p.WorkspaceID == "" {
		return nil, domain.FieldError("workspace_id", "is required")
	}
	byID := make(map[string]MessagePrimitives, len(p.Messages))
	for _, m := range p.Messages {
		if m.ID == "" {
			return nil, domain.InvalidState("conversation %s has a message without id", p.ID)
		}
		if _, dup := byID[m.ID]; dup {
			return nil, domain.InvalidState("conversation %s has duplicate message id %s", p.ID, m.ID)
		}
		byID[m.ID] = m
	}
	for _, m := range p.Messages {
		seen := map[string]bool{m.ID: true}
		for parent := m.ParentMessageID; parent != ""; parent = byID[parent].ParentMessageID {
			if seen[parent] {
				return nil, domain.InvalidState("message %s is part of a reply cycle", m.ID)
			}
			seen[parent] = true
		}
	}
	messages := make([]Message, 0, len(p.Messages))
	for _, m := range p.Messages {
		if m.ParentMessageID != "" {
			parent, ok := byID[m.ParentMessageID]
			if !ok {
				return nil, domain.InvalidState("message %s replies to missing message %s", m.ID, m.ParentMessageID)
			}
			if parent.DeletedAt != nil && m.DeletedAt == nil {
				return nil, domain.InvalidState("message %s replies to deleted message %s", m.ID, m.ParentMessageID)
			}
		}
		messages = append(messages, Message(m))
	}
	return &Conversation{
		id:          p.ID,
		workspaceID: p.WorkspaceID,
		createdAt:   p.CreatedAt,
		messages:    messages,
	}, nil
}
