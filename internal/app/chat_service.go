package app

import (
	"context"
	"time"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/conversation"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

var _ ports.ChatService = (*ChatService)(nil)

// ChatService runs the workspace conversation. Each workspace has one
// conversation, created on the first post.
type ChatService struct {
	rt            *Runtime
	workspaces    ports.WorkspaceRepository
	conversations ports.ConversationRepository
	policy        rbac.AuthorizationPolicy
}

func NewChatService(rt *Runtime, workspaces ports.WorkspaceRepository, conversations ports.ConversationRepository) *ChatService {
	return &ChatService{rt: rt, workspaces: workspaces, conversations: conversations}
}

// Post requires workspace.chat.post. parentMessageID is optional.
func (s *ChatService) Post(ctx context.Context, actorUserID, workspaceID, body, parentMessageID string) (conversation.Message, error) {
	return run(ctx, s.rt, "PostMessage", workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, now time.Time) (conversation.Message, error) {
			if _, err := s.authorize(oc, actorUserID, workspaceID, rbac.WorkspaceChatPost); err != nil {
				return conversation.Message{}, err
			}
			c, err := workspaceConversation(oc, s.conversations, workspaceID, now)
			if err != nil {
				return conversation.Message{}, err
			}
			next, m, err := c.AddMessage(actorUserID, body, parentMessageID, now)
			if err != nil {
				return conversation.Message{}, err
			}
			_, err = persist(oc, kindConversation, next, s.conversations.Save)
			return m, err
		})
}

// Edit is limited to the author, who must still be a workspace member.
func (s *ChatService) Edit(ctx context.Context, actorUserID, workspaceID, messageID, body string) (conversation.Message, error) {
	return run(ctx, s.rt, "EditMessage", workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, now time.Time) (conversation.Message, error) {
			if _, err := s.authorize(oc, actorUserID, workspaceID, rbac.WorkspaceView); err != nil {
				return conversation.Message{}, err
			}
			c, err := loadWorkspaceConversation(oc, s.conversations, workspaceID)
			if err != nil {
				return conversation.Message{}, err
			}
			next, err := c.EditMessage(actorUserID, messageID, body, now)
			if err != nil {
				return conversation.Message{}, err
			}
			if next, err = persist(oc, kindConversation, next, s.conversations.Save); err != nil {
				return conversation.Message{}, err
			}
			m, _ := next.Message(messageID)
			return m, nil
		})
}

// Delete lets authors delete their own messages. Anyone else needs
// workspace.chat.moderate and deletes the whole thread.
func (s *ChatService) Delete(ctx context.Context, actorUserID, workspaceID, messageID string) error {
	_, err := run(ctx, s.rt, "DeleteMessage", workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, now time.Time) (struct{}, error) {
			ws, err := s.authorize(oc, actorUserID, workspaceID, rbac.WorkspaceView)
			if err != nil {
				return struct{}{}, err
			}
			c, err := loadWorkspaceConversation(oc, s.conversations, workspaceID)
			if err != nil {
				return struct{}{}, err
			}
			m, ok := c.Message(messageID)
			if !ok {
				return struct{}{}, domain.NotFound("message %s not found in workspace %s", messageID, workspaceID)
			}
			force := false
			if m.AuthorUserID != actorUserID {
				if !s.policy.CanInWorkspace(ws, actorUserID, rbac.WorkspaceChatModerate) {
					return struct{}{}, domain.Forbidden("user %s cannot moderate chat in workspace %s", actorUserID, workspaceID)
				}
				force = true
			}
			next, err := c.DeleteMessage(actorUserID, messageID, force, now)
			if err != nil {
				return struct{}{}, err
			}
			_, err = persist(oc, kindConversation, next, s.conversations.Save)
			return struct{}{}, err
		})
	return err
}

// History returns every message, deleted ones included, in posting order.
// A workspace nobody has posted in has an empty history.
func (s *ChatService) History(ctx context.Context, actorUserID, workspaceID string) ([]conversation.Message, error) {
	return run(ctx, s.rt, "ChatHistory", workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, _ time.Time) ([]conversation.Message, error) {
			if _, err := s.authorize(oc, actorUserID, workspaceID, rbac.WorkspaceView); err != nil {
				return nil, err
			}
			c, err := loadWorkspaceConversation(oc, s.conversations, workspaceID)
			if isNotFound(err) {
				return []conversation.Message{}, nil
			}
			if err != nil {
				return nil, err
			}
			return c.Messages(), nil
		})
}

func (s *ChatService) authorize(oc *appctx.OperationContext, actorUserID, workspaceID string, perm rbac.WorkspacePermission) (*workspace.Workspace, error) {
	if err := requireActor(actorUserID); err != nil {
		return nil, err
	}
	ws, err := loadWorkspace(oc, s.workspaces, workspaceID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanInWorkspace(ws, actorUserID, perm) {
		return nil, domain.Forbidden("user %s lacks %s in workspace %s", actorUserID, perm, workspaceID)
	}
	return ws, nil
}
