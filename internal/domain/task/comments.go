package task

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

// Comment is one node of a task's comment tree. ParentCommentID is empty for
// top-level comments; DeletedAt is nil while the comment is active.
type Comment struct {
	ID              string
	AuthorUserID    string
	Body            string
	ParentCommentID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// IsDeleted reports whether the comment was soft-deleted.
func (c Comment) IsDeleted() bool { return c.DeletedAt != nil }

func (c Comment) state() lifecycle.MessageState { return lifecycle.MessageStateOf(c.IsDeleted()) }

// Comments returns a copy of the comment list in creation order.
func (t *Task) Comments() []Comment { return slices.Clone(t.comments) }

// Comment returns the comment with the given id.
func (t *Task) Comment(id string) (Comment, bool) {
	if i := t.commentIndex(id); i >= 0 {
		return t.comments[i], true
	}
	return Comment{}, false
}

// AddComment appends a comment, optionally as a reply to parentCommentID.
// Replying to a deleted comment fails with INVALID_STATE.
func (t *Task) AddComment(actorUserID, body, parentCommentID string, now time.Time) (*Task, Comment, error) {
	if actorUserID == "" {
		return nil, Comment{}, domain.Unauthorized("actor is required")
	}
	text, err := valueobject.NewText("body", body)
	if err != nil {
		return nil, Comment{}, err
	}
	if parentCommentID != "" {
		pi := t.commentIndex(parentCommentID)
		if pi < 0 {
			return nil, Comment{}, domain.NotFound("comment %s not found on task %s", parentCommentID, t.id)
		}
		if t.comments[pi].IsDeleted() {
			return nil, Comment{}, domain.InvalidState("cannot reply to deleted comment %s", parentCommentID)
		}
		if _, err := lifecycle.MessageMachine.Next(t.comments[pi].state(), lifecycle.MessageReply); err != nil {
			return nil, Comment{}, err
		}
	}

	c := Comment{
		ID:              uuid.NewString(),
		AuthorUserID:    actorUserID,
		Body:            text.String(),
		ParentCommentID: parentCommentID,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
	next := t.clone()
	next.comments = append(next.comments, c)
	next.updatedAt = now.UTC()
	next.record(event.TaskCommentAdded, map[string]any{
		"commentId":       c.ID,
		"authorUserId":    actorUserID,
		"parentCommentId": parentCommentID,
	}, now)
	return next, c, nil
}

// EditComment replaces the body of an active comment. Only the author may
// edit.
func (t *Task) EditComment(actorUserID, commentID, body string, now time.Time) (*Task, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	i := t.commentIndex(commentID)
	if i < 0 {
		return nil, domain.NotFound("comment %s not found on task %s", commentID, t.id)
	}
	c := t.comments[i]
	if c.AuthorUserID != actorUserID {
		return nil, domain.Forbidden("only the author can edit comment %s", commentID)
	}
	if _, err := lifecycle.MessageMachine.Next(c.state(), lifecycle.MessageEdit); err != nil {
		return nil, err
	}
	text, err := valueobject.NewText("body", body)
	if err != nil {
		return nil, err
	}
	if text.String() == c.Body {
		return t, nil
	}

	next := t.clone()
	next.comments[i].Body = text.String()
	next.comments[i].UpdatedAt = now.UTC()
	next.updatedAt = now.UTC()
	next.record(event.TaskCommentEdited, map[string]any{
		"commentId":   commentID,
		"actorUserId": actorUserID,
	}, now)
	return next, nil
}

// DeleteComment soft-deletes a comment. Without force only the author may
// delete, and a comment with active replies cannot be deleted. With force
// (moderation) the author check is skipped, the whole thread below the
// comment is deleted with it, and deleting an already deleted comment is a
// no-op returning the receiver.
func (t *Task) DeleteComment(actorUserID, commentID string, force bool, now time.Time) (*Task, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	i := t.commentIndex(commentID)
	if i < 0 {
		return nil, domain.NotFound("comment %s not found on task %s", commentID, t.id)
	}
	c := t.comments[i]
	if !force && c.AuthorUserID != actorUserID {
		return nil, domain.Forbidden("only the author can delete comment %s", commentID)
	}
	if force && c.IsDeleted() {
		return t, nil
	}
	if _, err := lifecycle.MessageMachine.Next(c.state(), lifecycle.MessageDelete); err != nil {
		return nil, err
	}
	thread := t.activeDescendants(commentID)
	if !force && len(thread) > 0 {
		return nil, domain.InvalidState("comment %s has active replies", commentID)
	}

	next := t.clone()
	deletedAt := now.UTC()
	for _, id := range append([]string{commentID}, thread...) {
		j := next.commentIndex(id)
		next.comments[j].DeletedAt = &deletedAt
		next.comments[j].UpdatedAt = deletedAt
		next.record(event.TaskCommentDeleted, map[string]any{
			"commentId":    id,
			"actorUserId":  actorUserID,
			"authorUserId": next.comments[j].AuthorUserID,
			"forced":       force,
		}, now)
	}
	next.updatedAt = deletedAt
	return next, nil
}

func (t *Task) commentIndex(id string) int {
	return slices.IndexFunc(t.comments, func(c Comment) bool { return c.ID == id })
}

// activeDescendants lists the ids of active comments below id, parents
// before children.
func (t *Task) activeDescendants(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	frontier := []string{id}
	for len(frontier) > 0 {
		parent := frontier[0]
		frontier = frontier[1:]
		for _, c := range t.comments {
			if c.ParentCommentID == parent && !c.IsDeleted() && !seen[c.ID] {
				seen[c.ID] = true
				out = append(out, c.ID)
				frontier = append(frontier, c.ID)
			}
		}
	}
	return out
}
