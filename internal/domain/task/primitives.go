package task

import (
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

// Primitives is the flat, JSON-serializable snapshot of a Task.
type Primitives struct {
	ID              string                   `json:"id"`
	ProjectID       string                   `json:"project_id"`
	TodoListID      string                   `json:"todo_list_id"`
	Title           string                   `json:"title"`
	OrderIndex      int                      `json:"order_index"`
	Status          string                   `json:"status"`
	AssigneeUserID  string                   `json:"assignee_user_id,omitempty"`
	CreatedByUserID string                   `json:"created_by_user_id"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	StatusHistory   []StatusChangePrimitives `json:"status_history"`
	Comments        []CommentPrimitives      `json:"comments"`
}

type StatusChangePrimitives struct {
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	ActorUserID string    `json:"actor_user_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type CommentPrimitives struct {
	ID              string     `json:"id"`
	AuthorUserID    string     `json:"author_user_id"`
	Body            string     `json:"body"`
	ParentCommentID string     `json:"parent_comment_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

func (t *Task) ToPrimitives() Primitives {
	history := make([]StatusChangePrimitives, len(t.history))
	for i, h := range t.history {
		history[i] = StatusChangePrimitives{
			FromStatus:  string(h.From),
			ToStatus:    string(h.To),
			ActorUserID: h.ActorUserID,
			OccurredAt:  h.OccurredAt,
		}
	}
	comments := make([]CommentPrimitives, len(t.comments))
	for i, c := range t.comments {
		comments[i] = CommentPrimitives{
			ID:              c.ID,
			AuthorUserID:    c.AuthorUserID,
			Body:            c.Body,
			ParentCommentID: c.ParentCommentID,
			CreatedAt:       c.CreatedAt,
			UpdatedAt:       c.UpdatedAt,
			DeletedAt:       c.DeletedAt,
		}
	}
	return Primitives{
		ID:              t.id,
		ProjectID:       t.projectID,
		TodoListID:      t.todoListID,
		Title:           t.title.String(),
		OrderIndex:      t.orderIndex,
		Status:          string(t.status),
		AssigneeUserID:  t.assigneeUserID,
		CreatedByUserID: t.createdByUserID,
		CreatedAt:       t.createdAt,
		UpdatedAt:       t.updatedAt,
		StatusHistory:   history,
		Comments:        comments,
	}
}

// Rehydrate rebuilds a Task. The comment list must form a valid tree: ids are
// unique, every reply's parent exists, and no active reply hangs below a
// deleted comment.
func Rehydrate(p Primitives) (*Task, error) {
	fields := make(map[string]string)
	if p.ID == "" {
		fields["id"] = "is required"
	}
	if p.ProjectID == "" {
		fields["project_id"] = "is required"
	}
	if p.TodoListID == "" {
		fields["todo_list_id"] = "is required"
	}
	if p.OrderIndex < 0 {
		fields["order_index"] = "must be >= 0"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	title, err := valueobject.NewName("title", p.Title)
	if err != nil {
		return nil, err
	}
	status := lifecycle.TaskStatus(p.Status)
	if !status.IsValid() {
		return nil, domain.InvalidState("task %s has unknown status %q", p.ID, p.Status)
	}

	history := make([]StatusChange, 0, len(p.StatusHistory))
	for _, h := range p.StatusHistory {
		from, to := lifecycle.TaskStatus(h.FromStatus), lifecycle.TaskStatus(h.ToStatus)
		if !from.IsValid() || !to.IsValid() {
			return nil, domain.InvalidState("task %s history has unknown status", p.ID)
		}
		history = append(history, StatusChange{From: from, To: to, ActorUserID: h.ActorUserID, OccurredAt: h.OccurredAt})
	}
	if n := len(history); n > 0 && history[n-1].To != status {
		return nil, domain.InvalidState("task %s status %s disagrees with its history", p.ID, status)
	}

	byID := make(map[string]CommentPrimitives, len(p.Comments))
	for _, c := range p.Comments {
		if c.ID == "" {
			return nil, domain.InvalidState("task %s has a comment without id", p.ID)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, domain.InvalidState("task %s has duplicate comment id %s", p.ID, c.ID)
		}
		byID[c.ID] = c
	}
	for _, c := range p.Comments {
		seen := map[string]bool{c.ID: true}
		for parent := c.ParentCommentID; parent != ""; parent = byID[parent].ParentCommentID {
			if seen[parent] {
				return nil, domain.InvalidState("comment %s is part of a reply cycle", c.ID)
			}
			seen[parent] = true
		}
	}
	comments := make([]Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		if c.ParentCommentID != "" {
			parent, ok := byID[c.ParentCommentID]
			if !ok {
				return nil, domain.InvalidState("comment %s replies to missing comment %s", c.ID, c.ParentCommentID)
			}
			if parent.DeletedAt != nil && c.DeletedAt == nil {
				return nil, domain.InvalidState("comment %s replies to deleted comment %s", c.ID, c.ParentCommentID)
			}
		}
		comments = append(comments, Comment{
			ID:              c.ID,
			AuthorUserID:    c.AuthorUserID,
			Body:            c.Body,
			ParentCommentID: c.ParentCommentID,
			CreatedAt:       c.CreatedAt,
			UpdatedAt:       c.UpdatedAt,
			DeletedAt:       c.DeletedAt,
		})
	}

	return &Task{
		id:              p.ID,
		projectID:       p.ProjectID,
		todoListID:      p.TodoListID,
		title:           title,
		orderIndex:      p.OrderIndex,
		status:          status,
		assigneeUserID:  p.AssigneeUserID,
		createdByUserID: p.CreatedByUserID,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
		history:         history,
		comments:        comments,
	}, nil
}
