// Package taskflow gates task operations on project permissions. The task
// aggregate only knows who the actor is; this service decides whether the
// actor may act at all.
package taskflow

import (
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/task"
)

// Service is stateless; the zero value is ready to use.
type Service struct {
	policy rbac.AuthorizationPolicy
}

// CreateTask requires task.create.
func (s Service) CreateTask(p *project.Project, actorUserID, todoListID, title string, orderIndex int, now time.Time) (*task.Task, error) {
	if err := s.require(p, actorUserID, rbac.TaskCreate); err != nil {
		return nil, err
	}
	return task.New(p.ID(), todoListID, actorUserID, title, orderIndex, now)
}

// ChangeStatus requires task.status.change.
func (s Service) ChangeStatus(p *project.Project, t *task.Task, actorUserID string, target lifecycle.TaskStatus, now time.Time) (*task.Task, error) {
	if err := s.guard(p, t, actorUserID, rbac.TaskStatusChange); err != nil {
		return nil, err
	}
	return t.ChangeStatus(actorUserID, target, now)
}

// ToggleDone requires task.status.change.
func (s Service) ToggleDone(p *project.Project, t *task.Task, actorUserID string, now time.Time) (*task.Task, error) {
	if err := s.guard(p, t, actorUserID, rbac.TaskStatusChange); err != nil {
		return nil, err
	}
	return t.ToggleDone(actorUserID, now)
}

// Assign requires task.assign, and the assignee must have access to the
// project. An empty assignee clears the assignment.
func (s Service) Assign(p *project.Project, t *task.Task, actorUserID, assigneeUserID string, now time.Time) (*task.Task, error) {
	if err := s.guard(p, t, actorUserID, rbac.TaskAssign); err != nil {
		return nil, err
	}
	if assigneeUserID != "" && !p.HasAccess(assigneeUserID) {
		return nil, domain.Forbidden("user %s has no access to project %s", assigneeUserID, p.ID())
	}
	return t.AssignTo(actorUserID, assigneeUserID, now)
}

// Update renames a task; requires task.update.
func (s Service) Update(p *project.Project, t *task.Task, actorUserID, title string, now time.Time) (*task.Task, error) {
	if err := s.guard(p, t, actorUserID, rbac.TaskUpdate); err != nil {
		return nil, err
	}
	return t.Rename(actorUserID, title, now)
}

// Reorder moves a task within or across lists; requires task.update.
func (s Service) Reorder(p *project.Project, t *task.Task, actorUserID, todoListID string, index int, now time.Time) (*task.Task, error) {
	if err := s.guard(p, t, actorUserID, rbac.TaskUpdate); err != nil {
		return nil, err
	}
	if todoListID == "" || todoListID == t.TodoListID() {
		return t.SetOrderInList(actorUserID, index, now)
	}
	return t.MoveToList(actorUserID, todoListID, index, now)
}

// AddComment requires task.comment.create.
func (s Service) AddComment(p *project.Project, t *task.Task, actorUserID, body, parentCommentID string, now time.Time) (*task.Task, task.Comment, error) {
	if err := s.guard(p, t, actorUserID, rbac.TaskCommentCreate); err != nil {
		return nil, task.Comment{}, err
	}
	return t.AddComment(actorUserID, body, parentCommentID, now)
}

// DeleteComment lets authors delete their own comments as long as they can
// still see the project. Anyone else needs task.comment.moderate, which turns
// the delete into a forced one.
func (s Service) DeleteComment(p *project.Project, t *task.Task, actorUserID, commentID string, now time.Time) (*task.Task, error) {
	if err := s.guard(p, t, actorUserID, rbac.TaskView); err != nil {
		return nil, err
	}
	c, ok := t.Comment(commentID)
	if !ok {
		return nil, domain.NotFound("comment %s not found on task %s", commentID, t.ID())
	}
	if c.AuthorUserID == actorUserID {
		return t.DeleteComment(actorUserID, commentID, false, now)
	}
	if !s.policy.CanInProject(p, actorUserID, rbac.TaskCommentModerate) {
		return nil, domain.Forbidden("user %s cannot moderate comments in project %s", actorUserID, p.ID())
	}
	return t.DeleteComment(actorUserID, commentID, true, now)
}

func (s Service) guard(p *project.Project, t *task.Task, actorUserID string, perm rbac.ProjectPermission) error {
	if t == nil {
		return domain.FieldError("task", "is required")
	}
	if err := s.require(p, actorUserID, perm); err != nil {
		return err
	}
	if t.ProjectID() != p.ID() {
		return domain.InvalidState("task %s does not belong to project %s", t.ID(), p.ID())
	}
	return nil
}

func (s Service) require(p *project.Project, actorUserID string, perm rbac.ProjectPermission) error {
	if actorUserID == "" {
		return domain.Unauthorized("actor is required")
	}
	if p == nil {
		return domain.FieldError("project", "is required")
	}
	if !s.policy.CanInProject(p, actorUserID, perm) {
		return domain.Forbidden("user %s lacks %s in project %s", actorUserID, perm, p.ID())
	}
	return nil
}
