package app

import (
	"context"
	"log/slog"
	"time"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/task"
	"github.com/jsamuelsen11/teamspace/internal/domain/taskflow"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

var _ ports.TaskService = (*TaskService)(nil)

// TaskService runs task use cases through the task workflow service, which
// owns the project permission checks.
type TaskService struct {
	rt       *Runtime
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
	flow     taskflow.Service
	policy   rbac.AuthorizationPolicy
}

func NewTaskService(rt *Runtime, projects ports.ProjectRepository, tasks ports.TaskRepository) *TaskService {
	return &TaskService{rt: rt, projects: projects, tasks: tasks}
}

// Create requires task.create on the project.
func (s *TaskService) Create(ctx context.Context, actorUserID, projectID, todoListID, title string, orderIndex int) (*task.Task, error) {
	return run(ctx, s.rt, "CreateTask", projectAttrs(actorUserID, projectID),
		func(oc *appctx.OperationContext, now time.Time) (*task.Task, error) {
			p, err := loadProject(oc, s.projects, projectID)
			if err != nil {
				return nil, err
			}
			t, err := s.flow.CreateTask(p, actorUserID, todoListID, title, orderIndex, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindTask, t, s.tasks.Save)
		})
}

// Get requires task.view.
func (s *TaskService) Get(ctx context.Context, actorUserID, taskID string) (*task.Task, error) {
	return run(ctx, s.rt, "GetTask", taskAttrs(actorUserID, taskID),
		func(oc *appctx.OperationContext, _ time.Time) (*task.Task, error) {
			p, t, err := s.loadScope(oc, taskID)
			if err != nil {
				return nil, err
			}
			if err := s.view(p, actorUserID); err != nil {
				return nil, err
			}
			return t, nil
		})
}

// List returns the project's tasks; requires task.view.
func (s *TaskService) List(ctx context.Context, actorUserID, projectID string) ([]*task.Task, error) {
	return run(ctx, s.rt, "ListTasks", projectAttrs(actorUserID, projectID),
		func(oc *appctx.OperationContext, _ time.Time) ([]*task.Task, error) {
			p, err := loadProject(oc, s.projects, projectID)
			if err != nil {
				return nil, err
			}
			if err := s.view(p, actorUserID); err != nil {
				return nil, err
			}
			snapshots, err := s.tasks.ListByProject(oc, projectID)
			if err != nil {
				return nil, err
			}
			out := make([]*task.Task, 0, len(snapshots))
			for _, snap := range snapshots {
				t, err := task.Rehydrate(snap)
				if err != nil {
					return nil, err
				}
				out = append(out, t)
			}
			return out, nil
		})
}

func (s *TaskService) ChangeStatus(ctx context.Context, actorUserID, taskID string, target lifecycle.TaskStatus) (*task.Task, error) {
	return s.mutate(ctx, "ChangeTaskStatus", actorUserID, taskID,
		func(p *project.Project, t *task.Task, now time.Time) (*task.Task, error) {
			return s.flow.ChangeStatus(p, t, actorUserID, target, now)
		})
}

func (s *TaskService) ToggleDone(ctx context.Context, actorUserID, taskID string) (*task.Task, error) {
	return s.mutate(ctx, "ToggleTaskDone", actorUserID, taskID,
		func(p *project.Project, t *task.Task, now time.Time) (*task.Task, error) {
			return s.flow.ToggleDone(p, t, actorUserID, now)
		})
}

// Assign sets or clears (empty assignee) the task's assignee.
func (s *TaskService) Assign(ctx context.Context, actorUserID, taskID, assigneeUserID string) (*task.Task, error) {
	return s.mutate(ctx, "AssignTask", actorUserID, taskID,
		func(p *project.Project, t *task.Task, now time.Time) (*task.Task, error) {
			return s.flow.Assign(p, t, actorUserID, assigneeUserID, now)
		})
}

func (s *TaskService) Rename(ctx context.Context, actorUserID, taskID, title string) (*task.Task, error) {
	return s.mutate(ctx, "RenameTask", actorUserID, taskID,
		func(p *project.Project, t *task.Task, now time.Time) (*task.Task, error) {
			return s.flow.Update(p, t, actorUserID, title, now)
		})
}

// Reorder moves the task within its list, or to another list when
// todoListID differs from the current one.
func (s *TaskService) Reorder(ctx context.Context, actorUserID, taskID, todoListID string, orderIndex int) (*task.Task, error) {
	return s.mutate(ctx, "ReorderTask", actorUserID, taskID,
		func(p *project.Project, t *task.Task, now time.Time) (*task.Task, error) {
			return s.flow.Reorder(p, t, actorUserID, todoListID, orderIndex, now)
		})
}

// AddComment returns the task together with the new comment.
func (s *TaskService) AddComment(ctx context.Context, actorUserID, taskID, body, parentCommentID string) (*task.Task, task.Comment, error) {
	type result struct {
		task    *task.Task
		comment task.Comment
	}
	res, err := run(ctx, s.rt, "AddTaskComment", taskAttrs(actorUserID, taskID),
		func(oc *appctx.OperationContext, now time.Time) (result, error) {
			p, t, err := s.loadScope(oc, taskID)
			if err != nil {
				return result{}, err
			}
			next, c, err := s.flow.AddComment(p, t, actorUserID, body, parentCommentID, now)
			if err != nil {
				return result{}, err
			}
			next, err = persist(oc, kindTask, next, s.tasks.Save)
			return result{task: next, comment: c}, err
		})
	return res.task, res.comment, err
}

// EditComment is limited to the author, who must still see the project.
func (s *TaskService) EditComment(ctx context.Context, actorUserID, taskID, commentID, body string) (*task.Task, error) {
	return s.mutate(ctx, "EditTaskComment", actorUserID, taskID,
		func(p *project.Project, t *task.Task, now time.Time) (*task.Task, error) {
			if err := s.view(p, actorUserID); err != nil {
				return nil, err
			}
			return t.EditComment(actorUserID, commentID, body, now)
		})
}

// DeleteComment lets authors delete their own comments; moderators
// force-delete anyone's, replies included.
func (s *TaskService) DeleteComment(ctx context.Context, actorUserID, taskID, commentID string) (*task.Task, error) {
	return s.mutate(ctx, "DeleteTaskComment", actorUserID, taskID,
		func(p *project.Project, t *task.Task, now time.Time) (*task.Task, error) {
			return s.flow.DeleteComment(p, t, actorUserID, commentID, now)
		})
}

func (s *TaskService) mutate(
	ctx context.Context,
	operation, actorUserID, taskID string,
	op func(*project.Project, *task.Task, time.Time) (*task.Task, error),
) (*task.Task, error) {
	return run(ctx, s.rt, operation, taskAttrs(actorUserID, taskID),
		func(oc *appctx.OperationContext, now time.Time) (*task.Task, error) {
			p, t, err := s.loadScope(oc, taskID)
			if err != nil {
				return nil, err
			}
			next, err := op(p, t, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindTask, next, s.tasks.Save)
		})
}

func (s *TaskService) loadScope(oc *appctx.OperationContext, taskID string) (*project.Project, *task.Task, error) {
	t, err := loadTask(oc, s.tasks, taskID)
	if err != nil {
		return nil, nil, err
	}
	p, err := loadProject(oc, s.projects, t.ProjectID())
	if err != nil {
		return nil, nil, err
	}
	return p, t, nil
}

func (s *TaskService) view(p *project.Project, actorUserID string) error {
	if err := requireActor(actorUserID); err != nil {
		return err
	}
	if !s.policy.CanInProject(p, actorUserID, rbac.TaskView) {
		return domain.Forbidden("user %s cannot view tasks of project %s", actorUserID, p.ID())
	}
	return nil
}

func taskAttrs(actorUserID, taskID string) []slog.Attr {
	return []slog.Attr{
		slog.String("actor_user_id", actorUserID),
		slog.String("task_id", taskID),
	}
}
