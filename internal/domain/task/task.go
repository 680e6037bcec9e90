// Package task implements the Task aggregate: a project work item with a
// status lifecycle, an append-only status history and a threaded comment
// list. Permission checks live in package taskflow; the aggregate only
// requires an identified actor.
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

const aggregateType = "task"

// StatusChange is one entry of the status history.
type StatusChange struct {
	From        lifecycle.TaskStatus
	To          lifecycle.TaskStatus
	ActorUserID string
	OccurredAt  time.Time
}

// Task is immutable: every operation returns a new *Task. Operations that
// change nothing return the receiver itself.
type Task struct {
	id              string
	projectID       string
	todoListID      string
	title           valueobject.Name
	orderIndex      int
	status          lifecycle.TaskStatus
	assigneeUserID  string
	createdByUserID string
	createdAt       time.Time
	updatedAt       time.Time
	history         []StatusChange
	comments        []Comment
	events          event.Pending
}

// New creates a PENDING task at orderIndex within a todo list.
func New(projectID, todoListID, creatorUserID, title string, orderIndex int, now time.Time) (*Task, error) {
	if creatorUserID == "" {
		return nil, domain.Unauthorized("task creator is required")
	}
	fields := make(map[string]string)
	if projectID == "" {
		fields["project_id"] = "is required"
	}
	if todoListID == "" {
		fields["todo_list_id"] = "is required"
	}
	if orderIndex < 0 {
		fields["order_index"] = "must be >= 0"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	t, err := valueobject.NewName("title", title)
	if err != nil {
		return nil, err
	}

	task := &Task{
		id:              uuid.NewString(),
		projectID:       projectID,
		todoListID:      todoListID,
		title:           t,
		orderIndex:      orderIndex,
		status:          lifecycle.TaskPending,
		createdByUserID: creatorUserID,
		createdAt:       now.UTC(),
		updatedAt:       now.UTC(),
	}
	task.record(event.TaskCreated, map[string]any{
		"projectId":     projectID,
		"todoListId":    todoListID,
		"creatorUserId": creatorUserID,
		"title":         t.String(),
		"status":        string(lifecycle.TaskPending),
	}, now)
	return task, nil
}

func (t *Task) ID() string                   { return t.id }
func (t *Task) ProjectID() string            { return t.projectID }
func (t *Task) TodoListID() string           { return t.todoListID }
func (t *Task) Title() string                { return t.title.String() }
func (t *Task) OrderIndex() int              { return t.orderIndex }
func (t *Task) Status() lifecycle.TaskStatus { return t.status }
func (t *Task) AssigneeUserID() string       { return t.assigneeUserID }
func (t *Task) CreatedByUserID() string      { return t.createdByUserID }
func (t *Task) CreatedAt() time.Time         { return t.createdAt }
func (t *Task) UpdatedAt() time.Time         { return t.updatedAt }

// StatusHistory returns a copy of the history, oldest first.
func (t *Task) StatusHistory() []StatusChange { return slices.Clone(t.history) }

// PullDomainEvents returns a copy without pending events together with the
// drained events in emission order.
func (t *Task) PullDomainEvents() (*Task, []event.Event) {
	events := t.events.Events()
	next := t.clone()
	next.events = nil
	return next, events
}

// PendingEvents returns the events not yet pulled.
func (t *Task) PendingEvents() []event.Event { return t.events.Events() }

// ChangeStatus moves the task to target through the task state machine.
// Requesting the current status is a no-op: the receiver is returned, no
// history entry is written and no event is emitted.
func (t *Task) ChangeStatus(actorUserID string, target lifecycle.TaskStatus, now time.Time) (*Task, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	if !target.IsValid() {
		return nil, domain.FieldError("status", "invalid: "+string(target))
	}
	if target == t.status {
		return t, nil
	}
	ev, _ := lifecycle.TaskEventFor(target)
	reached, err := lifecycle.TaskMachine.Next(t.status, ev)
	if err != nil {
		return nil, err
	}

	next := t.clone()
	next.status = reached
	next.updatedAt = now.UTC()
	next.history = append(next.history, StatusChange{
		From:        t.status,
		To:          reached,
		ActorUserID: actorUserID,
		OccurredAt:  now.UTC(),
	})
	next.record(event.TaskStatusChanged, map[string]any{
		"actorUserId": actorUserID,
		"fromStatus":  string(t.status),
		"toStatus":    string(reached),
		"event":       string(ev),
	}, now)
	return next, nil
}

// ToggleDone reopens a DONE task as IN_PROGRESS and completes anything else.
func (t *Task) ToggleDone(actorUserID string, now time.Time) (*Task, error) {
	if t.status == lifecycle.TaskDone {
		return t.ChangeStatus(actorUserID, lifecycle.TaskInProgress, now)
	}
	return t.ChangeStatus(actorUserID, lifecycle.TaskDone, now)
}

// SetOrderInList moves the task to index within its current list.
func (t *Task) SetOrderInList(actorUserID string, index int, now time.Time) (*Task, error) {
	return t.MoveToList(actorUserID, t.todoListID, index, now)
}

// MoveToList places the task at index in todoListID.
func (t *Task) MoveToList(actorUserID, todoListID string, index int, now time.Time) (*Task, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	if todoListID == "" {
		return nil, domain.FieldError("todo_list_id", "is required")
	}
	if index < 0 {
		return nil, domain.FieldError("order_index", "must be >= 0")
	}
	if todoListID == t.todoListID && index == t.orderIndex {
		return t, nil
	}

	next := t.clone()
	next.todoListID = todoListID
	next.orderIndex = index
	next.updatedAt = now.UTC()
	if todoListID == t.todoListID {
		next.record(event.TaskReordered, map[string]any{
			"actorUserId":   actorUserID,
			"previousIndex": t.orderIndex,
			"orderIndex":    index,
		}, now)
	} else {
		next.record(event.TaskMoved, map[string]any{
			"actorUserId":        actorUserID,
			"previousTodoListId": t.todoListID,
			"todoListId":         todoListID,
			"orderIndex":         index,
		}, now)
	}
	return next, nil
}

// Rename changes the title.
func (t *Task) Rename(actorUserID, title string, now time.Time) (*Task, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	n, err := valueobject.NewName("title", title)
	if err != nil {
		return nil, err
	}
	if n == t.title {
		return t, nil
	}
	next := t.clone()
	next.title = n
	next.updatedAt = now.UTC()
	next.record(event.TaskRenamed, map[string]any{"actorUserId": actorUserID, "title": n.String()}, now)
	return next, nil
}

// AssignTo sets the assignee; an empty assigneeUserID clears it.
func (t *Task) AssignTo(actorUserID, assigneeUserID string, now time.Time) (*Task, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	if assigneeUserID == t.assigneeUserID {
		return t, nil
	}
	next := t.clone()
	next.assigneeUserID = assigneeUserID
	next.updatedAt = now.UTC()
	next.record(event.TaskAssigned, map[string]any{
		"actorUserId":            actorUserID,
		"previousAssigneeUserId": t.assigneeUserID,
		"assigneeUserId":         assigneeUserID,
	}, now)
	return next, nil
}

func (t *Task) clone() *Task {
	next := *t
	next.history = slices.Clone(t.history)
	next.comments = slices.Clone(t.comments)
	return &next
}

func (t *Task) record(eventType string, payload map[string]any, now time.Time) {
	t.events = t.events.Append(event.New(eventType, aggregateType, t.id, payload, now))
}
