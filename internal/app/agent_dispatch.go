package app

import (
	"fmt"
	"strconv"
	"time"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/aiagent"
	"github.com/jsamuelsen11/teamspace/internal/domain/availability"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/task"
)

// Argument keys understood by the command dispatcher.
const (
	ArgName           = "name"
	ArgDescription    = "description"
	ArgBody           = "body"
	ArgParentID       = "parent_id"
	ArgTodoListID     = "todo_list_id"
	ArgTitle          = "title"
	ArgOrderIndex     = "order_index"
	ArgTaskID         = "task_id"
	ArgStatus         = "status"
	ArgAssigneeUserID = "assignee_user_id"
	ArgStartDate      = "start_date"
	ArgEndDate        = "end_date"
)

// dispatch runs the command's intent as its initiator and returns a short
// summary. Writes are staged on oc like any other operation.
func (s *AgentService) dispatch(oc *appctx.OperationContext, a *aiagent.Agent, c *aiagent.Command, now time.Time) (string, error) {
	if err := s.canExecute(oc, a, c.ProjectID(), c.InitiatorUserID(), c.Intent()); err != nil {
		return "", err
	}
	actor := c.InitiatorUserID()
	args := c.Arguments()

	switch c.Intent() {
	case aiagent.IntentCreateProject:
		p, err := project.New(c.WorkspaceID(), actor, args[ArgName], args[ArgDescription], now)
		if err != nil {
			return "", err
		}
		if _, err := persist(oc, kindProject, p, s.repos.Projects.Save); err != nil {
			return "", err
		}
		return "created project " + p.ID(), nil

	case aiagent.IntentPostChatMessage:
		conv, err := workspaceConversation(oc, s.repos.Conversations, c.WorkspaceID(), now)
		if err != nil {
			return "", err
		}
		next, m, err := conv.AddMessage(actor, args[ArgBody], args[ArgParentID], now)
		if err != nil {
			return "", err
		}
		if _, err := persist(oc, kindConversation, next, s.repos.Conversations.Save); err != nil {
			return "", err
		}
		return "posted message " + m.ID, nil

	case aiagent.IntentSummarizeProject, aiagent.IntentListTasks:
		p, err := loadProject(oc, s.repos.Projects, c.ProjectID())
		if err != nil {
			return "", err
		}
		return s.summarize(oc, p, c.Intent())

	case aiagent.IntentCreateTask:
		p, err := loadProject(oc, s.repos.Projects, c.ProjectID())
		if err != nil {
			return "", err
		}
		index, err := orderIndex(args)
		if err != nil {
			return "", err
		}
		t, err := s.flow.CreateTask(p, actor, args[ArgTodoListID], args[ArgTitle], index, now)
		if err != nil {
			return "", err
		}
		if _, err := persist(oc, kindTask, t, s.repos.Tasks.Save); err != nil {
			return "", err
		}
		return "created task " + t.ID(), nil

	case aiagent.IntentUpdateTask, aiagent.IntentChangeTaskStatus, aiagent.IntentAssignTask, aiagent.IntentCommentTask:
		return s.dispatchTask(oc, c, actor, args, now)

	case aiagent.IntentCreateAvailability:
		av, err := availability.New(c.ProjectID(), actor, args[ArgName], args[ArgDescription], args[ArgStartDate], args[ArgEndDate], now)
		if err != nil {
			return "", err
		}
		if _, err := persist(oc, kindAvailability, av, s.repos.Availabilities.Save); err != nil {
			return "", err
		}
		return "created availability " + av.ID(), nil
	}
	return "", domain.FieldError("intent", "unknown intent "+string(c.Intent()))
}

func (s *AgentService) dispatchTask(oc *appctx.OperationContext, c *aiagent.Command, actor string, args map[string]string, now time.Time) (string, error) {
	p, err := loadProject(oc, s.repos.Projects, c.ProjectID())
	if err != nil {
		return "", err
	}
	t, err := loadTask(oc, s.repos.Tasks, args[ArgTaskID])
	if err != nil {
		return "", err
	}
	if t.ProjectID() != p.ID() {
		return "", domain.NotFound("task %s not found in project %s", t.ID(), p.ID())
	}

	var (
		next    *task.Task
		summary string
	)
	switch c.Intent() {
	case aiagent.IntentUpdateTask:
		next, err = s.flow.Update(p, t, actor, args[ArgTitle], now)
		summary = "renamed task " + t.ID()
	case aiagent.IntentChangeTaskStatus:
		next, err = s.flow.ChangeStatus(p, t, actor, lifecycle.TaskStatus(args[ArgStatus]), now)
		summary = fmt.Sprintf("moved task %s to %s", t.ID(), args[ArgStatus])
	case aiagent.IntentAssignTask:
		next, err = s.flow.Assign(p, t, actor, args[ArgAssigneeUserID], now)
		summary = "assigned task " + t.ID()
	default:
		var comment task.Comment
		next, comment, err = s.flow.AddComment(p, t, actor, args[ArgBody], args[ArgParentID], now)
		summary = "commented " + comment.ID + " on task " + t.ID()
	}
	if err != nil {
		return "", err
	}
	if _, err := persist(oc, kindTask, next, s.repos.Tasks.Save); err != nil {
		return "", err
	}
	return summary, nil
}

func (s *AgentService) summarize(oc *appctx.OperationContext, p *project.Project, intent aiagent.IntentType) (string, error) {
	snapshots, err := s.repos.Tasks.ListByProject(oc, p.ID())
	if err != nil {
		return "", err
	}
	if intent == aiagent.IntentListTasks {
		return fmt.Sprintf("project %s has %d tasks", p.ID(), len(snapshots)), nil
	}
	counts := map[lifecycle.TaskStatus]int{}
	for _, snap := range snapshots {
		t, err := task.Rehydrate(snap)
		if err != nil {
			return "", err
		}
		counts[t.Status()]++
	}
	return fmt.Sprintf("%s: %d pending, %d in progress, %d done, %d abandoned",
		p.Name(),
		counts[lifecycle.TaskPending],
		counts[lifecycle.TaskInProgress],
		counts[lifecycle.TaskDone],
		counts[lifecycle.TaskAbandoned],
	), nil
}

func orderIndex(args map[string]string) (int, error) {
	raw, ok := args[ArgOrderIndex]
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.FieldError(ArgOrderIndex, "must be an integer")
	}
	return n, nil
}
