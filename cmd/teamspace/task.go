package main

import (
	"context"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/task"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

func (a *cliApp) printTask(w io.Writer, t *task.Task) error {
	p := t.ToPrimitives()
	if a.jsonOut {
		return printJSON(w, p)
	}
	if err := a.printFields(w, p, [][2]any{
		{"ID", p.ID},
		{"Project", p.ProjectID},
		{"List", p.TodoListID},
		{"Title", p.Title},
		{"Order", p.OrderIndex},
		{"Status", p.Status},
		{"Assignee", orDash(p.AssigneeUserID)},
		{"Created by", p.CreatedByUserID},
		{"Updated", stamp(p.UpdatedAt)},
	}); err != nil {
		return err
	}
	if len(p.StatusHistory) > 0 {
		rows := make([]table.Row, len(p.StatusHistory))
		for i, h := range p.StatusHistory {
			rows[i] = table.Row{h.FromStatus, h.ToStatus, h.ActorUserID, stamp(h.OccurredAt)}
		}
		if err := a.printTable(w, p, table.Row{"From", "To", "By", "At"}, rows); err != nil {
			return err
		}
	}
	if len(p.Comments) > 0 {
		rows := make([]table.Row, len(p.Comments))
		for i, c := range p.Comments {
			body := c.Body
			if c.DeletedAt != nil {
				body = "(deleted)"
			}
			rows[i] = table.Row{c.ID, orDash(c.ParentCommentID), c.AuthorUserID, body}
		}
		return a.printTable(w, p, table.Row{"Comment", "Reply to", "Author", "Body"}, rows)
	}
	return nil
}

type taskMutation func(ctx context.Context, svc ports.TaskService, actor string, args []string) (*task.Task, error)

func taskActionCmd(a *cliApp, use, short string, nargs int, run taskMutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.TaskService](a)
			if err != nil {
				return err
			}
			t, err := run(cmd.Context(), svc, actor, args)
			if err != nil {
				return err
			}
			return a.printTask(cmd.OutOrStdout(), t)
		},
	}
}

func taskCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{Use: "task", Short: "Manage project tasks"}
	cmd.AddCommand(
		taskCreateCmd(a),
		taskActionCmd(a, "show <task-id>", "Show a task with its history and comments", 1,
			func(ctx context.Context, svc ports.TaskService, actor string, args []string) (*task.Task, error) {
				return svc.Get(ctx, actor, args[0])
			}),
		taskListCmd(a),
		taskActionCmd(a, "status <task-id> <status>", "Move a task to PENDING, IN_PROGRESS, DONE or ABANDONED", 2,
			func(ctx context.Context, svc ports.TaskService, actor string, args []string) (*task.Task, error) {
				return svc.ChangeStatus(ctx, actor, args[0], lifecycle.TaskStatus(strings.ToUpper(args[1])))
			}),
		taskActionCmd(a, "toggle <task-id>", "Flip a task between done and not done", 1,
			func(ctx context.Context, svc ports.TaskService, actor string, args []string) (*task.Task, error) {
				return svc.ToggleDone(ctx, actor, args[0])
			}),
		taskAssignCmd(a),
		taskActionCmd(a, "rename <task-id> <title>", "Change a task title", 2,
			func(ctx context.Context, svc ports.TaskService, actor string, args []string) (*task.Task, error) {
				return svc.Rename(ctx, actor, args[0], args[1])
			}),
		taskReorderCmd(a),
		taskCommentCmd(a),
	)
	return cmd
}

func taskCreateCmd(a *cliApp) *cobra.Command {
	var todoList string
	var order int
	cmd := taskActionCmd(a, "create <project-id> <title>", "Create a task in a project", 2,
		func(ctx context.Context, svc ports.TaskService, actor string, args []string) (*task.Task, error) {
			return svc.Create(ctx, actor, args[0], todoList, args[1], order)
		})
	cmd.Flags().StringVar(&todoList, "list", "default", "todo list the task belongs to")
	cmd.Flags().IntVar(&order, "order", 0, "position inside the list")
	return cmd
}

func taskAssignCmd(a *cliApp) *cobra.Command {
	cmd := taskActionCmd(a, "assign <task-id> [user-id]", "Assign a task, or clear the assignee when no user is given", 1,
		func(ctx context.Context, svc ports.TaskService, actor string, args []string) (*task.Task, error) {
			assignee := ""
			if len(args) == 2 {
				assignee = args[1]
			}
			return svc.Assign(ctx, actor, args[0], assignee)
		})
	cmd.Args = cobra.RangeArgs(1, 2)
	return cmd
}

func taskReorderCmd(a *cliApp) *cobra.Command {
	var todoList string
	var order int
	cmd := taskActionCmd(a, "reorder <task-id>", "Move a task inside or across todo lists", 1,
		func(ctx context.Context, svc ports.TaskService, actor string, args []string) (*task.Task, error) {
			return svc.Reorder(ctx, actor, args[0], todoList, order)
		})
	cmd.Flags().StringVar(&todoList, "list", "", "target todo list")
	cmd.Flags().IntVar(&order, "order", 0, "new position")
	_ = cmd.MarkFlagRequired("list")
	return cmd
}

func taskListCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the tasks of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.TaskService](a)
			if err != nil {
				return err
			}
			items, err := svc.List(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			raw := make([]task.Primitives, 0, len(items))
			rows := make([]table.Row, 0, len(items))
			for _, t := range items {
				p := t.ToPrimitives()
				raw = append(raw, p)
				rows = append(rows, table.Row{p.ID, p.TodoListID, p.OrderIndex, p.Title, p.Status, orDash(p.AssigneeUserID)})
			}
			return a.printTable(cmd.OutOrStdout(), raw, table.Row{"ID", "List", "Order", "Title", "Status", "Assignee"}, rows)
		},
	}
}

func taskCommentCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{Use: "comment", Short: "Discuss a task"}

	var parent string
	add := &cobra.Command{
		Use:   "add <task-id> <body>",
		Short: "Comment on a task, or reply with --reply-to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.TaskService](a)
			if err != nil {
				return err
			}
			_, c, err := svc.AddComment(cmd.Context(), actor, args[0], args[1], parent)
			if err != nil {
				return err
			}
			return a.printFields(cmd.OutOrStdout(), c, [][2]any{
				{"ID", c.ID},
				{"Reply to", orDash(c.ParentCommentID)},
				{"Author", c.AuthorUserID},
				{"Body", c.Body},
			})
		},
	}
	add.Flags().StringVar(&parent, "reply-to", "", "id of the comment being answered")

	cmd.AddCommand(
		add,
		taskActionCmd(a, "edit <task-id> <comment-id> <body>", "Edit your own comment", 3,
			func(ctx context.Context, svc ports.TaskService, actor string, args []string) (*task.Task, error) {
				return svc.EditComment(ctx, actor, args[0], args[1], args[2])
			}),
		taskActionCmd(a, "delete <task-id> <comment-id>", "Delete a comment and its replies", 2,
			func(ctx context.Context, svc ports.TaskService, actor string, args []string) (*task.Task, error) {
				return svc.DeleteComment(ctx, actor, args[0], args[1])
			}),
	)
	return cmd
}
