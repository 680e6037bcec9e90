package main

import (
	"context"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

func (a *cliApp) printProject(w io.Writer, p *project.Project) error {
	raw := p.ToPrimitives()
	if a.jsonOut {
		return printJSON(w, raw)
	}
	if err := a.printFields(w, raw, [][2]any{
		{"ID", raw.ID},
		{"Workspace", raw.WorkspaceID},
		{"Name", raw.Name},
		{"Description", orDash(raw.Description)},
		{"Created", stamp(raw.CreatedAt)},
	}); err != nil {
		return err
	}
	rows := make([]table.Row, len(raw.Access))
	for i, acc := range raw.Access {
		rows[i] = table.Row{acc.UserID, acc.RoleID, acc.GrantedByUserID, stamp(acc.GrantedAt)}
	}
	return a.printTable(w, raw, table.Row{"User", "Role", "Granted by", "Granted"}, rows)
}

type projectMutation func(ctx context.Context, svc ports.ProjectService, actor string, args []string) (*project.Project, error)

func projectActionCmd(a *cliApp, use, short string, nargs int, run projectMutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.ProjectService](a)
			if err != nil {
				return err
			}
			p, err := run(cmd.Context(), svc, actor, args)
			if err != nil {
				return err
			}
			return a.printProject(cmd.OutOrStdout(), p)
		},
	}
}

func projectCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{Use: "project", Short: "Manage projects and project access"}
	cmd.AddCommand(
		projectCreateCmd(a),
		projectActionCmd(a, "show <project-id>", "Show a project and who can access it", 1,
			func(ctx context.Context, svc ports.ProjectService, actor string, args []string) (*project.Project, error) {
				return svc.Get(ctx, actor, args[0])
			}),
		projectListCmd(a),
		projectActionCmd(a, "rename <project-id> <name>", "Rename a project", 2,
			func(ctx context.Context, svc ports.ProjectService, actor string, args []string) (*project.Project, error) {
				return svc.Rename(ctx, actor, args[0], args[1])
			}),
		projectActionCmd(a, "describe <project-id> <description>", "Replace a project description", 2,
			func(ctx context.Context, svc ports.ProjectService, actor string, args []string) (*project.Project, error) {
				return svc.UpdateDescription(ctx, actor, args[0], args[1])
			}),
		projectActionCmd(a, "grant <project-id> <user-id> <role>", "Grant a workspace member access to a project", 3,
			func(ctx context.Context, svc ports.ProjectService, actor string, args []string) (*project.Project, error) {
				return svc.GrantAccess(ctx, actor, args[0], args[1], rbac.ProjectRole(strings.ToUpper(args[2])))
			}),
		projectActionCmd(a, "change-role <project-id> <user-id> <role>", "Change a user's project role", 3,
			func(ctx context.Context, svc ports.ProjectService, actor string, args []string) (*project.Project, error) {
				return svc.ChangeRole(ctx, actor, args[0], args[1], rbac.ProjectRole(strings.ToUpper(args[2])))
			}),
		projectActionCmd(a, "revoke <project-id> <user-id>", "Revoke a user's project access", 2,
			func(ctx context.Context, svc ports.ProjectService, actor string, args []string) (*project.Project, error) {
				return svc.RevokeAccess(ctx, actor, args[0], args[1])
			}),
	)
	return cmd
}

func projectCreateCmd(a *cliApp) *cobra.Command {
	var description string
	cmd := projectActionCmd(a, "create <workspace-id> <name>", "Create a project; the creator becomes its manager", 2,
		func(ctx context.Context, svc ports.ProjectService, actor string, args []string) (*project.Project, error) {
			return svc.Create(ctx, actor, args[0], args[1], description)
		})
	cmd.Flags().StringVar(&description, "description", "", "project description")
	return cmd
}

func projectListCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "list <workspace-id>",
		Short: "List the projects of a workspace visible to the acting user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.ProjectService](a)
			if err != nil {
				return err
			}
			items, err := svc.List(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			raw := make([]project.Primitives, 0, len(items))
			rows := make([]table.Row, 0, len(items))
			for _, p := range items {
				prim := p.ToPrimitives()
				raw = append(raw, prim)
				rows = append(rows, table.Row{prim.ID, prim.Name, len(prim.Access), orDash(prim.Description)})
			}
			return a.printTable(cmd.OutOrStdout(), raw, table.Row{"ID", "Name", "Access", "Description"}, rows)
		},
	}
}
