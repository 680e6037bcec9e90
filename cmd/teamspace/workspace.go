package main

import (
	"context"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

func (a *cliApp) printWorkspace(w io.Writer, ws *workspace.Workspace) error {
	p := ws.ToPrimitives()
	if a.jsonOut {
		return printJSON(w, p)
	}
	if err := a.printFields(w, p, [][2]any{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Owner", p.OwnerUserID},
		{"Created", stamp(p.CreatedAt)},
	}); err != nil {
		return err
	}
	rows := make([]table.Row, 0, len(p.Members))
	for _, m := range p.Members {
		rows = append(rows, table.Row{m.UserID, strings.Join(m.RoleIDs, ","), m.Active})
	}
	return a.printTable(w, p, table.Row{"Member", "Roles", "Active"}, rows)
}

// workspaceMutation is the shape shared by the member management commands.
type workspaceMutation func(ctx context.Context, svc ports.WorkspaceService, actor string, args []string) (*workspace.Workspace, error)

func workspaceActionCmd(a *cliApp, use, short string, nargs int, run workspaceMutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.WorkspaceService](a)
			if err != nil {
				return err
			}
			ws, err := run(cmd.Context(), svc, actor, args)
			if err != nil {
				return err
			}
			return a.printWorkspace(cmd.OutOrStdout(), ws)
		},
	}
}

func workspaceCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{Use: "workspace", Aliases: []string{"ws"}, Short: "Manage workspaces and their members"}
	cmd.AddCommand(
		workspaceActionCmd(a, "create <name>", "Create a workspace owned by the acting user", 1,
			func(ctx context.Context, svc ports.WorkspaceService, actor string, args []string) (*workspace.Workspace, error) {
				return svc.Create(ctx, actor, args[0])
			}),
		workspaceActionCmd(a, "show <workspace-id>", "Show a workspace and its members", 1,
			func(ctx context.Context, svc ports.WorkspaceService, actor string, args []string) (*workspace.Workspace, error) {
				return svc.Get(ctx, actor, args[0])
			}),
		workspaceListCmd(a),
		workspacePermissionsCmd(a),
		workspaceActionCmd(a, "rename <workspace-id> <name>", "Rename a workspace", 2,
			func(ctx context.Context, svc ports.WorkspaceService, actor string, args []string) (*workspace.Workspace, error) {
				return svc.Rename(ctx, actor, args[0], args[1])
			}),
		workspaceActionCmd(a, "invite <workspace-id> <user-id>", "Invite a user as collaborator", 2,
			func(ctx context.Context, svc ports.WorkspaceService, actor string, args []string) (*workspace.Workspace, error) {
				return svc.InviteMember(ctx, actor, args[0], args[1])
			}),
		workspaceActionCmd(a, "remove <workspace-id> <user-id>", "Remove a member", 2,
			func(ctx context.Context, svc ports.WorkspaceService, actor string, args []string) (*workspace.Workspace, error) {
				return svc.RemoveMember(ctx, actor, args[0], args[1])
			}),
		workspaceActionCmd(a, "assign-role <workspace-id> <user-id> <role>", "Give a member a system role", 3,
			func(ctx context.Context, svc ports.WorkspaceService, actor string, args []string) (*workspace.Workspace, error) {
				return svc.AssignRole(ctx, actor, args[0], args[1], rbac.RoleID(strings.ToUpper(args[2])))
			}),
		workspaceActionCmd(a, "revoke-role <workspace-id> <user-id> <role>", "Take a system role away from a member", 3,
			func(ctx context.Context, svc ports.WorkspaceService, actor string, args []string) (*workspace.Workspace, error) {
				return svc.RevokeRole(ctx, actor, args[0], args[1], rbac.RoleID(strings.ToUpper(args[2])))
			}),
		workspaceActionCmd(a, "transfer <workspace-id> <user-id>", "Hand ownership to another member", 2,
			func(ctx context.Context, svc ports.WorkspaceService, actor string, args []string) (*workspace.Workspace, error) {
				return svc.TransferOwnership(ctx, actor, args[0], args[1])
			}),
	)
	return cmd
}

func workspaceListCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the workspaces the acting user owns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.WorkspaceService](a)
			if err != nil {
				return err
			}
			items, err := svc.ListOwned(cmd.Context(), actor)
			if err != nil {
				return err
			}
			raw := make([]workspace.Primitives, 0, len(items))
			rows := make([]table.Row, 0, len(items))
			for _, ws := range items {
				p := ws.ToPrimitives()
				raw = append(raw, p)
				rows = append(rows, table.Row{p.ID, p.Name, activeMembers(p), stamp(p.CreatedAt)})
			}
			return a.printTable(cmd.OutOrStdout(), raw, table.Row{"ID", "Name", "Members", "Created"}, rows)
		},
	}
}

func workspacePermissionsCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "permissions <workspace-id>",
		Short: "Show what the acting user may do in a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.WorkspaceService](a)
			if err != nil {
				return err
			}
			perms, err := svc.Permissions(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			rows := make([]table.Row, len(perms))
			for i, p := range perms {
				rows[i] = table.Row{p}
			}
			return a.printTable(cmd.OutOrStdout(), perms, table.Row{"Permission"}, rows)
		},
	}
}

func activeMembers(p workspace.Primitives) int {
	n := 0
	for _, m := range p.Members {
		if m.Active {
			n++
		}
	}
	return n
}
