package main

import (
	"context"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/teamspace/internal/domain/aiagent"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

func (a *cliApp) printAgent(w io.Writer, ag *aiagent.Agent) error {
	p := ag.ToPrimitives()
	return a.printFields(w, p, [][2]any{
		{"ID", p.ID},
		{"Workspace", p.WorkspaceID},
		{"Name", p.Name},
		{"Model", p.Provider + "/" + p.Model},
		{"State", p.State},
		{"Intents", strings.Join(p.AllowedIntents, ",")},
		{"Approval for writes", p.RequireApprovalForWrites},
		{"Created by", p.CreatedByUserID},
	})
}

func (a *cliApp) printCommand(w io.Writer, c *aiagent.Command) error {
	p := c.ToPrimitives()
	args := make([]string, 0, len(p.Arguments))
	for k, v := range p.Arguments {
		args = append(args, k+"="+v)
	}
	return a.printFields(w, p, [][2]any{
		{"ID", p.ID},
		{"Agent", p.AgentID},
		{"Project", orDash(p.ProjectID)},
		{"Initiator", p.InitiatorUserID},
		{"Intent", p.Intent},
		{"Arguments", strings.Join(sortedStrings(args), " ")},
		{"State", p.State},
		{"Decided by", orDash(p.DecidedByUserID)},
		{"Outcome", orDash(p.Outcome)},
	})
}

func (a *cliApp) printAgentConversation(w io.Writer, c *aiagent.Conversation) error {
	p := c.ToPrimitives()
	if a.jsonOut {
		return printJSON(w, p)
	}
	if err := a.printFields(w, p, [][2]any{
		{"ID", p.ID},
		{"Agent", p.AgentID},
		{"User", p.UserID},
		{"State", p.State},
	}); err != nil {
		return err
	}
	rows := make([]table.Row, len(p.Turns))
	for i, t := range p.Turns {
		rows[i] = table.Row{t.Speaker, t.Body, orDash(t.CommandID), stamp(t.At)}
	}
	return a.printTable(w, p, table.Row{"Speaker", "Body", "Command", "At"}, rows)
}

func parseIntents(raw []string) []aiagent.IntentType {
	intents := make([]aiagent.IntentType, len(raw))
	for i, r := range raw {
		intents[i] = aiagent.IntentType(strings.ToUpper(strings.TrimSpace(r)))
	}
	return intents
}

type agentMutation func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Agent, error)

func agentActionCmd(a *cliApp, use, short string, nargs int, run agentMutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.AgentService](a)
			if err != nil {
				return err
			}
			ag, err := run(cmd.Context(), svc, actor, args)
			if err != nil {
				return err
			}
			return a.printAgent(cmd.OutOrStdout(), ag)
		},
	}
}

type commandMutation func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Command, error)

func commandActionCmd(a *cliApp, use, short string, nargs int, run commandMutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.AgentService](a)
			if err != nil {
				return err
			}
			c, err := run(cmd.Context(), svc, actor, args)
			if err != nil {
				return err
			}
			return a.printCommand(cmd.OutOrStdout(), c)
		},
	}
}

type conversationMutation func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Conversation, error)

func conversationActionCmd(a *cliApp, use, short string, nargs int, run conversationMutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.AgentService](a)
			if err != nil {
				return err
			}
			c, err := run(cmd.Context(), svc, actor, args)
			if err != nil {
				return err
			}
			return a.printAgentConversation(cmd.OutOrStdout(), c)
		},
	}
}

func agentCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{Use: "agent", Short: "Manage AI agents and the commands they propose"}

	var provider, model string
	var intents []string
	var approval bool
	create := agentActionCmd(a, "create <workspace-id> <name>", "Register an AI agent in a workspace", 2,
		func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Agent, error) {
			return svc.Create(ctx, actor, args[0], args[1], provider, model, parseIntents(intents), approval)
		})
	create.Flags().StringVar(&provider, "provider", "", "model provider")
	create.Flags().StringVar(&model, "model", "", "model name")
	create.Flags().StringSliceVar(&intents, "intent", nil, "allowed intent, repeatable")
	create.Flags().BoolVar(&approval, "require-approval", true, "hold write intents until approved")
	_ = create.MarkFlagRequired("provider")
	_ = create.MarkFlagRequired("model")

	var policyIntents []string
	var policyApproval bool
	policy := agentActionCmd(a, "policy <agent-id>", "Replace the intents an agent may run", 1,
		func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Agent, error) {
			return svc.UpdatePolicy(ctx, actor, args[0], parseIntents(policyIntents), policyApproval)
		})
	policy.Flags().StringSliceVar(&policyIntents, "intent", nil, "allowed intent, repeatable")
	policy.Flags().BoolVar(&policyApproval, "require-approval", true, "hold write intents until approved")

	var project string
	var arguments map[string]string
	propose := commandActionCmd(a, "propose <agent-id> <intent>", "Have an agent propose a command for the acting user", 2,
		func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Command, error) {
			return svc.Propose(ctx, actor, args[0], project, aiagent.IntentType(strings.ToUpper(args[1])), arguments)
		})
	propose.Flags().StringVar(&project, "project", "", "target project for project-scoped intents")
	propose.Flags().StringToStringVar(&arguments, "arg", nil, "intent argument key=value, repeatable")

	cmd.AddCommand(
		create,
		agentActionCmd(a, "show <agent-id>", "Show an agent", 1,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Agent, error) {
				return svc.Get(ctx, actor, args[0])
			}),
		agentListCmd(a),
		agentActionCmd(a, "pause <agent-id>", "Stop an agent from proposing commands", 1,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Agent, error) {
				return svc.Pause(ctx, actor, args[0])
			}),
		agentActionCmd(a, "activate <agent-id>", "Resume a paused agent", 1,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Agent, error) {
				return svc.Activate(ctx, actor, args[0])
			}),
		agentActionCmd(a, "revoke <agent-id>", "Retire an agent for good", 1,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Agent, error) {
				return svc.Revoke(ctx, actor, args[0])
			}),
		policy,
		propose,
		commandActionCmd(a, "approve <command-id>", "Approve a pending command", 1,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Command, error) {
				return svc.Approve(ctx, actor, args[0])
			}),
		commandActionCmd(a, "reject <command-id> <reason>", "Reject a pending command", 2,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Command, error) {
				return svc.Reject(ctx, actor, args[0], args[1])
			}),
		commandActionCmd(a, "execute <command-id>", "Run an approved command as its initiator", 1,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Command, error) {
				return svc.Execute(ctx, actor, args[0])
			}),
		agentCommandsCmd(a),
		agentConversationCmd(a),
	)
	return cmd
}

func agentListCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "list <workspace-id>",
		Short: "List the agents of a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.AgentService](a)
			if err != nil {
				return err
			}
			items, err := svc.List(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			raw := make([]aiagent.AgentPrimitives, 0, len(items))
			rows := make([]table.Row, 0, len(items))
			for _, ag := range items {
				p := ag.ToPrimitives()
				raw = append(raw, p)
				rows = append(rows, table.Row{p.ID, p.Name, p.Provider + "/" + p.Model, p.State, len(p.AllowedIntents)})
			}
			return a.printTable(cmd.OutOrStdout(), raw, table.Row{"ID", "Name", "Model", "State", "Intents"}, rows)
		},
	}
}

func agentCommandsCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "commands <agent-id>",
		Short: "List the commands an agent proposed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.AgentService](a)
			if err != nil {
				return err
			}
			items, err := svc.Commands(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			raw := make([]aiagent.CommandPrimitives, 0, len(items))
			rows := make([]table.Row, 0, len(items))
			for _, c := range items {
				p := c.ToPrimitives()
				raw = append(raw, p)
				rows = append(rows, table.Row{p.ID, p.Intent, p.State, p.InitiatorUserID, orDash(p.Outcome), stamp(p.UpdatedAt)})
			}
			return a.printTable(cmd.OutOrStdout(), raw, table.Row{"ID", "Intent", "State", "Initiator", "Outcome", "Updated"}, rows)
		},
	}
}

func agentConversationCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{Use: "conversation", Aliases: []string{"conv"}, Short: "Talk privately with an agent"}

	var speaker, commandID string
	say := conversationActionCmd(a, "say <conversation-id> <body>", "Append a turn", 2,
		func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Conversation, error) {
			return svc.AppendTurn(ctx, actor, args[0], aiagent.Speaker(strings.ToUpper(speaker)), args[1], commandID)
		})
	say.Flags().StringVar(&speaker, "speaker", string(aiagent.SpeakerUser), "USER or AGENT")
	say.Flags().StringVar(&commandID, "command", "", "command the turn refers to")

	cmd.AddCommand(
		conversationActionCmd(a, "open <agent-id>", "Start a conversation with an agent", 1,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Conversation, error) {
				return svc.OpenConversation(ctx, actor, args[0])
			}),
		conversationActionCmd(a, "show <conversation-id>", "Show a conversation", 1,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Conversation, error) {
				return svc.GetConversation(ctx, actor, args[0])
			}),
		say,
		conversationActionCmd(a, "close <conversation-id>", "Close a conversation", 1,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Conversation, error) {
				return svc.CloseConversation(ctx, actor, args[0])
			}),
		conversationActionCmd(a, "reopen <conversation-id>", "Reopen a closed conversation", 1,
			func(ctx context.Context, svc ports.AgentService, actor string, args []string) (*aiagent.Conversation, error) {
				return svc.ReopenConversation(ctx, actor, args[0])
			}),
	)
	return cmd
}
