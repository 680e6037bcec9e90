package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/teamspace/internal/domain/conversation"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

func (a *cliApp) printMessage(w io.Writer, m conversation.Message) error {
	return a.printFields(w, m, [][2]any{
		{"ID", m.ID},
		{"Reply to", orDash(m.ParentMessageID)},
		{"Author", m.AuthorUserID},
		{"Body", m.Body},
		{"Posted", stamp(m.CreatedAt)},
	})
}

func chatCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{Use: "chat", Short: "Talk in a workspace conversation"}

	var parent string
	post := &cobra.Command{
		Use:   "post <workspace-id> <body>",
		Short: "Post a message, or reply with --reply-to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.ChatService](a)
			if err != nil {
				return err
			}
			m, err := svc.Post(cmd.Context(), actor, args[0], args[1], parent)
			if err != nil {
				return err
			}
			return a.printMessage(cmd.OutOrStdout(), m)
		},
	}
	post.Flags().StringVar(&parent, "reply-to", "", "id of the message being answered")

	edit := &cobra.Command{
		Use:   "edit <workspace-id> <message-id> <body>",
		Short: "Edit your own message",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.ChatService](a)
			if err != nil {
				return err
			}
			m, err := svc.Edit(cmd.Context(), actor, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return a.printMessage(cmd.OutOrStdout(), m)
		},
	}

	del := &cobra.Command{
		Use:   "delete <workspace-id> <message-id>",
		Short: "Delete a message and its replies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.ChatService](a)
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), actor, args[0], args[1]); err != nil {
				return err
			}
			return printLine(cmd.OutOrStdout(), "deleted %s", args[1])
		},
	}

	history := &cobra.Command{
		Use:   "history <workspace-id>",
		Short: "Show the conversation, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.ChatService](a)
			if err != nil {
				return err
			}
			msgs, err := svc.History(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			rows := make([]table.Row, len(msgs))
			for i, m := range msgs {
				body := m.Body
				if m.IsDeleted() {
					body = "(deleted)"
				}
				rows[i] = table.Row{m.ID, orDash(m.ParentMessageID), m.AuthorUserID, body, stamp(m.CreatedAt)}
			}
			return a.printTable(cmd.OutOrStdout(), msgs, table.Row{"ID", "Reply to", "Author", "Body", "Posted"}, rows)
		},
	}

	cmd.AddCommand(post, edit, del, history)
	return cmd
}
