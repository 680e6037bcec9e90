package main

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/teamspace/internal/adapters/persistence/sqlite"
)

// eventsCmd reads the local event journal. It is an operator tool over the
// database file and performs no authorization of its own.
func eventsCmd(a *cliApp) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events <aggregate-type> <aggregate-id>",
		Short: "Show the domain events recorded for an aggregate, oldest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := invoke[*sqlite.EventJournal](a)
			if err != nil {
				return err
			}
			events, err := journal.ListByAggregate(cmd.Context(), args[0], args[1], limit)
			if err != nil {
				return err
			}
			rows := make([]table.Row, len(events))
			for i, e := range events {
				payload, _ := json.Marshal(e.Payload)
				rows[i] = table.Row{stamp(e.OccurredAt), e.Type, string(payload)}
			}
			return a.printTable(cmd.OutOrStdout(), events, table.Row{"At", "Type", "Payload"}, rows)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of events")
	return cmd
}
