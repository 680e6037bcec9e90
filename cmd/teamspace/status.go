package main

import (
	"errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/teamspace/internal/platform/health"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

var errUnhealthy = errors.New("one or more components are unhealthy")

type statusView struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

func statusCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the store and the event bus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := invoke[ports.HealthRegistry](a)
			if err != nil {
				return err
			}
			results, ok := health.Report(cmd.Context(), registry)
			views := make([]statusView, len(results))
			rows := make([]table.Row, len(results))
			for i, r := range results {
				views[i] = statusView{Name: r.Name, Healthy: r.Healthy()}
				if r.Err != nil {
					views[i].Error = r.Err.Error()
				}
				rows[i] = table.Row{r.Name, r.Healthy(), orDash(views[i].Error)}
			}
			if err := a.printTable(cmd.OutOrStdout(), views, table.Row{"Component", "Healthy", "Error"}, rows); err != nil {
				return err
			}
			if !ok {
				return errUnhealthy
			}
			return nil
		},
	}
}
