package main

import (
	"context"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/teamspace/internal/domain/availability"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

func (a *cliApp) printAvailability(w io.Writer, av *availability.Availability) error {
	p := av.ToPrimitives()
	if a.jsonOut {
		return printJSON(w, p)
	}
	if err := a.printFields(w, p, [][2]any{
		{"ID", p.ID},
		{"Project", p.ProjectID},
		{"Name", p.Name},
		{"Description", orDash(p.Description)},
		{"Dates", p.StartDate + " .. " + p.EndDate},
		{"State", p.State},
	}); err != nil {
		return err
	}
	rows := make([]table.Row, len(p.Segments))
	for i, s := range p.Segments {
		rows[i] = table.Row{s.ID, s.Name, s.StartTime + "-" + s.EndTime, segmentRules(s)}
	}
	return a.printTable(w, p, table.Row{"Segment", "Name", "Window", "Applies"}, rows)
}

func segmentRules(s availability.SegmentPrimitives) string {
	var parts []string
	if len(s.DaysOfWeek) > 0 {
		parts = append(parts, "weekdays "+ints(s.DaysOfWeek))
	}
	if len(s.DaysOfMonth) > 0 {
		parts = append(parts, "monthdays "+ints(s.DaysOfMonth))
	}
	if len(s.SpecificDates) > 0 {
		parts = append(parts, "on "+strings.Join(s.SpecificDates, ","))
	}
	if len(parts) == 0 {
		parts = append(parts, "every day")
	}
	if len(s.ExclusionDates) > 0 {
		parts = append(parts, "except "+strings.Join(s.ExclusionDates, ","))
	}
	return strings.Join(parts, "; ")
}

// segmentFlags binds the flags shared by add-segment and update-segment.
func segmentFlags(cmd *cobra.Command, in *availability.SegmentInput) {
	cmd.Flags().StringVar(&in.Name, "name", "", "segment name")
	cmd.Flags().StringVar(&in.Description, "description", "", "segment description")
	cmd.Flags().StringVar(&in.StartTime, "start", "", "start time HH:MM")
	cmd.Flags().StringVar(&in.EndTime, "end", "", "end time HH:MM, 24:00 for midnight")
	cmd.Flags().StringSliceVar(&in.SpecificDates, "on", nil, "extra dates YYYY-MM-DD")
	cmd.Flags().StringSliceVar(&in.ExclusionDates, "except", nil, "excluded dates YYYY-MM-DD")
	cmd.Flags().IntSliceVar(&in.DaysOfWeek, "weekday", nil, "weekdays, 0 is Sunday")
	cmd.Flags().IntSliceVar(&in.DaysOfMonth, "monthday", nil, "days of the month 1-31")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

type availabilityMutation func(ctx context.Context, svc ports.AvailabilityService, actor string, args []string) (*availability.Availability, error)

func availabilityActionCmd(a *cliApp, use, short string, nargs int, run availabilityMutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.AvailabilityService](a)
			if err != nil {
				return err
			}
			av, err := run(cmd.Context(), svc, actor, args)
			if err != nil {
				return err
			}
			return a.printAvailability(cmd.OutOrStdout(), av)
		},
	}
}

func availabilityCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{Use: "availability", Aliases: []string{"avail"}, Short: "Plan availability windows for a project"}

	var description string
	create := availabilityActionCmd(a, "create <project-id> <name> <start-date> <end-date>", "Create an availability over a date range", 4,
		func(ctx context.Context, svc ports.AvailabilityService, actor string, args []string) (*availability.Availability, error) {
			return svc.Create(ctx, actor, args[0], args[1], description, args[2], args[3])
		})
	create.Flags().StringVar(&description, "description", "", "availability description")

	var addIn availability.SegmentInput
	add := availabilityActionCmd(a, "add-segment <availability-id>", "Add a time window", 1,
		func(ctx context.Context, svc ports.AvailabilityService, actor string, args []string) (*availability.Availability, error) {
			av, _, err := svc.AddSegment(ctx, actor, args[0], addIn)
			return av, err
		})
	segmentFlags(add, &addIn)

	var updateIn availability.SegmentInput
	update := availabilityActionCmd(a, "update-segment <availability-id> <segment-id>", "Replace a time window", 2,
		func(ctx context.Context, svc ports.AvailabilityService, actor string, args []string) (*availability.Availability, error) {
			return svc.UpdateSegment(ctx, actor, args[0], args[1], updateIn)
		})
	segmentFlags(update, &updateIn)

	var detailsDescription string
	details := availabilityActionCmd(a, "details <availability-id> <name>", "Change name and description", 2,
		func(ctx context.Context, svc ports.AvailabilityService, actor string, args []string) (*availability.Availability, error) {
			return svc.UpdateDetails(ctx, actor, args[0], args[1], detailsDescription)
		})
	details.Flags().StringVar(&detailsDescription, "description", "", "new description")

	cmd.AddCommand(
		create,
		availabilityActionCmd(a, "show <availability-id>", "Show an availability and its segments", 1,
			func(ctx context.Context, svc ports.AvailabilityService, actor string, args []string) (*availability.Availability, error) {
				return svc.Get(ctx, actor, args[0])
			}),
		availabilityListCmd(a),
		add,
		update,
		availabilityActionCmd(a, "remove-segment <availability-id> <segment-id>", "Remove a time window", 2,
			func(ctx context.Context, svc ports.AvailabilityService, actor string, args []string) (*availability.Availability, error) {
				return svc.RemoveSegment(ctx, actor, args[0], args[1])
			}),
		availabilityActionCmd(a, "dates <availability-id> <start-date> <end-date>", "Change the date range", 3,
			func(ctx context.Context, svc ports.AvailabilityService, actor string, args []string) (*availability.Availability, error) {
				return svc.UpdateDateRange(ctx, actor, args[0], args[1], args[2])
			}),
		details,
		availabilityActionCmd(a, "archive <availability-id>", "Freeze an availability", 1,
			func(ctx context.Context, svc ports.AvailabilityService, actor string, args []string) (*availability.Availability, error) {
				return svc.Archive(ctx, actor, args[0])
			}),
		availabilityActionCmd(a, "reactivate <availability-id>", "Make an archived availability editable again", 1,
			func(ctx context.Context, svc ports.AvailabilityService, actor string, args []string) (*availability.Availability, error) {
				return svc.Reactivate(ctx, actor, args[0])
			}),
		availabilityMinutesCmd(a),
	)
	return cmd
}

func availabilityListCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the availabilities of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.AvailabilityService](a)
			if err != nil {
				return err
			}
			items, err := svc.List(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			raw := make([]availability.Primitives, 0, len(items))
			rows := make([]table.Row, 0, len(items))
			for _, av := range items {
				p := av.ToPrimitives()
				raw = append(raw, p)
				rows = append(rows, table.Row{p.ID, p.Name, p.StartDate, p.EndDate, p.State, len(p.Segments)})
			}
			return a.printTable(cmd.OutOrStdout(), raw, table.Row{"ID", "Name", "From", "To", "State", "Segments"}, rows)
		},
	}
}

func availabilityMinutesCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "minutes <availability-id>",
		Short: "Total the available minutes across all segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.AvailabilityService](a)
			if err != nil {
				return err
			}
			total, err := svc.TotalMinutes(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]int{"total_minutes": total})
			}
			return printLine(cmd.OutOrStdout(), "%d minutes (%dh%02dm)", total, total/60, total%60)
		},
	}
}
