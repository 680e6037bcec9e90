package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

const defaultProfile = "local"

// errNoActor is returned by commands that act on behalf of a user when
// --as was not given.
var errNoActor = errors.New("this command needs an acting user: pass --as <user-id>")

// newRootCmd builds the command tree around a. The caller owns a and must
// call a.teardown once the command finished, whether it failed or not.
func newRootCmd(a *cliApp) *cobra.Command {
	root := &cobra.Command{
		Use:           "teamspace",
		Short:         "Workspaces, projects, tasks and AI agents from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(cmd.Context()); err != nil {
				return err
			}
			cmd.SetContext(a.context(cmd.Context(), cmd.CommandPath()))
			return nil
		},
	}

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		profile = defaultProfile
	}
	root.PersistentFlags().StringVar(&a.profile, "profile", profile, "configuration profile (APP_PROFILE)")
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "configs", "directory holding base.yaml and profile files")
	root.PersistentFlags().StringVar(&a.actor, "as", "", "id of the acting user")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of tables")

	root.AddCommand(
		userCmd(a),
		workspaceCmd(a),
		projectCmd(a),
		taskCmd(a),
		chatCmd(a),
		availabilityCmd(a),
		agentCmd(a),
		eventsCmd(a),
		statusCmd(a),
	)
	return root
}

// actorID returns the --as user or errNoActor.
func (a *cliApp) actorID() (string, error) {
	if a.actor == "" {
		return "", errNoActor
	}
	return a.actor, nil
}
