package main

import (
	"io"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/teamspace/internal/domain/user"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

// invoke resolves a dependency from the container.
func invoke[T any](a *cliApp) (T, error) {
	return do.Invoke[T](a.injector)
}

// userView is what the CLI shows of a user. Credentials never leave the
// process.
type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *cliApp) printUser(w io.Writer, u *user.User) error {
	p := u.ToPrimitives()
	v := userView{ID: p.ID, Name: p.Name, Email: p.Email}
	return a.printFields(w, v, [][2]any{
		{"ID", v.ID},
		{"Name", v.Name},
		{"Email", v.Email},
		{"Created", stamp(p.CreatedAt)},
	})
}

func userCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Register and manage users"}
	cmd.AddCommand(
		userRegisterCmd(a),
		userLoginCmd(a),
		userShowCmd(a),
		userRenameCmd(a),
		userPasswdCmd(a),
	)
	return cmd
}

func userRegisterCmd(a *cliApp) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := invoke[ports.UserService](a)
			if err != nil {
				return err
			}
			u, err := svc.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			return a.printUser(cmd.OutOrStdout(), u)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func userLoginCmd(a *cliApp) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials and print the user id to pass with --as",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := invoke[ports.UserService](a)
			if err != nil {
				return err
			}
			u, err := svc.Authenticate(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return a.printUser(cmd.OutOrStdout(), u)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func userShowCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := invoke[ports.UserService](a)
			if err != nil {
				return err
			}
			u, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printUser(cmd.OutOrStdout(), u)
		},
	}
}

func userRenameCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <user-id> <name>",
		Short: "Change a display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.UserService](a)
			if err != nil {
				return err
			}
			u, err := svc.Rename(cmd.Context(), actor, args[0], args[1])
			if err != nil {
				return err
			}
			return a.printUser(cmd.OutOrStdout(), u)
		},
	}
}

func userPasswdCmd(a *cliApp) *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "passwd <user-id>",
		Short: "Change a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actorID()
			if err != nil {
				return err
			}
			svc, err := invoke[ports.UserService](a)
			if err != nil {
				return err
			}
			if _, err := svc.ChangePassword(cmd.Context(), actor, args[0], current, next); err != nil {
				return err
			}
			return printLine(cmd.OutOrStdout(), "password changed")
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}
