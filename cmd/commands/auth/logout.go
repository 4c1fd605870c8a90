package auth

import (
	"errors"
	"fmt"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/session"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Disconnect the current wallet address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			actor := a.Actor()
			if err := a.Session.Clear(); err != nil {
				if errors.Is(err, session.ErrNoSession) {
					fmt.Fprintln(cmd.OutOrStdout(), "No wallet connected.")
					return nil
				}
				return err
			}

			a.Audit.UserLogout(cmdutil.Context(cmd), actor)
			fmt.Fprintf(cmd.OutOrStdout(), "Disconnected %s\n", actor.ID)
			return nil
		},
		SilenceUsage: true,
	}
}
