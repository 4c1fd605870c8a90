package roles

import (
	"fmt"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/roles"
	"pharmacertlabs/pharmacert/internal/util"

	"github.com/spf13/cobra"
)

func RemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <address>",
		Short: "Forget an address, returning it to viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := util.NormalizeAddress(args[0])
			if err != nil {
				return err
			}

			a, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmdutil.Context(cmd)
			actor, err := a.Require(ctx, roles.AssignRoles, "roles remove")
			if err != nil {
				return err
			}
			if target == actor.ID {
				return fmt.Errorf("refusing to remove the connected address")
			}

			current, err := a.Roles.RoleOf(target)
			if err != nil {
				return err
			}
			if err := a.Roles.Remove(target); err != nil {
				return err
			}
			recordChange(ctx, a, actor, target, current, roles.Viewer)

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (was %s)\n", target, current)
			return nil
		},
		SilenceUsage: true,
	}
}
