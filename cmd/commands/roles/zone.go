package roles

import (
	"fmt"
	"strings"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/roles"
	"pharmacertlabs/pharmacert/internal/util"

	"github.com/spf13/cobra"
)

func ZoneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone <address> [zone]",
		Short: "Show or set the responsibility zone of an address",
		Long: `Show or set the responsibility zone of an address.

The Global zone, or no zone, allows acting everywhere.

Examples:
  pharmacert roles zone 0xb0b
  pharmacert roles zone 0xb0b "North Warehouse"
  pharmacert roles zone 0xb0b Global`,
		Args:         cobra.RangeArgs(1, 2),
		RunE:         runZone,
		SilenceUsage: true,
	}

	return cmd
}

func runZone(cmd *cobra.Command, args []string) error {
	target, err := util.NormalizeAddress(args[0])
	if err != nil {
		return err
	}

	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		zone, err := a.Roles.Zone(target)
		if err != nil {
			return err
		}
		if zone == "" {
			zone = roles.GlobalZone
		}
		fmt.Fprintln(cmd.OutOrStdout(), zone)
		return nil
	}

	if _, err := a.Require(cmdutil.Context(cmd), roles.ManageUsers, "roles zone"); err != nil {
		return err
	}

	zone := strings.TrimSpace(args[1])
	if zone == "" {
		zone = roles.GlobalZone
	}
	if err := a.Roles.SetZone(target, zone); err != nil {
		return err
	}
	a.Notifications.AdminAction("zone set to "+zone, target)

	fmt.Fprintf(cmd.OutOrStdout(), "%s zone set to %q\n", target, zone)
	return nil
}
