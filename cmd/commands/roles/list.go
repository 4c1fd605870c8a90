package roles

import (
	"fmt"
	"text/tabwriter"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/roles"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List addresses with their role and zone",
		RunE:         runList,
		SilenceUsage: true,
	}

	cmdutil.OutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Require(cmdutil.Context(cmd), roles.ManageUsers, "roles list"); err != nil {
		return err
	}

	users, err := a.Roles.Users()
	if err != nil {
		return err
	}

	if output, _ := cmd.Flags().GetString("output"); output == "json" {
		return cmdutil.PrintJSON(cmd, users)
	}

	if len(users) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No addresses registered.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tROLE\tZONE\tPERMISSIONS")
	fmt.Fprintln(w, "-------\t----\t----\t-----------")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", u.Address, u.Role, u.Zone, len(u.Permissions))
	}
	return w.Flush()
}
