package auth

import (
	"errors"
	"fmt"
	"strings"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/roles"
	"pharmacertlabs/pharmacert/internal/session"
	"pharmacertlabs/pharmacert/internal/tui"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the connected address, role, and permissions",
		Long: `Show the connected wallet address with its role, zone, and permissions.

Example:
  pharmacert auth status`,
		RunE:         runStatus,
		SilenceUsage: true,
	}

	cmdutil.OutputFlag(cmd)

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var user *roles.User
	address, err := a.Session.Address()
	switch {
	case err == nil:
		role, err := a.Roles.RoleOf(address)
		if err != nil {
			return err
		}
		zone, err := a.Roles.Zone(address)
		if err != nil {
			return err
		}
		user = &roles.User{Address: address, Role: role, Zone: zone, Permissions: role.Permissions()}
	case !errors.Is(err, session.ErrNoSession):
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "json" {
		return cmdutil.PrintJSON(cmd, user)
	}

	if cmdutil.Interactive(cmd) {
		if err := tui.RunSessionStatus(user); err != nil {
			return fmt.Errorf("auth status failed: %w", err)
		}
		return nil
	}

	if user == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
		return nil
	}

	perms := make([]string, len(user.Permissions))
	for i, p := range user.Permissions {
		perms[i] = string(p)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Address:     %s\n", user.Address)
	fmt.Fprintf(cmd.OutOrStdout(), "Role:        %s\n", user.Role)
	fmt.Fprintf(cmd.OutOrStdout(), "Zone:        %s\n", user.Zone)
	fmt.Fprintf(cmd.OutOrStdout(), "Permissions: %s\n", strings.Join(perms, ", "))
	return nil
}
