package roles

import (
	"context"
	"errors"
	"fmt"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/app"
	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/roles"
	"pharmacertlabs/pharmacert/internal/tui"
	"pharmacertlabs/pharmacert/internal/util"

	"github.com/spf13/cobra"
)

func AssignCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <address> [role]",
		Short: "Assign a role to an address",
		Long: `Assign a role to an address. In a terminal the role can be picked interactively.

Examples:
  pharmacert roles assign 0xb0b supervisor
  pharmacert roles assign 0xb0b`,
		Args:         cobra.RangeArgs(1, 2),
		RunE:         runAssign,
		SilenceUsage: true,
	}

	return cmd
}

func runAssign(cmd *cobra.Command, args []string) error {
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
	actor, err := a.Require(ctx, roles.AssignRoles, "roles assign")
	if err != nil {
		return err
	}

	current, err := a.Roles.RoleOf(target)
	if err != nil {
		return err
	}

	var role roles.Role
	if len(args) == 2 {
		role, err = roles.ParseRole(args[1])
	} else if cmdutil.Interactive(cmd) {
		role, err = tui.RoleForm(target, current)
	} else {
		err = fmt.Errorf("a role is required when not running in a terminal")
	}
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Assignment cancelled.")
			return nil
		}
		return err
	}

	if err := a.Roles.SetRole(target, role); err != nil {
		return err
	}
	recordChange(ctx, a, actor, target, current, role)

	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s (was %s)\n", target, role, current)
	return nil
}

// recordChange audits admin grants and revocations and announces every change.
func recordChange(ctx context.Context, a *app.App, actor auditlog.Actor, target string, from, to roles.Role) {
	switch {
	case to == roles.Admin && from != roles.Admin:
		a.Audit.AdminChanged(ctx, actor, "add", target)
	case from == roles.Admin && to != roles.Admin:
		a.Audit.AdminChanged(ctx, actor, "remove", target)
	}
	if from != to {
		a.Notifications.AdminAction(fmt.Sprintf("role %s -> %s", from, to), target)
	}
}
