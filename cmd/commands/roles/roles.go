package roles

import "github.com/spf13/cobra"

// NewCommand returns the "roles" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage wallet roles and responsibility zones",
		Long: `Manage which role each wallet address holds and the zone it may act in.

Roles, from most to least privileged: admin, supervisor, operator, viewer.
Unknown addresses are viewers. Granting or revoking admin is recorded in the
audit trail as ADMIN_ADDED or ADMIN_REMOVED.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(AssignCommand())
	cmd.AddCommand(ZoneCommand())
	cmd.AddCommand(RemoveCommand())

	return cmd
}
