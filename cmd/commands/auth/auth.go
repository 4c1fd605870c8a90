package auth

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Connect and disconnect a wallet address",
		Long: `Connect and disconnect the wallet address pharmacert acts as.

The address is kept in the OS keychain. Logins and logouts are recorded in
the audit trail, and the first address ever connected becomes admin.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
