package auth

import (
	"fmt"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/tui"
	"pharmacertlabs/pharmacert/internal/util"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [address]",
		Short: "Connect a wallet address",
		Long: `Connect a wallet address and record the login.

Without an address, an interactive prompt asks for one.

Example:
  pharmacert auth login 0x1a2b3c`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("method", "wallet", "Login method recorded in the audit trail")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var address string
	if len(args) == 1 {
		address, err = util.NormalizeAddress(args[0])
		if err != nil {
			return err
		}
		if err := a.Session.SetAddress(address); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
	} else {
		if !cmdutil.Interactive(cmd) {
			return fmt.Errorf("an address is required when not running in a terminal")
		}
		address, err = tui.RunWalletLogin(a.Session)
		if err != nil {
			return err
		}
		if address == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Login cancelled.")
			return nil
		}
	}

	user, err := a.Roles.Initialize(address)
	if err != nil {
		return fmt.Errorf("failed to initialize role: %w", err)
	}

	method, _ := cmd.Flags().GetString("method")
	a.Audit.UserLogin(cmdutil.Context(cmd), auditlog.Actor{ID: user.Address, Role: string(user.Role)}, method)

	fmt.Fprintf(cmd.OutOrStdout(), "Connected %s as %s\n", user.Address, user.Role)
	return nil
}
