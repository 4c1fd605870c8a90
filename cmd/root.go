package cmd

import (
	"os"

	"pharmacertlabs/pharmacert/cmd/commands/audit"
	"pharmacertlabs/pharmacert/cmd/commands/auth"
	cfgcmd "pharmacertlabs/pharmacert/cmd/commands/config"
	"pharmacertlabs/pharmacert/cmd/commands/notify"
	"pharmacertlabs/pharmacert/cmd/commands/product"
	"pharmacertlabs/pharmacert/cmd/commands/roles"
	"pharmacertlabs/pharmacert/cmd/commands/serve"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "pharmacert",
		Short: "Audit trail and role management for the PharmaCert product registry",
		Long: `pharmacert keeps the audit trail of the PharmaCert pharmaceutical product
registry on Aptos. It records who did what and when, manages the roles of
connected wallets, follows product transactions on chain, and serves the
audit log and notification feed to the browser front end.

Quick start:
  pharmacert auth login 0xabc...   # Connect a wallet address
  pharmacert audit list            # Show recent audit records
  pharmacert audit view            # Browse the audit log interactively
  pharmacert serve                 # Start the HTTP API`,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("ephemeral", false, "Keep every store in memory for this run")

	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(notify.NewCommand())
	cmd.AddCommand(product.NewCommand())
	cmd.AddCommand(roles.NewCommand())
	cmd.AddCommand(serve.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
