package product

import "github.com/spf13/cobra"

// NewCommand returns the "product" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Work with the on-chain product registry",
		Long: "Build registry payloads for a wallet to sign, confirm submitted\n" +
			"transactions, and read products back from the fullnode.\n\n" +
			"pharmacert never signs transactions itself.",
		SilenceUsage: true,
	}

	cmd.AddCommand(PayloadCommand())
	cmd.AddCommand(AddCommand())
	cmd.AddCommand(WaitCommand())
	cmd.AddCommand(ShowCommand())

	return cmd
}
