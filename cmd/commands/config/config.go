package config

import (
	"pharmacertlabs/pharmacert/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pharmacert configuration",
		Long: "View and modify persistent pharmacert settings.\n\n" +
			"Configuration is stored at ~/.config/pharmacert/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
