package config

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"pharmacertlabs/pharmacert/internal/config"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Print the effective value of a configuration key, defaults included.\n" +
			"With no key, every setting is listed.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  pharmacert config get\n" +
			"  pharmacert config get storage-backend",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, spec := range config.Keys {
			fmt.Fprintf(w, "%s:\t%s\n", spec.Name, spec.Get(cfg))
		}
		return w.Flush()
	}

	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	fmt.Fprintln(cmd.OutOrStdout(), spec.Get(cfg))
	return nil
}
