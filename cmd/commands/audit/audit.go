package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and manage the audit trail",
		Long: "Inspect, export, and prune the pharmacert audit trail.\n\n" +
			"Records are kept newest first and capped by the max-records setting.\n" +
			"The storage backend is chosen with `pharmacert config set storage-backend`.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(StatsCommand())
	cmd.AddCommand(ExportCommand())
	cmd.AddCommand(PruneCommand())
	cmd.AddCommand(ClearCommand())
	cmd.AddCommand(RecordCommand())
	cmd.AddCommand(ViewCommand())

	return cmd
}
