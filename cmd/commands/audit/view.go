package audit

import (
	"fmt"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/tui"

	"github.com/spf13/cobra"
)

func ViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the audit trail interactively",
		Long: `Open a live, filterable view of the audit trail.

Keys: f cycles severity, a cycles action, / searches by actor,
enter shows a record, p purges records past the retention period.`,
		RunE:         runView,
		SilenceUsage: true,
	}

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	if !cmdutil.Interactive(cmd) {
		return fmt.Errorf("audit view needs a terminal; use `pharmacert audit list` instead")
	}

	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := tui.RunAuditViewer(a.Audit, a.Actor(), a.Config.Retention()); err != nil {
		return fmt.Errorf("audit view failed: %w", err)
	}
	return nil
}
