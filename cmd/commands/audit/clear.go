package audit

import (
	"errors"
	"fmt"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/roles"
	"pharmacertlabs/pharmacert/internal/tui"

	"github.com/spf13/cobra"
)

func ClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every audit record",
		Long: `Delete every audit record. Asks for confirmation in a terminal.

Examples:
  pharmacert audit clear
  pharmacert audit clear --yes`,
		RunE:         runClear,
		SilenceUsage: true,
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Require(cmdutil.Context(cmd), roles.ManageUsers, "audit clear"); err != nil {
		return err
	}

	count := a.Audit.Len()
	if !yes {
		if !cmdutil.Interactive(cmd) {
			return fmt.Errorf("refusing to clear %d record(s) without --yes", count)
		}
		if err := tui.ConfirmClear(count); err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Clear cancelled.")
				return nil
			}
			return err
		}
	}

	a.Audit.Clear()
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d audit record(s).\n", count)
	return nil
}
