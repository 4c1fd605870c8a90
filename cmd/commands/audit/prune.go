package audit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/roles"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit records older than a retention period",
		Long: `Delete audit records older than a retention period.

Without --older-than the retention-days setting is used.

Examples:
  pharmacert audit prune
  pharmacert audit prune --older-than 30d
  pharmacert audit prune --older-than 0`,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove records older than this many days (e.g. 30d or 30)")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	days := a.Config.Retention()
	if raw, _ := cmd.Flags().GetString("older-than"); strings.TrimSpace(raw) != "" {
		days, err = parseDays(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
	}

	if _, err := a.Require(cmdutil.Context(cmd), roles.ManageUsers, "audit prune"); err != nil {
		return err
	}

	removed := a.Audit.PurgeOlderThan(days)
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audit record(s) older than %d day(s).\n", removed, days)
	return nil
}

// parseDays reads a whole number of days, with or without a "d" suffix.
func parseDays(input string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSuffix(input, "d"))
	if err != nil {
		return 0, fmt.Errorf("invalid day count %q", input)
	}
	if days < 0 {
		return 0, fmt.Errorf("day count must not be negative")
	}
	return days, nil
}

// parseDuration accepts Go durations plus a "d" suffix for days.
func parseDuration(input string) (time.Duration, error) {
	if before, ok := strings.CutSuffix(input, "d"); ok {
		days, err := strconv.Atoi(before)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", input)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
