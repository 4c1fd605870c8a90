package audit

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/roles"

	"github.com/spf13/cobra"
)

func StatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate audit counts",
		Long: `Show record counts by severity, action, actor, and UTC day.

Examples:
  pharmacert audit stats
  pharmacert audit stats -o json`,
		RunE:         runStats,
		SilenceUsage: true,
	}

	cmdutil.OutputFlag(cmd)

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Require(cmdutil.Context(cmd), roles.ViewStats, "audit stats"); err != nil {
		return err
	}

	stats := a.Audit.Stats()
	if output == "json" {
		return cmdutil.PrintJSON(cmd, stats)
	}
	return printStats(cmd.OutOrStdout(), stats, a.Audit.MaxRecords())
}

func printStats(out io.Writer, stats auditlog.Stats, capacity int) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Total:\t%d / %d\n", stats.Total, capacity)
	last := "-"
	if stats.LastActivity > 0 {
		last = time.UnixMilli(stats.LastActivity).Local().Format("2006-01-02 15:04:05")
	}
	fmt.Fprintf(w, "Last activity:\t%s\n", last)

	fmt.Fprintln(w, "\nSEVERITY\tCOUNT")
	for _, s := range auditlog.Severities {
		fmt.Fprintf(w, "%s\t%d\n", s, stats.BySeverity[s])
	}

	fmt.Fprintln(w, "\nACTION\tCOUNT")
	for _, act := range auditlog.Actions {
		if n := stats.ByAction[act]; n > 0 {
			fmt.Fprintf(w, "%s\t%d\n", act, n)
		}
	}

	fmt.Fprintln(w, "\nACTOR\tCOUNT")
	for _, k := range sortedKeys(stats.ByActor) {
		fmt.Fprintf(w, "%s\t%d\n", k, stats.ByActor[k])
	}

	fmt.Fprintln(w, "\nDAY (UTC)\tCOUNT")
	for _, k := range sortedKeys(stats.ByDay) {
		fmt.Fprintf(w, "%s\t%d\n", k, stats.ByDay[k])
	}

	return w.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
