package audit

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/auditlog"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit records",
		Long: `List audit records, newest first.

Unknown action or severity values match nothing.

Examples:
  pharmacert audit list
  pharmacert audit list --limit 50
  pharmacert audit list --severity critical
  pharmacert audit list --actor 0xabc --since 7d
  pharmacert audit list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of records to display (0 for all)")
	cmd.Flags().String("actor", "", "Only records by this actor address")
	cmd.Flags().String("action", "", "Only records with this action (e.g. PRODUCT_ADDED)")
	cmd.Flags().String("severity", "", "Only records with this severity: low, medium, high, critical")
	cmd.Flags().String("since", "", "Only records newer than this age (e.g. 7d, 12h) or RFC3339 time")
	cmd.Flags().String("until", "", "Only records older than this age (e.g. 1d) or RFC3339 time")
	cmdutil.OutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd, time.Now())
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	records := a.Audit.Query(filter)

	if output == "json" {
		if records == nil {
			records = []auditlog.Record{}
		}
		return cmdutil.PrintJSON(cmd, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit records found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tACTOR\tROLE\tSEVERITY\tDETAILS")
	fmt.Fprintln(w, "----\t------\t-----\t----\t--------\t-------")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Time().Local().Format("2006-01-02 15:04:05"),
			r.Action,
			r.ActorID,
			r.ActorRole,
			r.Severity,
			formatDetails(r.Details),
		)
	}
	return w.Flush()
}

func filterFromFlags(cmd *cobra.Command, now time.Time) (auditlog.Filter, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return auditlog.Filter{}, fmt.Errorf("limit must not be negative")
	}
	actor, _ := cmd.Flags().GetString("actor")
	action, _ := cmd.Flags().GetString("action")
	severity, _ := cmd.Flags().GetString("severity")
	sinceRaw, _ := cmd.Flags().GetString("since")
	untilRaw, _ := cmd.Flags().GetString("until")

	f := auditlog.Filter{
		ActorID:  strings.TrimSpace(actor),
		Action:   auditlog.Action(strings.ToUpper(strings.TrimSpace(action))),
		Severity: auditlog.Severity(strings.ToLower(strings.TrimSpace(severity))),
		Limit:    limit,
	}

	var err error
	if f.Since, err = parseTime(sinceRaw, now); err != nil {
		return auditlog.Filter{}, fmt.Errorf("invalid --since: %w", err)
	}
	if f.Until, err = parseTime(untilRaw, now); err != nil {
		return auditlog.Filter{}, fmt.Errorf("invalid --until: %w", err)
	}
	return f, nil
}

// parseTime accepts an RFC3339 timestamp or an age relative to now.
func parseTime(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}
	d, err := parseDuration(input)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-d), nil
}

func formatDetails(d auditlog.Details) string {
	if len(d) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, d[k])
	}
	return ansi.Truncate(strings.Join(parts, " "), 60, "...")
}
