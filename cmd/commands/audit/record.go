package audit

import (
	"encoding/json"
	"fmt"
	"strings"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/auditlog"

	"github.com/spf13/cobra"
)

func RecordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <action>",
		Short: "Record an audit event as the connected wallet",
		Long: `Record an audit event as the connected wallet.

Details are given as key=value pairs; values that parse as JSON keep their
type. Sensitive keys such as privateKey are redacted.

Valid actions:
  ` + actionNames() + `

Examples:
  pharmacert audit record PRODUCT_VIEWED --detail productId=42
  pharmacert audit record SYSTEM_ERROR --detail error="node timeout" --severity high`,
		Args:         cobra.ExactArgs(1),
		RunE:         runRecord,
		SilenceUsage: true,
	}

	cmd.Flags().StringArray("detail", nil, "Detail as key=value (repeatable)")
	cmd.Flags().String("severity", "", "Override the action's default severity")
	cmdutil.OutputFlag(cmd)

	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	action := auditlog.Action(strings.ToUpper(strings.TrimSpace(args[0])))
	if !action.Valid() {
		return fmt.Errorf("unknown action %q", args[0])
	}

	sevRaw, _ := cmd.Flags().GetString("severity")
	severity := auditlog.Severity(strings.ToLower(strings.TrimSpace(sevRaw)))
	if severity != "" && !severity.Valid() {
		return fmt.Errorf("unknown severity %q", sevRaw)
	}

	pairs, _ := cmd.Flags().GetStringArray("detail")
	details, err := parseDetails(pairs)
	if err != nil {
		return err
	}

	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	r := a.Audit.Record(cmdutil.Context(cmd), action, a.Actor(), details, severity)

	if output, _ := cmd.Flags().GetString("output"); output == "json" {
		return cmdutil.PrintJSON(cmd, r)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s) as %s\n", r.Action, r.Severity, r.ActorID)
	return nil
}

func parseDetails(pairs []string) (auditlog.Details, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	d := make(auditlog.Details, len(pairs))
	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid detail %q (want key=value)", p)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		d[key] = v
	}
	return d, nil
}

func actionNames() string {
	names := make([]string, len(auditlog.Actions))
	for i, a := range auditlog.Actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
