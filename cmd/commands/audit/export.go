package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/roles"

	"github.com/spf13/cobra"
)

func ExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full audit trail as JSON or CSV",
		Long: `Export every audit record to a dated file (audit_trail_YYYY-MM-DD.<format>).

Use --dir - to write to stdout instead of a file.

Examples:
  pharmacert audit export
  pharmacert audit export --format csv --dir ./reports
  pharmacert audit export --format json --dir - | jq length`,
		RunE:         runExport,
		SilenceUsage: true,
	}

	cmd.Flags().String("format", "json", "Export format: json or csv")
	cmd.Flags().String("dir", ".", "Directory to write the export to, or - for stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	formatRaw, _ := cmd.Flags().GetString("format")
	format, err := auditlog.ParseFormat(formatRaw)
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("dir")

	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmdutil.Context(cmd)
	actor, err := a.Require(ctx, roles.ExportData, "audit export")
	if err != nil {
		return err
	}

	count := a.Audit.Len()
	data, err := a.Audit.Export(format)
	if err != nil {
		return err
	}

	if dir == "-" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
		a.Audit.ProductExported(ctx, actor, format, "stdout")
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, auditlog.ExportFilename(format, time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	a.Audit.ProductExported(ctx, actor, format, path)

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) to %s\n", count, path)
	return nil
}
