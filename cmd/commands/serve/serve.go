package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/httpapi"

	"github.com/spf13/cobra"
)

// NewCommand returns the "serve" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the audit log and notifications over HTTP",
		Long: `Start the HTTP API used by the browser front end.

Endpoints:
  GET  /api/audit                  List records (actor, action, severity, since, until)
  POST /api/audit                  Record an event
  GET  /api/audit/stats            Aggregated statistics
  GET  /api/audit/export           Download as json or csv
  GET  /api/audit/stream           Server-sent event stream of snapshots
  GET  /api/notifications          Notification feed
  POST /api/notifications/{id}/read

The server stops gracefully on SIGINT or SIGTERM.

Examples:
  pharmacert serve
  pharmacert serve --addr :9090 --origin http://localhost:3000`,
		Args:         cobra.NoArgs,
		RunE:         runServe,
		SilenceUsage: true,
	}

	cmd.Flags().String("addr", "", "Listen address (default from listen-addr config)")
	cmd.Flags().StringSlice("origin", nil, "Allowed CORS origin (repeatable, default any)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.Config.ListenAddr()
	}
	origins, _ := cmd.Flags().GetStringSlice("origin")

	ctx, stop := signal.NotifyContext(cmdutil.Context(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.New(a.Audit, a.Notifications,
		httpapi.WithLogger(a.Logger.Named("http")),
		httpapi.WithAllowedOrigins(origins...),
	)

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving on %s (ctrl+c to stop)\n", addr)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}
