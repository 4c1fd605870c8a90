// Package cmdutil holds the helpers every pharmacert subcommand shares:
// opening the stores from global flags and picking an output mode.
package cmdutil

import (
	"context"
	"encoding/json"
	"os"

	"pharmacertlabs/pharmacert/internal/app"
	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/logging"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// UserAgent tags records created from the command line.
const UserAgent = "pharmacert-cli"

// Open builds the App for a command from the global --verbose and
// --ephemeral flags. The caller closes it.
func Open(cmd *cobra.Command) (*app.App, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	ephemeral, _ := cmd.Flags().GetBool("ephemeral")

	return app.Open(app.Options{
		Ephemeral: ephemeral,
		Logger:    logging.New(cmd.ErrOrStderr(), verbose),
	})
}

// Context returns the command context tagged with the CLI origin.
func Context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return auditlog.WithOrigin(ctx, auditlog.Origin{UserAgent: UserAgent})
}

// Interactive reports whether stdout is a terminal and the command writes to it.
func Interactive(cmd *cobra.Command) bool {
	return cmd.OutOrStdout() == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
}

// PrintJSON encodes v as indented JSON to the command's stdout.
func PrintJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// OutputFlag registers the --output/-o flag accepting table or json.
func OutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")
}
