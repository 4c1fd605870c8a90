package product

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/chain"
	"pharmacertlabs/pharmacert/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentWaits bounds how many transactions are polled at once.
const maxConcurrentWaits = 4

func WaitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait <hash>...",
		Short: "Wait for submitted transactions to commit",
		Long: `Poll the fullnode until each transaction commits, then report its outcome.

Example:
  pharmacert product wait 0x5f2a... 0x91bc...`,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runWait,
		SilenceUsage: true,
	}

	cmdutil.OutputFlag(cmd)

	return cmd
}

func runWait(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	results, waitErr := waitWithProgress(cmd, a.Chain(), args)

	if output, _ := cmd.Flags().GetString("output"); output == "json" {
		if err := cmdutil.PrintJSON(cmd, results); err != nil {
			return err
		}
		return waitErr
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HASH\tSTATUS\tVERSION\tGAS")
	fmt.Fprintln(w, "----\t------\t-------\t---")
	for i, hash := range args {
		tx := results[i]
		status, version, gas := "unknown", "-", "-"
		if tx != nil {
			status, version, gas = txStatus(tx), or(tx.Version, "-"), or(tx.GasUsed, "-")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", hash, status, version, gas)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return waitErr
}

// waitWithProgress waits for hashes, behind a spinner when attached to a terminal.
func waitWithProgress(cmd *cobra.Command, client *chain.Client, hashes []string) ([]*chain.Transaction, error) {
	ctx := cmdutil.Context(cmd)
	if !cmdutil.Interactive(cmd) {
		return waitAll(ctx, client, hashes)
	}

	var results []*chain.Transaction
	var waitErr error
	title := fmt.Sprintf("Waiting for %d transaction(s)...", len(hashes))
	if err := tui.RunWithSpinner(ctx, title, func(ctx context.Context) error {
		results, waitErr = waitAll(ctx, client, hashes)
		return nil
	}); err != nil {
		return nil, err
	}
	return results, waitErr
}

// waitAll waits for every hash concurrently. Results keep the order of
// hashes; a failed wait leaves the last seen transaction, if any.
func waitAll(ctx context.Context, client *chain.Client, hashes []string) ([]*chain.Transaction, error) {
	results := make([]*chain.Transaction, len(hashes))
	errs := make([]error, len(hashes))

	var g errgroup.Group
	g.SetLimit(maxConcurrentWaits)
	for i, hash := range hashes {
		g.Go(func() error {
			results[i], errs[i] = client.WaitForTransaction(ctx, hash)
			return nil
		})
	}
	g.Wait()

	return results, errors.Join(errs...)
}

func txStatus(tx *chain.Transaction) string {
	switch {
	case tx.Pending():
		return "pending"
	case tx.Success:
		return "committed"
	case tx.VMStatus != "":
		return "failed: " + tx.VMStatus
	default:
		return "failed"
	}
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
