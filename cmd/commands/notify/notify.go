package notify

import (
	"fmt"
	"text/tabwriter"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/notify"

	"github.com/spf13/cobra"
)

// NewCommand returns the "notify" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Read the notification feed",
		Long: `Read the notification feed of product, certification, and admin events.

Examples:
  pharmacert notify list --unread
  pharmacert notify read all`,
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ReadCommand())

	return cmd
}

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List notifications, newest first",
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("unread", false, "Only show unread notifications")
	cmdutil.OutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	items := a.Notifications.List()
	if unread, _ := cmd.Flags().GetBool("unread"); unread {
		filtered := items[:0:0]
		for _, n := range items {
			if !n.Read {
				filtered = append(filtered, n)
			}
		}
		items = filtered
	}

	if output, _ := cmd.Flags().GetString("output"); output == "json" {
		if items == nil {
			items = []notify.Notification{}
		}
		return cmdutil.PrintJSON(cmd, items)
	}

	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No notifications.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTYPE\tREAD\tMESSAGE")
	fmt.Fprintln(w, "--\t----\t----\t----\t-------")
	for _, n := range items {
		read := "no"
		if n.Read {
			read = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			n.ID,
			n.Time().Local().Format("2006-01-02 15:04:05"),
			n.Type,
			read,
			n.Message,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d unread\n", a.Notifications.UnreadCount())
	return nil
}

func ReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id|all>",
		Short: "Mark a notification, or all of them, as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.Notifications.MarkRead(args[0]) {
				return fmt.Errorf("no notification with id %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d unread\n", a.Notifications.UnreadCount())
			return nil
		},
		SilenceUsage: true,
	}
}
