package product

import (
	"fmt"
	"strings"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/chain"

	"github.com/spf13/cobra"
)

func PayloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payload",
		Short: "Print an unsigned registry payload",
		Long: `Print the entry-function payload for a wallet to sign and submit.

Examples:
  pharmacert product payload --name Aspirin --category analgesic --description "500mg"
  pharmacert product payload --entry 42`,
		RunE:         runPayload,
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "Product name (add_product)")
	cmd.Flags().String("category", "", "Product category (add_product)")
	cmd.Flags().String("description", "", "Product description (add_product)")
	cmd.Flags().String("entry", "", "Product id to emit with get_product_entry instead")

	return cmd
}

func runPayload(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	module := a.Module()
	if err := module.Validate(); err != nil {
		return err
	}

	var payload chain.Payload
	if id, _ := cmd.Flags().GetString("entry"); strings.TrimSpace(id) != "" {
		payload = module.GetProductEntry(strings.TrimSpace(id))
	} else {
		name, _ := cmd.Flags().GetString("name")
		category, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")
		name, category = strings.TrimSpace(name), strings.TrimSpace(category)
		if name == "" || category == "" {
			return fmt.Errorf("--name and --category are required (or use --entry)")
		}
		payload = module.AddProduct(name, category, strings.TrimSpace(description))
	}

	return cmdutil.PrintJSON(cmd, payload)
}
