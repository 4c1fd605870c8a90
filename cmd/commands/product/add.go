package product

import (
	"fmt"
	"strings"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/app"
	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/notify"
	"pharmacertlabs/pharmacert/internal/roles"
	"pharmacertlabs/pharmacert/internal/tui"

	"github.com/spf13/cobra"
)

func AddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a product added through a signed transaction",
		Long: `Confirm a signed add_product transaction and record the new product.

Sign the payload from "pharmacert product payload" with your wallet first,
then pass the transaction hash. In a terminal, missing fields are prompted for.

Example:
  pharmacert product add --name Aspirin --category analgesic \
    --supplier "Acme Pharma" --batch LOT-2291 --tx 0x5f2a...`,
		RunE:         runAdd,
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "Product name")
	cmd.Flags().String("category", "", "Product category")
	cmd.Flags().String("description", "", "Product description")
	cmd.Flags().String("supplier", "", "Supplier name")
	cmd.Flags().String("batch", "", "Batch number")
	cmd.Flags().String("tx", "", "Hash of the signed add_product transaction")
	cmd.Flags().String("zone", "", "Responsibility zone the product belongs to")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	txHash, _ := cmd.Flags().GetString("tx")
	txHash = strings.TrimSpace(txHash)
	if txHash == "" {
		return fmt.Errorf("--tx is required; sign the payload from `pharmacert product payload` first")
	}

	input := inputFromFlags(cmd)
	if input.Name == "" || input.Category == "" {
		if !cmdutil.Interactive(cmd) {
			return fmt.Errorf("--name and --category are required")
		}
		filled, err := tui.ProductForm(input)
		if err != nil {
			return err
		}
		input = *filled
	}
	supplier, _ := cmd.Flags().GetString("supplier")
	batch, _ := cmd.Flags().GetString("batch")
	zone, _ := cmd.Flags().GetString("zone")
	zone = strings.TrimSpace(zone)

	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmdutil.Context(cmd)
	actor, err := a.Require(ctx, roles.AddProduct, "product add")
	if err != nil {
		return err
	}
	if zone != "" {
		ok, err := a.Roles.CanAccessZone(actor.ID, zone)
		if err != nil {
			return err
		}
		if !ok {
			attempted := fmt.Sprintf("product add in zone %s", zone)
			a.Audit.PermissionDenied(ctx, actor, attempted)
			return fmt.Errorf("%w: %s is outside your zone", app.ErrPermissionDenied, attempted)
		}
	}

	results, err := waitWithProgress(cmd, a.Chain(), []string{txHash})
	if err != nil {
		a.Audit.SystemError(ctx, actor, err, "product add")
		return err
	}
	tx := results[0]

	product := auditlog.Product{
		Name:        input.Name,
		Category:    input.Category,
		Supplier:    strings.TrimSpace(supplier),
		BatchNumber: strings.TrimSpace(batch),
		TxHash:      txHash,
	}
	a.Audit.ProductAdded(ctx, actor, product)
	data := notify.Data{
		"category": product.Category,
		"txHash":   txHash,
		"version":  tx.Version,
	}
	if zone != "" {
		data["zone"] = zone
	}
	a.Notifications.NewProduct(product.Name, data)

	fmt.Fprintf(cmd.OutOrStdout(), "Added %q in transaction %s (version %s)\n", product.Name, txHash, or(tx.Version, "-"))
	return nil
}

func inputFromFlags(cmd *cobra.Command) tui.ProductInput {
	name, _ := cmd.Flags().GetString("name")
	category, _ := cmd.Flags().GetString("category")
	description, _ := cmd.Flags().GetString("description")
	return tui.ProductInput{
		Name:        strings.TrimSpace(name),
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(description),
	}
}
