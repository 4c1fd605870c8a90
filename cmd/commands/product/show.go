package product

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"pharmacertlabs/pharmacert/cmd/commands/cmdutil"
	"pharmacertlabs/pharmacert/internal/auditlog"

	"github.com/spf13/cobra"
)

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a product from the registry resource",
		Long: `Read the registry resource from the module account and show one product.

The resource type defaults to <module-address>::<module-name>::Registry and
can be changed with "pharmacert config set resource-type".

Example:
  pharmacert product show 42`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmdutil.OutputFlag(cmd)

	return cmd
}

// registryData is the part of the registry resource holding products.
type registryData struct {
	Products []map[string]any `json:"products"`
}

func runShow(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])

	a, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmdutil.Context(cmd)
	res, err := a.Chain().AccountResource(ctx, a.Config.ModuleAddress(), a.Config.ResourceType())
	if err != nil {
		return fmt.Errorf("failed to read registry: %w", err)
	}

	var data registryData
	if err := json.Unmarshal(res.Data, &data); err != nil {
		return fmt.Errorf("unexpected registry resource layout: %w", err)
	}
	product := findProduct(data.Products, id)
	if product == nil {
		return fmt.Errorf("product %q not found in %s", id, res.Type)
	}

	a.Audit.ProductViewed(ctx, a.Actor(), auditlog.Product{
		ID:       id,
		Name:     field(product, "name"),
		Category: field(product, "category"),
	})

	if output, _ := cmd.Flags().GetString("output"); output == "json" {
		return cmdutil.PrintJSON(cmd, product)
	}

	keys := make([]string, 0, len(product))
	for k := range product {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s:\t%v\n", k, product[k])
	}
	return w.Flush()
}

// findProduct matches id against each product's id field, which Move
// serializes as a string for u64 values.
func findProduct(products []map[string]any, id string) map[string]any {
	for _, p := range products {
		if field(p, "id") == id {
			return p
		}
	}
	return nil
}

func field(p map[string]any, key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
