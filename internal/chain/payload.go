// Package chain builds entry-function payloads for the product registry Move
// module and reads transactions and resources from an Aptos fullnode.
package chain

import (
	"fmt"

	"pharmacertlabs/pharmacert/internal/util"
)

// PayloadType is the payload kind understood by wallets for entry functions.
const PayloadType = "entry_function_payload"

// Registry function names.
const (
	FnAddProduct      = "add_product"
	FnGetProductEntry = "get_product_entry"
)

// Payload is an unsigned entry-function call, ready to hand to a wallet.
type Payload struct {
	Type          string   `json:"type"`
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []any    `json:"arguments"`
}

// Module identifies a published Move module.
type Module struct {
	Address string
	Name    string
}

// Validate checks that the module address and name are usable.
func (m Module) Validate() error {
	if err := util.ValidateAddress(m.Address); err != nil {
		return fmt.Errorf("chain: module %w", err)
	}
	if m.Name == "" {
		return fmt.Errorf("chain: module name is empty")
	}
	return nil
}

// Function returns the fully qualified name of fn in m.
func (m Module) Function(fn string) string {
	return fmt.Sprintf("%s::%s::%s", m.Address, m.Name, fn)
}

// Call builds a payload calling fn with args.
func (m Module) Call(fn string, args ...any) Payload {
	if args == nil {
		args = []any{}
	}
	return Payload{
		Type:          PayloadType,
		Function:      m.Function(fn),
		TypeArguments: []string{},
		Arguments:     args,
	}
}

// AddProduct builds the registry call that records a new product.
func (m Module) AddProduct(name, category, description string) Payload {
	return m.Call(FnAddProduct, name, category, description)
}

// GetProductEntry builds the registry call that emits a product entry.
func (m Module) GetProductEntry(id string) Payload {
	return m.Call(FnGetProductEntry, id)
}
