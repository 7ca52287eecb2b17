package app

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"erp-core/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// commands maps the name of every JSON-accepting command to its request type.
var commands = map[string]any{
	"account.create":  CreateAccountRequest{},
	"journal.create":  CreateJournalEntryRequest{},
	"report.pl":       ProfitAndLossRequest{},
	"contact.create":  CreateContactRequest{},
	"product.create":  CreateProductRequest{},
	"stock.move":      RecordMovementRequest{},
	"sales.create":    SalesOrderRequest{},
	"sales.update":    SalesOrderRequest{},
	"sales.invoice":   InvoiceOrderRequest{},
	"purchase.create": PurchaseOrderRequest{},
	"purchase.update": PurchaseOrderRequest{},
}

// CommandNames lists the commands that have a request schema, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func newReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				return &jsonschema.Schema{
					Type:        "string",
					Pattern:     `^-?[0-9]+(\.[0-9]+)?$`,
					Description: "decimal number",
				}
			}
			return nil
		},
	}
}

// Schema returns the JSON Schema of the request accepted by command.
func Schema(command string) ([]byte, error) {
	req, ok := commands[command]
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", core.ErrNotFound, command)
	}
	schema := newReflector().Reflect(req)
	schema.Title = command
	return json.MarshalIndent(schema, "", "  ")
}
