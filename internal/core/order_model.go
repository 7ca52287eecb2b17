package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is a line of a sales or purchase order. LineTotal = Quantity × UnitPrice.
type OrderLine struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SalesOrder is a customer order header with its lines.
// Status progresses through the state machine in status.go:
//
//	draft → confirmed → invoiced
//	draft | confirmed | shipped → cancelled
type SalesOrder struct {
	ID           int64            `json:"id"`
	OrderNumber  string           `json:"order_number"`
	CustomerID   int64            `json:"customer_id"`
	CustomerName string           `json:"customer_name,omitempty"`
	OrderDate    time.Time        `json:"order_date"`
	Status       SalesOrderStatus `json:"status"`
	Totals
	Notes     string      `json:"notes"`
	CreatedAt time.Time   `json:"created_at"`
	Lines     []OrderLine `json:"lines"`
}

// OrderLineInput is a caller-supplied line. A nil UnitPrice takes the product's price.
type OrderLineInput struct {
	ProductID   int64
	Description string
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
}

// SalesOrderInput carries the editable fields of a sales order.
type SalesOrderInput struct {
	CustomerID int64
	OrderDate  time.Time // zero means today
	Notes      string
	Lines      []OrderLineInput
}
