package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a billing document. Lines and totals are copied from the originating
// order when the invoice is created and are never rewritten afterwards.
type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	SalesOrderID  *int64          `json:"sales_order_id,omitempty"`
	CustomerID    int64           `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Status        InvoiceStatus   `json:"status"`
	Totals
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
	Lines      []InvoiceLine   `json:"lines"`
}

// Balance is the amount still owed.
func (inv *Invoice) Balance() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid)
}

type InvoiceLine struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoice_id"`
	ProductID   int64           `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}
