package app

import (
	"github.com/shopspring/decimal"
)

// Requests are the typed commands accepted by ApplicationService. Dates are
// YYYY-MM-DD strings; amounts and quantities are decimals, given in JSON as strings
// or numbers.

// CreateAccountRequest is the input for adding an account to the chart.
type CreateAccountRequest struct {
	Code       string `json:"code" validate:"required,max=20"`
	Name       string `json:"name" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=asset liability equity revenue expense"`
	ParentCode string `json:"parent_code,omitempty"`
}

// CreateJournalEntryRequest is the input for recording an unposted journal entry.
type CreateJournalEntryRequest struct {
	EntryDate   string             `json:"entry_date" validate:"required,datetime=2006-01-02"`
	Reference   string             `json:"reference,omitempty"`
	Description string             `json:"description,omitempty"`
	Lines       []JournalLineInput `json:"lines" validate:"required,min=1,dive"`
}

// JournalLineInput is a single line within a CreateJournalEntryRequest.
type JournalLineInput struct {
	AccountCode string          `json:"account_code" validate:"required"`
	Debit       decimal.Decimal `json:"debit,omitempty" validate:"gte=0"`
	Credit      decimal.Decimal `json:"credit,omitempty" validate:"gte=0"`
	Description string          `json:"description,omitempty"`
}

// ProfitAndLossRequest bounds the P&L by entry date. Empty bounds are open.
type ProfitAndLossRequest struct {
	From string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CreateContactRequest is the input for creating a customer or supplier.
type CreateContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type,omitempty" validate:"omitempty,oneof=customer supplier both"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// CreateProductRequest is the input for adding a product to the catalog.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0"`
	CostPrice    decimal.Decimal `json:"cost_price,omitempty" validate:"gte=0"`
	ReorderLevel decimal.Decimal `json:"reorder_level,omitempty" validate:"gte=0"`
	Unit         string          `json:"unit,omitempty"`
}

// RecordMovementRequest is the input for a manual stock movement. For adjustments,
// Quantity is the counted stock level.
type RecordMovementRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Type      string          `json:"type" validate:"required,oneof=in out adjustment"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// OrderLineRequest is a single line of a sales or purchase order. A missing
// unit price uses the product's price.
type OrderLineRequest struct {
	ProductID   int64            `json:"product_id" validate:"required,gt=0"`
	Description string           `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

// SalesOrderRequest is the input for creating or editing a draft sales order.
type SalesOrderRequest struct {
	CustomerID int64              `json:"customer_id" validate:"required,gt=0"`
	OrderDate  string             `json:"order_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes      string             `json:"notes,omitempty"`
	Lines      []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseOrderRequest is the input for creating or editing a draft purchase order.
type PurchaseOrderRequest struct {
	SupplierID   int64              `json:"supplier_id" validate:"required,gt=0"`
	OrderDate    string             `json:"order_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpectedDate string             `json:"expected_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes        string             `json:"notes,omitempty"`
	Lines        []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// InvoiceOrderRequest is the input for invoicing a sales order.
type InvoiceOrderRequest struct {
	OrderID int64  `json:"order_id" validate:"required,gt=0"`
	DueDate string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes   string `json:"notes,omitempty"`
}
