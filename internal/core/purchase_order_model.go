package core

import "time"

// PurchaseOrder is a supplier order header with its lines.
//
//	draft → confirmed → received
//	draft | confirmed → cancelled
type PurchaseOrder struct {
	ID           int64               `json:"id"`
	PONumber     string              `json:"po_number"`
	SupplierID   int64               `json:"supplier_id"`
	SupplierName string              `json:"supplier_name,omitempty"`
	OrderDate    time.Time           `json:"order_date"`
	ExpectedDate *time.Time          `json:"expected_date,omitempty"`
	Status       PurchaseOrderStatus `json:"status"`
	Totals
	Notes     string      `json:"notes"`
	CreatedAt time.Time   `json:"created_at"`
	Lines     []OrderLine `json:"lines"`
}

type PurchaseOrderInput struct {
	SupplierID   int64
	OrderDate    time.Time // zero means today
	ExpectedDate *time.Time
	Notes        string
	Lines        []OrderLineInput
}
