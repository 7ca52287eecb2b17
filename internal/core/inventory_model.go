package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContactType string

const (
	ContactCustomer ContactType = "customer"
	ContactSupplier ContactType = "supplier"
	ContactBoth     ContactType = "both"
)

func (t ContactType) Valid() bool {
	return t == ContactCustomer || t == ContactSupplier || t == ContactBoth
}

// IsCustomer reports whether the contact may be the counterparty of a sales order.
func (t ContactType) IsCustomer() bool { return t == ContactCustomer || t == ContactBoth }

// IsSupplier reports whether the contact may be the counterparty of a purchase order.
func (t ContactType) IsSupplier() bool { return t == ContactSupplier || t == ContactBoth }

// Contact is a customer or supplier record from the contact directory.
type Contact struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Type      ContactType `json:"type"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// Product is a catalog item. StockQty changes only through the inventory ledger.
type Product struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	StockQty     decimal.Decimal `json:"stock_qty"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Unit         string          `json:"unit"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

// BelowReorderLevel reports whether stock has fallen to or under the reorder level.
func (p *Product) BelowReorderLevel() bool {
	return p.StockQty.LessThanOrEqual(p.ReorderLevel)
}

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut || t == MovementAdjustment
}

// StockMovement is an immutable record of one change to a product's stock.
// For adjustments Quantity is the signed difference between target and prior stock.
type StockMovement struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Type      MovementType    `json:"movement_type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
}
