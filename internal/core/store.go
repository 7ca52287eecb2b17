package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Store opens units of work against the relational store.
//
// WithinTx runs fn in a read-write transaction, committing when fn returns nil and
// rolling back on any error or panic. Rows read through a write transaction are locked
// until it ends, so two writers never interleave on the same aggregate.
//
// View runs fn in a read-only transaction that sees one consistent snapshot.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the persistence port of the core. Lookups of missing rows return an error
// wrapping ErrNotFound. Empty listings are not errors.
type Tx interface {
	AccountStore
	JournalStore
	CatalogStore
	OrderStore
	InvoiceStore

	// LatestNumber returns the number of the most recently created document of kind,
	// or "" when none exist. In a write transaction it also serializes callers per kind
	// until the transaction ends.
	LatestNumber(ctx context.Context, kind SequenceKind) (string, error)
}

type AccountStore interface {
	// InsertAccount stores a and sets its ID and CreatedAt. Returns ErrDuplicateCode.
	InsertAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id int64) (*Account, error)
	GetAccountByCode(ctx context.Context, code string) (*Account, error)
	// ListAccounts returns accounts ordered by code.
	ListAccounts(ctx context.Context, activeOnly bool) ([]Account, error)
}

type JournalStore interface {
	// InsertJournalEntry stores the header and lines of e, setting their IDs.
	InsertJournalEntry(ctx context.Context, e *JournalEntry) error
	// GetJournalEntry returns the entry with its lines in insertion order.
	GetJournalEntry(ctx context.Context, id int64) (*JournalEntry, error)
	// ListJournalEntries returns entries newest first.
	ListJournalEntries(ctx context.Context) ([]JournalEntrySummary, error)
	// ApplyPosting adds every delta to its account balance and marks the entry posted.
	// It is the only operation in the port that writes account balances.
	ApplyPosting(ctx context.Context, entryID int64, deltas []BalanceDelta) error
	// PostedActivity sums debits and credits of posted entries per account, for entry
	// dates within the inclusive bounds. A nil bound is open.
	PostedActivity(ctx context.Context, from, to *time.Time) ([]AccountActivity, error)
}

type CatalogStore interface {
	InsertContact(ctx context.Context, c *Contact) error
	GetContact(ctx context.Context, id int64) (*Contact, error)
	// ListContacts returns contacts ordered by name.
	ListContacts(ctx context.Context, activeOnly bool) ([]Contact, error)
	SetContactActive(ctx context.Context, id int64, active bool) error

	// InsertProduct returns ErrDuplicateSKU when the sku is taken.
	InsertProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id int64) (*Product, error)
	// ListProducts returns products ordered by name.
	ListProducts(ctx context.Context, activeOnly bool) ([]Product, error)
	SetProductActive(ctx context.Context, id int64, active bool) error
	SetProductStock(ctx context.Context, id int64, qty decimal.Decimal) error
	InsertStockMovement(ctx context.Context, m *StockMovement) error
	// ListStockMovements returns a product's movements newest first.
	ListStockMovements(ctx context.Context, productID int64) ([]StockMovement, error)
}

type OrderStore interface {
	// InsertSalesOrder stores header and lines. Returns ErrNumberTaken on a number collision.
	InsertSalesOrder(ctx context.Context, o *SalesOrder) error
	GetSalesOrder(ctx context.Context, id int64) (*SalesOrder, error)
	// ListSalesOrders returns orders newest first; an empty status lists all.
	ListSalesOrders(ctx context.Context, status SalesOrderStatus) ([]SalesOrder, error)
	// UpdateSalesOrder rewrites header fields and totals and replaces all lines.
	UpdateSalesOrder(ctx context.Context, o *SalesOrder) error
	SetSalesOrderStatus(ctx context.Context, id int64, status SalesOrderStatus) error

	InsertPurchaseOrder(ctx context.Context, o *PurchaseOrder) error
	GetPurchaseOrder(ctx context.Context, id int64) (*PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, status PurchaseOrderStatus) ([]PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, o *PurchaseOrder) error
	SetPurchaseOrderStatus(ctx context.Context, id int64, status PurchaseOrderStatus) error
}

type InvoiceStore interface {
	// InsertInvoice stores header and lines. Returns ErrNumberTaken on a number collision.
	InsertInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	ListInvoices(ctx context.Context, status InvoiceStatus) ([]Invoice, error)
	SetInvoicePayment(ctx context.Context, id int64, status InvoiceStatus, amountPaid decimal.Decimal) error
}
