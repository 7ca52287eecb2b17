package app

import (
	"context"

	"erp-core/internal/core"
)

// ApplicationService is the single interface UI adapters call. It decouples
// presentation from business logic: implementations validate typed requests, log one
// record per write operation, and contain no display logic of any kind.
type ApplicationService interface {
	// ── Accounts ──────────────────────────────────────────────────────────────
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*core.Account, error)
	// GetAccount accepts an account code.
	GetAccount(ctx context.Context, code string) (*core.Account, error)
	ListAccounts(ctx context.Context, activeOnly bool) ([]core.Account, error)
	// SeedChart installs the default chart of accounts into an empty ledger.
	SeedChart(ctx context.Context) (*SeedResult, error)

	// ── Journal ───────────────────────────────────────────────────────────────
	// CreateJournalEntry stores an unposted entry. Lines reference accounts by code.
	CreateJournalEntry(ctx context.Context, req CreateJournalEntryRequest) (*core.JournalEntry, error)
	PostJournalEntry(ctx context.Context, entryID int64) (*core.JournalEntry, error)
	GetJournalEntry(ctx context.Context, entryID int64) (*core.JournalEntry, error)
	ListJournalEntries(ctx context.Context) ([]core.JournalEntrySummary, error)

	// ── Reports ───────────────────────────────────────────────────────────────
	TrialBalance(ctx context.Context) (*core.TrialBalance, error)
	ProfitAndLoss(ctx context.Context, req ProfitAndLossRequest) (*core.PLReport, error)
	BalanceSheet(ctx context.Context) (*core.BSReport, error)
	Dashboard(ctx context.Context) (*core.Dashboard, error)

	// ── Catalog ───────────────────────────────────────────────────────────────
	CreateContact(ctx context.Context, req CreateContactRequest) (*core.Contact, error)
	// ListContacts filters by contact type; "" lists every active contact.
	ListContacts(ctx context.Context, contactType string) ([]core.Contact, error)
	DeactivateContact(ctx context.Context, contactID int64) error
	CreateProduct(ctx context.Context, req CreateProductRequest) (*core.Product, error)
	GetProduct(ctx context.Context, productID int64) (*core.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]core.Product, error)
	DeactivateProduct(ctx context.Context, productID int64) error

	// ── Inventory ─────────────────────────────────────────────────────────────
	RecordMovement(ctx context.Context, req RecordMovementRequest) (*core.StockMovement, error)
	ListMovements(ctx context.Context, productID int64) (*MovementListResult, error)
	LowStock(ctx context.Context) ([]core.Product, error)

	// ── Sales orders ──────────────────────────────────────────────────────────
	CreateSalesOrder(ctx context.Context, req SalesOrderRequest) (*core.SalesOrder, error)
	UpdateSalesOrder(ctx context.Context, orderID int64, req SalesOrderRequest) (*core.SalesOrder, error)
	ConfirmSalesOrder(ctx context.Context, orderID int64) (*core.SalesOrder, error)
	CancelSalesOrder(ctx context.Context, orderID int64) (*core.SalesOrder, error)
	// InvoiceSalesOrder creates a draft invoice from a confirmed or shipped order.
	InvoiceSalesOrder(ctx context.Context, req InvoiceOrderRequest) (*core.Invoice, error)
	GetSalesOrder(ctx context.Context, orderID int64) (*core.SalesOrder, error)
	ListSalesOrders(ctx context.Context, status string) ([]core.SalesOrder, error)

	// ── Purchase orders ───────────────────────────────────────────────────────
	CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*core.PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, poID int64, req PurchaseOrderRequest) (*core.PurchaseOrder, error)
	ConfirmPurchaseOrder(ctx context.Context, poID int64) (*core.PurchaseOrder, error)
	// ReceivePurchaseOrder books every line into stock and marks the order received.
	ReceivePurchaseOrder(ctx context.Context, poID int64) (*core.PurchaseOrder, error)
	CancelPurchaseOrder(ctx context.Context, poID int64) (*core.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, poID int64) (*core.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, status string) ([]core.PurchaseOrder, error)

	// ── Invoices ──────────────────────────────────────────────────────────────
	GetInvoice(ctx context.Context, invoiceID int64) (*core.Invoice, error)
	ListInvoices(ctx context.Context, status string) ([]core.Invoice, error)
	MarkInvoicePaid(ctx context.Context, invoiceID int64) (*core.Invoice, error)
}
