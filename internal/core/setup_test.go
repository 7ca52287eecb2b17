package core_test

import (
	"context"
	"testing"

	"erp-core/internal/core"
	"erp-core/internal/store/sqlite"

	"github.com/stretchr/testify/require"
)

// env wires every service against one private in-memory database.
type env struct {
	store     core.Store
	accounts  core.AccountRegistry
	ledger    *core.Ledger
	reports   core.ReportingService
	catalog   core.CatalogService
	inventory core.InventoryService
	orders    core.OrderService
	purchases core.PurchaseOrderService
	invoices  core.InvoiceService
}

func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithStore(setupTestStore(t))
}

func newEnvWithStore(store core.Store) *env {
	inventory := core.NewInventoryService(store)
	return &env{
		store:     store,
		accounts:  core.NewAccountRegistry(store),
		ledger:    core.NewLedger(store),
		reports:   core.NewReportingService(store),
		catalog:   core.NewCatalogService(store),
		inventory: inventory,
		orders:    core.NewOrderService(store),
		purchases: core.NewPurchaseOrderService(store, inventory),
		invoices:  core.NewInvoiceService(store),
	}
}

func (e *env) account(t *testing.T, code, name string, typ core.AccountType) *core.Account {
	t.Helper()
	a, err := e.accounts.CreateAccount(context.Background(), code, name, typ, nil)
	require.NoError(t, err)
	return a
}

func (e *env) contact(t *testing.T, name string, typ core.ContactType) *core.Contact {
	t.Helper()
	c, err := e.catalog.CreateContact(context.Background(), core.ContactInput{Name: name, Type: typ})
	require.NoError(t, err)
	return c
}

func (e *env) product(t *testing.T, sku, price string) *core.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), core.ProductInput{
		SKU:          sku,
		Name:         "Product " + sku,
		UnitPrice:    dec(price),
		CostPrice:    dec(price).Div(dec("2")),
		ReorderLevel: dec("5"),
	})
	require.NoError(t, err)
	return p
}

// post creates and posts a two-line entry debiting dr and crediting cr.
func (e *env) post(t *testing.T, date string, dr, cr *core.Account, amount string) *core.JournalEntry {
	t.Helper()
	entry := e.entry(t, date, dr, cr, amount)
	posted, err := e.ledger.PostEntry(context.Background(), entry.ID)
	require.NoError(t, err)
	return posted
}

func (e *env) entry(t *testing.T, date string, dr, cr *core.Account, amount string) *core.JournalEntry {
	t.Helper()
	d, err := core.ParseDate(date)
	require.NoError(t, err)
	entry, err := e.ledger.CreateEntry(context.Background(), core.JournalEntryInput{
		EntryDate: d,
		Lines: []core.JournalLineInput{
			{AccountID: dr.ID, Debit: dec(amount)},
			{AccountID: cr.ID, Credit: dec(amount)},
		},
	})
	require.NoError(t, err)
	return entry
}

func (e *env) balance(t *testing.T, a *core.Account) string {
	t.Helper()
	got, err := e.accounts.GetAccount(context.Background(), a.ID)
	require.NoError(t, err)
	return got.Balance.StringFixed(2)
}

func (e *env) stock(t *testing.T, p *core.Product) string {
	t.Helper()
	got, err := e.catalog.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	return got.StockQty.String()
}

func line(p *core.Product, qty string) core.OrderLineInput {
	return core.OrderLineInput{ProductID: p.ID, Quantity: dec(qty)}
}
