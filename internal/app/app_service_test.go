package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"erp-core/internal/app"
	"erp-core/internal/core"
	"erp-core/internal/logging"
	"erp-core/internal/store/sqlite"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (app.ApplicationService, *bytes.Buffer) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var logs bytes.Buffer
	return app.New(store, logging.New("info", "json", &logs)), &logs
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSeedChart_OnlyIntoEmptyLedger(t *testing.T) {
	svc, _ := setupApp(t)
	ctx := context.Background()

	res, err := svc.SeedChart(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(core.DefaultChart), res.Created)

	res, err = svc.SeedChart(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Created)

	accounts, err := svc.ListAccounts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, accounts, len(core.DefaultChart))
}

func TestJournal_ByAccountCode(t *testing.T) {
	svc, _ := setupApp(t)
	ctx := context.Background()
	_, err := svc.SeedChart(ctx)
	require.NoError(t, err)

	cash := core.DefaultChart[0].Code
	var revenue string
	for _, c := range core.DefaultChart {
		if c.Type == core.Revenue {
			revenue = c.Code
			break
		}
	}
	require.NotEmpty(t, revenue)

	entry, err := svc.CreateJournalEntry(ctx, app.CreateJournalEntryRequest{
		EntryDate:   "2024-03-01",
		Reference:   "CS-1",
		Description: "Cash sale",
		Lines: []app.JournalLineInput{
			{AccountCode: cash, Debit: dec("250.00")},
			{AccountCode: revenue, Credit: dec("250.00")},
		},
	})
	require.NoError(t, err)
	assert.False(t, entry.Posted)

	_, err = svc.PostJournalEntry(ctx, entry.ID)
	require.NoError(t, err)

	tb, err := svc.TrialBalance(ctx)
	require.NoError(t, err)
	assert.True(t, tb.Balanced())
	assert.True(t, tb.TotalDebit.Equal(dec("250")))

	pl, err := svc.ProfitAndLoss(ctx, app.ProfitAndLossRequest{From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)
	assert.True(t, pl.NetIncome.Equal(dec("250")))
}

func TestJournal_UnknownAccountCode(t *testing.T) {
	svc, _ := setupApp(t)

	_, err := svc.CreateJournalEntry(context.Background(), app.CreateJournalEntryRequest{
		EntryDate: "2024-03-01",
		Lines: []app.JournalLineInput{
			{AccountCode: "9999", Debit: dec("1")},
		},
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRequestValidation(t *testing.T) {
	svc, _ := setupApp(t)
	ctx := context.Background()
	negative := dec("-1")

	tests := []struct {
		name string
		call func() error
	}{
		{"order without lines", func() error {
			_, err := svc.CreateSalesOrder(ctx, app.SalesOrderRequest{CustomerID: 1})
			return err
		}},
		{"order line with zero quantity", func() error {
			_, err := svc.CreateSalesOrder(ctx, app.SalesOrderRequest{
				CustomerID: 1,
				Lines:      []app.OrderLineRequest{{ProductID: 1, Quantity: decimal.Zero}},
			})
			return err
		}},
		{"order line with negative price", func() error {
			_, err := svc.CreatePurchaseOrder(ctx, app.PurchaseOrderRequest{
				SupplierID: 1,
				Lines:      []app.OrderLineRequest{{ProductID: 1, Quantity: dec("1"), UnitPrice: &negative}},
			})
			return err
		}},
		{"malformed entry date", func() error {
			_, err := svc.CreateJournalEntry(ctx, app.CreateJournalEntryRequest{
				EntryDate: "01/03/2024",
				Lines:     []app.JournalLineInput{{AccountCode: "1000", Debit: dec("1")}},
			})
			return err
		}},
		{"unknown account type", func() error {
			_, err := svc.CreateAccount(ctx, app.CreateAccountRequest{Code: "1", Name: "X", Type: "income"})
			return err
		}},
		{"bad contact email", func() error {
			_, err := svc.CreateContact(ctx, app.CreateContactRequest{Name: "Acme", Email: "not-an-email"})
			return err
		}},
		{"unknown status filter", func() error {
			_, err := svc.ListInvoices(ctx, "settled")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}

func TestSalesFlow_InvoiceAndPay(t *testing.T) {
	svc, logs := setupApp(t)
	ctx := context.Background()

	customer, err := svc.CreateContact(ctx, app.CreateContactRequest{Name: "Acme Corp", Type: "customer"})
	require.NoError(t, err)
	product, err := svc.CreateProduct(ctx, app.CreateProductRequest{SKU: "LAP-01", Name: "Laptop", UnitPrice: dec("1299.99")})
	require.NoError(t, err)

	order, err := svc.CreateSalesOrder(ctx, app.SalesOrderRequest{
		CustomerID: customer.ID,
		Lines:      []app.OrderLineRequest{{ProductID: product.ID, Quantity: dec("10")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SO-0001", order.OrderNumber)
	assert.Equal(t, "12999.90", order.Subtotal.StringFixed(2))
	assert.Equal(t, "1299.99", order.TaxAmount.StringFixed(2))
	assert.Equal(t, "14299.89", order.Total.StringFixed(2))

	_, err = svc.ConfirmSalesOrder(ctx, order.ID)
	require.NoError(t, err)

	inv, err := svc.InvoiceSalesOrder(ctx, app.InvoiceOrderRequest{OrderID: order.ID, DueDate: "2030-01-31"})
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", inv.InvoiceNumber)
	assert.Equal(t, core.InvoiceDraft, inv.Status)
	require.NotNil(t, inv.DueDate)

	paid, err := svc.MarkInvoicePaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, core.InvoicePaid, paid.Status)
	assert.True(t, paid.AmountPaid.Equal(paid.Total))

	_, err = svc.MarkInvoicePaid(ctx, inv.ID)
	assert.ErrorIs(t, err, core.ErrAlreadyPaid)
	assert.Equal(t, "conflict", core.Class(err))

	_, err = svc.CancelSalesOrder(ctx, order.ID)
	var te *core.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "invoiced", te.From)

	// One outcome record per write, each with its own op_id. Created documents are
	// logged under the op_id of the write that produced them.
	opIDs := map[string]bool{}
	numbers := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		id, _ := rec["op_id"].(string)
		require.NotEmpty(t, id)
		switch rec["msg"] {
		case "operation completed", "operation failed":
			assert.False(t, opIDs[id], "op_id reused")
			opIDs[id] = true
		case "sales order created", "invoice created":
			numbers[rec["number"].(string)] = id
		}
	}
	assert.Len(t, opIDs, 8)
	require.Contains(t, numbers, "SO-0001")
	require.Contains(t, numbers, "INV-0001")
	assert.True(t, opIDs[numbers["SO-0001"]])
	assert.True(t, opIDs[numbers["INV-0001"]])
	assert.NotEqual(t, numbers["SO-0001"], numbers["INV-0001"])
}

func TestPurchaseFlow_ReceiveUpdatesStock(t *testing.T) {
	svc, _ := setupApp(t)
	ctx := context.Background()

	supplier, err := svc.CreateContact(ctx, app.CreateContactRequest{Name: "Parts Ltd", Type: "supplier"})
	require.NoError(t, err)
	product, err := svc.CreateProduct(ctx, app.CreateProductRequest{SKU: "W-1", Name: "Widget", UnitPrice: dec("5"), ReorderLevel: dec("25")})
	require.NoError(t, err)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)

	po, err := svc.CreatePurchaseOrder(ctx, app.PurchaseOrderRequest{
		SupplierID:   supplier.ID,
		ExpectedDate: "2030-02-01",
		Lines:        []app.OrderLineRequest{{ProductID: product.ID, Quantity: dec("30")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PO-0001", po.PONumber)

	_, err = svc.ConfirmPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	_, err = svc.ReceivePurchaseOrder(ctx, po.ID)
	require.NoError(t, err)

	res, err := svc.ListMovements(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, res.Product.StockQty.Equal(dec("30")))
	require.Len(t, res.Movements, 1)
	assert.Equal(t, "PO-0001", res.Movements[0].Reference)

	low, err = svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)

	_, err = svc.ReceivePurchaseOrder(ctx, po.ID)
	assert.ErrorIs(t, err, core.ErrState)
}

func TestSchema(t *testing.T) {
	raw, err := app.Schema("sales.create")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "customer_id")
	assert.Contains(t, props, "lines")

	_, err = app.Schema("nope")
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Contains(t, app.CommandNames(), "journal.create")
}
