package core_test

import (
	"context"
	"errors"
	"testing"

	"erp-core/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_FullSalesCycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := e.contact(t, "Acme", core.ContactCustomer)
	laptop := e.product(t, "LAP-01", "1299.99")

	order, err := e.orders.CreateOrder(ctx, core.SalesOrderInput{
		CustomerID: customer.ID,
		Notes:      "rush",
		Lines:      []core.OrderLineInput{line(laptop, "10")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SO-0001", order.OrderNumber)
	assert.Equal(t, core.SalesDraft, order.Status)
	assert.Equal(t, "Acme", order.CustomerName)
	assert.Equal(t, core.Today(), order.OrderDate)
	assertMoney(t, "12999.90", order.Subtotal)
	assertMoney(t, "1299.99", order.TaxAmount)
	assertMoney(t, "14299.89", order.Total)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "Product LAP-01", order.Lines[0].Description)

	order, err = e.orders.ConfirmOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, core.SalesConfirmed, order.Status)

	inv, err := e.orders.CreateInvoice(ctx, order.ID, date(t, "2024-12-31"), "")
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", inv.InvoiceNumber)
	assert.Equal(t, core.InvoiceDraft, inv.Status)
	require.NotNil(t, inv.SalesOrderID)
	assert.Equal(t, order.ID, *inv.SalesOrderID)
	assert.Equal(t, "rush", inv.Notes)
	assertMoney(t, "14299.89", inv.Total)
	assertMoney(t, "14299.89", inv.Balance())

	stored, err := e.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, core.SalesInvoiced, stored.Status)

	// Invoicing leaves stock untouched.
	assert.Equal(t, "0", e.stock(t, laptop))
}

func TestOrderService_InvoiceCopiesLines(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := e.contact(t, "Acme", core.ContactCustomer)
	widget := e.product(t, "WID-1", "10.00")
	washer := e.product(t, "WSH-1", "2.505")

	order, err := e.orders.CreateOrder(ctx, core.SalesOrderInput{
		CustomerID: customer.ID,
		Lines:      []core.OrderLineInput{line(widget, "3"), line(washer, "1")},
	})
	require.NoError(t, err)
	assertMoney(t, "32.50", order.Subtotal)
	assertMoney(t, "3.25", order.TaxAmount)
	assertMoney(t, "35.76", order.Total)

	_, err = e.orders.ConfirmOrder(ctx, order.ID)
	require.NoError(t, err)
	created, err := e.orders.CreateInvoice(ctx, order.ID, nil, "")
	require.NoError(t, err)

	assertInvoiceLines := func(t *testing.T) {
		t.Helper()
		inv, err := e.invoices.GetInvoice(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, inv.Lines, 2)

		want := []struct {
			product     *core.Product
			description string
			qty, price  string
			lineTotal   string
		}{
			{widget, "Product WID-1", "3", "10.00", "30.00"},
			{washer, "Product WSH-1", "1", "2.505", "2.505"},
		}
		for i, w := range want {
			got := inv.Lines[i]
			assert.Equal(t, created.ID, got.InvoiceID)
			assert.Equal(t, w.product.ID, got.ProductID)
			assert.Equal(t, w.description, got.Description)
			assertQty(t, w.qty, got.Quantity, "line %d quantity", i+1)
			assertQty(t, w.price, got.UnitPrice, "line %d unit price", i+1)
			assertQty(t, w.lineTotal, got.LineTotal, "line %d total", i+1)
		}
		assertMoney(t, "35.76", inv.Total)
	}
	assertInvoiceLines(t)

	// The order is frozen once invoiced, and so are the invoice lines.
	_, err = e.orders.UpdateOrder(ctx, order.ID, core.SalesOrderInput{
		CustomerID: customer.ID,
		Lines:      []core.OrderLineInput{line(widget, "99")},
	})
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	_, err = e.orders.CancelOrder(ctx, order.ID)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	stored, err := e.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	assertQty(t, "3", stored.Lines[0].Quantity)
	assertInvoiceLines(t)
}

func TestOrderService_NumbersAreSequential(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := e.contact(t, "Acme", core.ContactCustomer)
	p := e.product(t, "P-1", "1.00")

	var numbers []string
	for i := 0; i < 3; i++ {
		o, err := e.orders.CreateOrder(ctx, core.SalesOrderInput{CustomerID: customer.ID, Lines: []core.OrderLineInput{line(p, "1")}})
		require.NoError(t, err)
		numbers = append(numbers, o.OrderNumber)
	}
	assert.Equal(t, []string{"SO-0001", "SO-0002", "SO-0003"}, numbers)

	// Cancelled orders keep their number; the sequence never reuses one.
	_, err := e.orders.CancelOrder(ctx, 3)
	require.NoError(t, err)
	o, err := e.orders.CreateOrder(ctx, core.SalesOrderInput{CustomerID: customer.ID, Lines: []core.OrderLineInput{line(p, "1")}})
	require.NoError(t, err)
	assert.Equal(t, "SO-0004", o.OrderNumber)
}

func TestOrderService_ConcurrentCreatesGetDistinctNumbers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := e.contact(t, "Acme", core.ContactCustomer)
	p := e.product(t, "P-1", "1.00")

	const n = 10
	numbers := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			o, err := e.orders.CreateOrder(ctx, core.SalesOrderInput{CustomerID: customer.ID, Lines: []core.OrderLineInput{line(p, "1")}})
			if err != nil {
				errs <- err
				return
			}
			numbers <- o.OrderNumber
		}()
	}
	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		select {
		case err := <-errs:
			t.Fatalf("create order: %v", err)
		case num := <-numbers:
			assert.False(t, seen[num], "duplicate number %s", num)
			seen[num] = true
		}
	}
	assert.Len(t, seen, n)
}

func TestOrderService_UpdateDraft(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	acme := e.contact(t, "Acme", core.ContactCustomer)
	globex := e.contact(t, "Globex", core.ContactBoth)
	a := e.product(t, "A", "10.00")
	b := e.product(t, "B", "2.50")

	order, err := e.orders.CreateOrder(ctx, core.SalesOrderInput{CustomerID: acme.ID, Lines: []core.OrderLineInput{line(a, "1")}})
	require.NoError(t, err)

	discounted := dec("9.00")
	updated, err := e.orders.UpdateOrder(ctx, order.ID, core.SalesOrderInput{
		CustomerID: globex.ID,
		Lines: []core.OrderLineInput{
			{ProductID: a.ID, Quantity: dec("2"), UnitPrice: &discounted, Description: "Widget A"},
			line(b, "4"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "SO-0001", updated.OrderNumber)
	assert.Equal(t, "Globex", updated.CustomerName)

	stored, err := e.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	assert.Equal(t, "Widget A", stored.Lines[0].Description)
	assertMoney(t, "18.00", stored.Lines[0].LineTotal)
	assertMoney(t, "10.00", stored.Lines[1].LineTotal)
	assertMoney(t, "28.00", stored.Subtotal)
	assertMoney(t, "2.80", stored.TaxAmount)
	assertMoney(t, "30.80", stored.Total)
}

func TestOrderService_StateTransitionGuards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := e.contact(t, "Acme", core.ContactCustomer)
	p := e.product(t, "P-1", "5.00")
	in := core.SalesOrderInput{CustomerID: customer.ID, Lines: []core.OrderLineInput{line(p, "1")}}

	draft, err := e.orders.CreateOrder(ctx, in)
	require.NoError(t, err)

	// Draft orders cannot be invoiced.
	_, err = e.orders.CreateInvoice(ctx, draft.ID, nil, "")
	var te *core.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "draft", te.From)
	assert.Equal(t, core.EventInvoice, te.Event)
	assert.Equal(t, "SO-0001", te.Number)

	confirmed, err := e.orders.ConfirmOrder(ctx, draft.ID)
	require.NoError(t, err)

	_, err = e.orders.ConfirmOrder(ctx, confirmed.ID)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	_, err = e.orders.UpdateOrder(ctx, confirmed.ID, in)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	_, err = e.orders.CreateInvoice(ctx, confirmed.ID, nil, "")
	require.NoError(t, err)

	// Invoiced is terminal.
	_, err = e.orders.CancelOrder(ctx, confirmed.ID)
	assert.ErrorIs(t, err, core.ErrState)
	_, err = e.orders.CreateInvoice(ctx, confirmed.ID, nil, "")
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	invoices, err := e.invoices.GetInvoices(ctx, "")
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
}

func TestOrderService_CancelDraftOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := e.contact(t, "Acme", core.ContactCustomer)
	p := e.product(t, "P-1", "5.00")
	in := core.SalesOrderInput{CustomerID: customer.ID, Lines: []core.OrderLineInput{line(p, "1")}}

	order, err := e.orders.CreateOrder(ctx, in)
	require.NoError(t, err)
	order, err = e.orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, core.SalesCancelled, order.Status)

	_, err = e.orders.UpdateOrder(ctx, order.ID, in)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	_, err = e.orders.ConfirmOrder(ctx, order.ID)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	_, err = e.orders.CancelOrder(ctx, order.ID)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	cancelled, err := e.orders.GetOrders(ctx, core.SalesCancelled)
	require.NoError(t, err)
	assert.Len(t, cancelled, 1)
	drafts, err := e.orders.GetOrders(ctx, core.SalesDraft)
	require.NoError(t, err)
	assert.Empty(t, drafts)

	_, err = e.orders.GetOrders(ctx, "lost")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestOrderService_CreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := e.contact(t, "Acme", core.ContactCustomer)
	supplier := e.contact(t, "Parts Co", core.ContactSupplier)
	retired := e.contact(t, "Gone Inc", core.ContactCustomer)
	require.NoError(t, e.catalog.DeactivateContact(ctx, retired.ID))
	p := e.product(t, "P-1", "5.00")
	negative := dec("-1")

	tests := []struct {
		name string
		in   core.SalesOrderInput
		want error
	}{
		{"no customer", core.SalesOrderInput{Lines: []core.OrderLineInput{line(p, "1")}}, core.ErrMissingField},
		{"supplier as customer", core.SalesOrderInput{CustomerID: supplier.ID}, core.ErrValidation},
		{"inactive customer", core.SalesOrderInput{CustomerID: retired.ID}, core.ErrValidation},
		{"unknown customer", core.SalesOrderInput{CustomerID: 999}, core.ErrNotFound},
		{"zero quantity", core.SalesOrderInput{CustomerID: customer.ID, Lines: []core.OrderLineInput{line(p, "0")}}, core.ErrInvalidQuantity},
		{"negative price", core.SalesOrderInput{CustomerID: customer.ID, Lines: []core.OrderLineInput{{ProductID: p.ID, Quantity: dec("1"), UnitPrice: &negative}}}, core.ErrInvalidAmount},
		{"unknown product", core.SalesOrderInput{CustomerID: customer.ID, Lines: []core.OrderLineInput{{ProductID: 999, Quantity: dec("1")}}}, core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.orders.CreateOrder(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	orders, err := e.orders.GetOrders(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_EmptyOrderHasZeroTotals(t *testing.T) {
	e := newEnv(t)
	customer := e.contact(t, "Acme", core.ContactCustomer)

	order, err := e.orders.CreateOrder(context.Background(), core.SalesOrderInput{CustomerID: customer.ID})
	require.NoError(t, err)
	assert.Empty(t, order.Lines)
	assert.True(t, order.Total.IsZero())
}

func TestInvoiceService_MarkPaid(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	customer := e.contact(t, "Acme", core.ContactCustomer)
	p := e.product(t, "P-1", "19.99")

	order, err := e.orders.CreateOrder(ctx, core.SalesOrderInput{CustomerID: customer.ID, Lines: []core.OrderLineInput{line(p, "3")}})
	require.NoError(t, err)
	_, err = e.orders.ConfirmOrder(ctx, order.ID)
	require.NoError(t, err)
	inv, err := e.orders.CreateInvoice(ctx, order.ID, nil, "net 30")
	require.NoError(t, err)
	assert.Equal(t, "net 30", inv.Notes)
	assert.True(t, inv.AmountPaid.IsZero())

	paid, err := e.invoices.MarkPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, core.InvoicePaid, paid.Status)
	assertMoney(t, "65.97", paid.AmountPaid)
	assert.True(t, paid.Balance().IsZero())

	_, err = e.invoices.MarkPaid(ctx, inv.ID)
	assert.ErrorIs(t, err, core.ErrAlreadyPaid)
	assert.Equal(t, "conflict", core.Class(err))

	stored, err := e.invoices.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, core.InvoicePaid, stored.Status)
	require.Len(t, stored.Lines, 1)
	assertMoney(t, "59.97", stored.Lines[0].LineTotal)
	assertMoney(t, "65.97", stored.Total)

	paidList, err := e.invoices.GetInvoices(ctx, core.InvoicePaid)
	require.NoError(t, err)
	assert.Len(t, paidList, 1)

	_, err = e.invoices.MarkPaid(ctx, 999)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = e.invoices.GetInvoices(ctx, "void")
	assert.ErrorIs(t, err, core.ErrValidation)
}
