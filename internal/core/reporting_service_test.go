package core_test

import (
	"context"
	"testing"
	"time"

	"erp-core/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type books struct {
	cash, payable, equity, sales, rent *core.Account
}

// seedBooks posts a small month of activity:
//
//	2024-01-01 cash 1000 / equity
//	2024-01-15 cash  500 / sales
//	2024-01-20 rent  200 / cash
//	2024-02-10 cash  300 / sales
//	2024-01-25 cash  999 / sales (unposted)
func seedBooks(t *testing.T, e *env) books {
	t.Helper()
	b := books{
		cash:    e.account(t, "1000", "Cash", core.Asset),
		payable: e.account(t, "2000", "Accounts Payable", core.Liability),
		equity:  e.account(t, "3000", "Owner's Equity", core.Equity),
		sales:   e.account(t, "4000", "Sales Revenue", core.Revenue),
		rent:    e.account(t, "5200", "Rent Expense", core.Expense),
	}
	e.post(t, "2024-01-01", b.cash, b.equity, "1000.00")
	e.post(t, "2024-01-15", b.cash, b.sales, "500.00")
	e.post(t, "2024-01-20", b.rent, b.cash, "200.00")
	e.post(t, "2024-02-10", b.cash, b.sales, "300.00")
	e.entry(t, "2024-01-25", b.cash, b.sales, "999.00")
	return b
}

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestReporting_TrialBalance(t *testing.T) {
	e := newEnv(t)
	seedBooks(t, e)

	tb, err := e.reports.TrialBalance(context.Background())
	require.NoError(t, err)
	assert.True(t, tb.Balanced())
	assertMoney(t, "1800.00", tb.TotalDebit)
	assertMoney(t, "1800.00", tb.TotalCredit)

	// Zero-balance accounts (payable) are omitted.
	require.Len(t, tb.Rows, 4)
	byCode := map[string]core.TrialBalanceRow{}
	for _, r := range tb.Rows {
		byCode[r.Code] = r
	}
	assertMoney(t, "1600.00", byCode["1000"].Debit)
	assert.True(t, byCode["1000"].Credit.IsZero())
	assertMoney(t, "1000.00", byCode["3000"].Credit)
	assertMoney(t, "800.00", byCode["4000"].Credit)
	assertMoney(t, "200.00", byCode["5200"].Debit)
	assert.NotContains(t, byCode, "2000")
}

func TestReporting_TrialBalanceNegativeBalanceFlipsColumn(t *testing.T) {
	e := newEnv(t)
	cash := e.account(t, "1000", "Cash", core.Asset)
	rent := e.account(t, "5200", "Rent Expense", core.Expense)
	e.post(t, "2024-01-01", rent, cash, "75.00")

	tb, err := e.reports.TrialBalance(context.Background())
	require.NoError(t, err)
	require.Len(t, tb.Rows, 2)
	for _, r := range tb.Rows {
		switch r.Code {
		case "1000":
			assert.True(t, r.Debit.IsZero())
			assertMoney(t, "75.00", r.Credit)
		case "5200":
			assertMoney(t, "75.00", r.Debit)
			assert.True(t, r.Credit.IsZero())
		}
	}
	assert.True(t, tb.Balanced())
}

func TestReporting_ProfitAndLoss(t *testing.T) {
	e := newEnv(t)
	seedBooks(t, e)
	ctx := context.Background()

	t.Run("all time", func(t *testing.T) {
		pl, err := e.reports.ProfitAndLoss(ctx, nil, nil)
		require.NoError(t, err)
		assertMoney(t, "800.00", pl.TotalRevenue)
		assertMoney(t, "200.00", pl.TotalExpense)
		assertMoney(t, "600.00", pl.NetIncome)
		require.Len(t, pl.Revenue, 1)
		assert.Equal(t, "4000", pl.Revenue[0].Code)
	})

	t.Run("january excludes unposted", func(t *testing.T) {
		pl, err := e.reports.ProfitAndLoss(ctx, date(t, "2024-01-01"), date(t, "2024-01-31"))
		require.NoError(t, err)
		assertMoney(t, "500.00", pl.TotalRevenue)
		assertMoney(t, "200.00", pl.TotalExpense)
		assertMoney(t, "300.00", pl.NetIncome)
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		pl, err := e.reports.ProfitAndLoss(ctx, date(t, "2024-01-15"), date(t, "2024-01-15"))
		require.NoError(t, err)
		assertMoney(t, "500.00", pl.TotalRevenue)
		assert.Empty(t, pl.Expenses)
	})

	t.Run("open start", func(t *testing.T) {
		pl, err := e.reports.ProfitAndLoss(ctx, nil, date(t, "2024-01-14"))
		require.NoError(t, err)
		assert.Empty(t, pl.Revenue)
		assert.True(t, pl.NetIncome.IsZero())
	})
}

func TestReporting_BalanceSheet(t *testing.T) {
	e := newEnv(t)
	seedBooks(t, e)

	bs, err := e.reports.BalanceSheet(context.Background())
	require.NoError(t, err)
	assertMoney(t, "1600.00", bs.TotalAssets)
	assertMoney(t, "0.00", bs.TotalLiabilities)
	assertMoney(t, "1000.00", bs.TotalEquity)
	// Zero balances are listed on the balance sheet.
	require.Len(t, bs.Liabilities, 1)
	assert.Equal(t, "2000", bs.Liabilities[0].Code)

	// Net income (600) has not been closed into equity.
	assert.False(t, bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity)))
}

func TestReporting_Dashboard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	customer := e.contact(t, "Acme", core.ContactCustomer)
	supplier := e.contact(t, "Parts Co", core.ContactSupplier)
	widget := e.product(t, "W-1", "100.00")

	for i := 0; i < 2; i++ {
		o, err := e.orders.CreateOrder(ctx, core.SalesOrderInput{CustomerID: customer.ID, Lines: []core.OrderLineInput{line(widget, "1")}})
		require.NoError(t, err)
		_, err = e.orders.ConfirmOrder(ctx, o.ID)
		require.NoError(t, err)
		inv, err := e.orders.CreateInvoice(ctx, o.ID, nil, "")
		require.NoError(t, err)
		if i == 0 {
			_, err = e.invoices.MarkPaid(ctx, inv.ID)
			require.NoError(t, err)
		}
	}
	_, err := e.purchases.CreatePurchaseOrder(ctx, core.PurchaseOrderInput{SupplierID: supplier.ID, Lines: []core.OrderLineInput{line(widget, "3")}})
	require.NoError(t, err)

	d, err := e.reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Contacts)
	assert.Equal(t, 1, d.Products)
	assert.Equal(t, 2, d.SalesOrders)
	assert.Equal(t, 1, d.PurchaseOrders)
	assert.Equal(t, 1, d.PendingInvoices)
	assertMoney(t, "110.00", d.Revenue)
	require.Len(t, d.RecentSales, 2)
	assert.Equal(t, "SO-0002", d.RecentSales[0].OrderNumber)
}
