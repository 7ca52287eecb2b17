package cli

import (
	"fmt"
	"io"
	"strings"

	"erp-core/internal/app"
	"erp-core/internal/core"
)

const width = 72

func rule(w io.Writer, ch string) {
	fmt.Fprintln(w, strings.Repeat(ch, width))
}

func header(w io.Writer, title string) {
	fmt.Fprintln(w)
	rule(w, "=")
	fmt.Fprintf(w, "  %s\n", title)
	rule(w, "=")
}

func empty(w io.Writer, what string) {
	fmt.Fprintf(w, "  No %s found.\n", what)
	rule(w, "=")
}

func date(t interface{ Format(string) string }) string {
	return t.Format(core.DateLayout)
}

// ── Accounts and journal ─────────────────────────────────────────────────────

func printAccounts(w io.Writer, accounts []core.Account) {
	header(w, "CHART OF ACCOUNTS")
	if len(accounts) == 0 {
		empty(w, "accounts")
		return
	}
	fmt.Fprintf(w, "  %-8s %-32s %-10s %15s\n", "CODE", "NAME", "TYPE", "BALANCE")
	rule(w, "-")
	for _, a := range accounts {
		name := a.Name
		if !a.IsActive {
			name += " (inactive)"
		}
		fmt.Fprintf(w, "  %-8s %-32s %-10s %15s\n", a.Code, name, a.Type, a.Balance.StringFixed(2))
	}
	rule(w, "=")
}

func printAccount(w io.Writer, a *core.Account) {
	fmt.Fprintf(w, "Account %s  %s\n", a.Code, a.Name)
	fmt.Fprintf(w, "  Type    : %s\n", a.Type)
	fmt.Fprintf(w, "  Balance : %s\n", a.Balance.StringFixed(2))
	fmt.Fprintf(w, "  Active  : %t\n", a.IsActive)
}

func printJournalEntry(w io.Writer, e *core.JournalEntry) {
	status := "UNPOSTED"
	if e.Posted {
		status = "POSTED"
	}
	header(w, fmt.Sprintf("JOURNAL ENTRY %d  [%s]", e.ID, status))
	fmt.Fprintf(w, "  Date        : %s\n", date(e.EntryDate))
	fmt.Fprintf(w, "  Reference   : %s\n", e.Reference)
	fmt.Fprintf(w, "  Description : %s\n", e.Description)
	rule(w, "-")
	fmt.Fprintf(w, "  %-8s %-30s %14s %14s\n", "ACCOUNT", "NAME", "DEBIT", "CREDIT")
	rule(w, "-")
	for _, l := range e.Lines {
		fmt.Fprintf(w, "  %-8s %-30s %14s %14s\n", l.AccountCode, l.AccountName,
			l.Debit.StringFixed(2), l.Credit.StringFixed(2))
	}
	rule(w, "-")
	fmt.Fprintf(w, "  %-39s %14s %14s\n", "TOTAL", e.TotalDebit().StringFixed(2), e.TotalCredit().StringFixed(2))
	rule(w, "=")
}

func printJournalEntries(w io.Writer, entries []core.JournalEntrySummary) {
	header(w, "JOURNAL")
	if len(entries) == 0 {
		empty(w, "journal entries")
		return
	}
	fmt.Fprintf(w, "  %-6s %-10s %-12s %-8s %14s %14s\n", "ID", "DATE", "REFERENCE", "STATUS", "DEBIT", "CREDIT")
	rule(w, "-")
	for _, e := range entries {
		status := "draft"
		if e.Posted {
			status = "posted"
		}
		fmt.Fprintf(w, "  %-6d %-10s %-12s %-8s %14s %14s\n", e.ID, date(e.EntryDate), e.Reference, status,
			e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2))
	}
	rule(w, "=")
}

// ── Reports ──────────────────────────────────────────────────────────────────

func printTrialBalance(w io.Writer, tb *core.TrialBalance) {
	header(w, "TRIAL BALANCE")
	fmt.Fprintf(w, "  %-8s %-30s %14s %14s\n", "CODE", "NAME", "DEBIT", "CREDIT")
	rule(w, "-")
	for _, row := range tb.Rows {
		debit, credit := "", ""
		if !row.Debit.IsZero() {
			debit = row.Debit.StringFixed(2)
		}
		if !row.Credit.IsZero() {
			credit = row.Credit.StringFixed(2)
		}
		fmt.Fprintf(w, "  %-8s %-30s %14s %14s\n", row.Code, row.Name, debit, credit)
	}
	rule(w, "-")
	fmt.Fprintf(w, "  %-39s %14s %14s\n", "TOTAL", tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2))
	if !tb.Balanced() {
		fmt.Fprintln(w, "  WARNING: trial balance does not balance")
	}
	rule(w, "=")
}

func printSection(w io.Writer, title string, lines []core.AccountLine, total string) {
	fmt.Fprintf(w, "  %s\n", title)
	for _, l := range lines {
		fmt.Fprintf(w, "    %-8s %-40s %15s\n", l.Code, l.Name, l.Amount.StringFixed(2))
	}
	fmt.Fprintf(w, "    %-49s %15s\n", "Total "+strings.ToLower(title), total)
	rule(w, "-")
}

func printProfitAndLoss(w io.Writer, pl *core.PLReport) {
	period := "all dates"
	switch {
	case pl.From != nil && pl.To != nil:
		period = date(*pl.From) + " to " + date(*pl.To)
	case pl.From != nil:
		period = "from " + date(*pl.From)
	case pl.To != nil:
		period = "up to " + date(*pl.To)
	}
	header(w, "PROFIT AND LOSS  ("+period+")")
	printSection(w, "REVENUE", pl.Revenue, pl.TotalRevenue.StringFixed(2))
	printSection(w, "EXPENSES", pl.Expenses, pl.TotalExpense.StringFixed(2))
	fmt.Fprintf(w, "  %-51s %15s\n", "NET INCOME", pl.NetIncome.StringFixed(2))
	rule(w, "=")
}

func printBalanceSheet(w io.Writer, bs *core.BSReport) {
	header(w, "BALANCE SHEET")
	printSection(w, "ASSETS", bs.Assets, bs.TotalAssets.StringFixed(2))
	printSection(w, "LIABILITIES", bs.Liabilities, bs.TotalLiabilities.StringFixed(2))
	printSection(w, "EQUITY", bs.Equity, bs.TotalEquity.StringFixed(2))
	fmt.Fprintf(w, "  %-51s %15s\n", "LIABILITIES + EQUITY", bs.TotalLiabilities.Add(bs.TotalEquity).StringFixed(2))
	rule(w, "=")
}

func printDashboard(w io.Writer, d *core.Dashboard) {
	header(w, "DASHBOARD")
	fmt.Fprintf(w, "  Contacts         : %d\n", d.Contacts)
	fmt.Fprintf(w, "  Products         : %d\n", d.Products)
	fmt.Fprintf(w, "  Sales orders     : %d\n", d.SalesOrders)
	fmt.Fprintf(w, "  Purchase orders  : %d\n", d.PurchaseOrders)
	fmt.Fprintf(w, "  Pending invoices : %d\n", d.PendingInvoices)
	fmt.Fprintf(w, "  Revenue          : %s\n", d.Revenue.StringFixed(2))
	if len(d.RecentSales) > 0 {
		rule(w, "-")
		fmt.Fprintln(w, "  RECENT SALES")
		for _, o := range d.RecentSales {
			fmt.Fprintf(w, "    %-10s %-30s %-10s %14s\n", o.OrderNumber, o.CustomerName, o.Status, o.Total.StringFixed(2))
		}
	}
	if len(d.RecentPurchases) > 0 {
		rule(w, "-")
		fmt.Fprintln(w, "  RECENT PURCHASES")
		for _, o := range d.RecentPurchases {
			fmt.Fprintf(w, "    %-10s %-30s %-10s %14s\n", o.PONumber, o.SupplierName, o.Status, o.Total.StringFixed(2))
		}
	}
	rule(w, "=")
}

// ── Catalog and stock ────────────────────────────────────────────────────────

func printContacts(w io.Writer, contacts []core.Contact) {
	header(w, "CONTACTS")
	if len(contacts) == 0 {
		empty(w, "contacts")
		return
	}
	fmt.Fprintf(w, "  %-6s %-28s %-9s %s\n", "ID", "NAME", "TYPE", "EMAIL")
	rule(w, "-")
	for _, c := range contacts {
		fmt.Fprintf(w, "  %-6d %-28s %-9s %s\n", c.ID, c.Name, c.Type, c.Email)
	}
	rule(w, "=")
}

func printProducts(w io.Writer, title string, products []core.Product) {
	header(w, title)
	if len(products) == 0 {
		empty(w, "products")
		return
	}
	fmt.Fprintf(w, "  %-5s %-10s %-24s %-6s %11s %10s\n", "ID", "SKU", "NAME", "UNIT", "PRICE", "STOCK")
	rule(w, "-")
	for _, p := range products {
		flag := ""
		if p.BelowReorderLevel() {
			flag = " !"
		}
		fmt.Fprintf(w, "  %-5d %-10s %-24s %-6s %11s %10s%s\n", p.ID, p.SKU, p.Name, p.Unit,
			p.UnitPrice.StringFixed(2), p.StockQty.String(), flag)
	}
	rule(w, "=")
}

func printProduct(w io.Writer, p *core.Product) {
	fmt.Fprintf(w, "Product %d  %s  %s\n", p.ID, p.SKU, p.Name)
	fmt.Fprintf(w, "  Price   : %s (cost %s)\n", p.UnitPrice.StringFixed(2), p.CostPrice.StringFixed(2))
	fmt.Fprintf(w, "  Stock   : %s %s (reorder at %s)\n", p.StockQty.String(), p.Unit, p.ReorderLevel.String())
	fmt.Fprintf(w, "  Active  : %t\n", p.IsActive)
}

func printMovements(w io.Writer, res *app.MovementListResult) {
	header(w, fmt.Sprintf("STOCK MOVEMENTS  %s %s  (on hand %s)", res.Product.SKU, res.Product.Name, res.Product.StockQty.String()))
	if len(res.Movements) == 0 {
		empty(w, "movements")
		return
	}
	fmt.Fprintf(w, "  %-6s %-20s %-11s %10s  %s\n", "ID", "WHEN", "TYPE", "QTY", "REFERENCE")
	rule(w, "-")
	for _, m := range res.Movements {
		fmt.Fprintf(w, "  %-6d %-20s %-11s %10s  %s\n", m.ID, m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.Type, m.Quantity.String(), m.Reference)
	}
	rule(w, "=")
}

// ── Orders and invoices ──────────────────────────────────────────────────────

func printOrderLines(w io.Writer, lines []core.OrderLine) {
	fmt.Fprintf(w, "  %-10s %-28s %8s %10s %11s\n", "SKU", "DESCRIPTION", "QTY", "PRICE", "TOTAL")
	rule(w, "-")
	for _, l := range lines {
		fmt.Fprintf(w, "  %-10s %-28s %8s %10s %11s\n", l.ProductSKU, l.Description,
			l.Quantity.String(), l.UnitPrice.StringFixed(2), l.LineTotal.StringFixed(2))
	}
	rule(w, "-")
}

func printTotals(w io.Writer, t core.Totals) {
	fmt.Fprintf(w, "  %-58s %11s\n", "Subtotal", t.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "  %-58s %11s\n", "Tax", t.TaxAmount.StringFixed(2))
	fmt.Fprintf(w, "  %-58s %11s\n", "TOTAL", t.Total.StringFixed(2))
}

func printSalesOrder(w io.Writer, o *core.SalesOrder) {
	header(w, fmt.Sprintf("SALES ORDER %s  [%s]", o.OrderNumber, strings.ToUpper(string(o.Status))))
	fmt.Fprintf(w, "  Customer : %s\n", o.CustomerName)
	fmt.Fprintf(w, "  Date     : %s\n", date(o.OrderDate))
	if o.Notes != "" {
		fmt.Fprintf(w, "  Notes    : %s\n", o.Notes)
	}
	rule(w, "-")
	printOrderLines(w, o.Lines)
	printTotals(w, o.Totals)
	rule(w, "=")
}

func printSalesOrders(w io.Writer, orders []core.SalesOrder) {
	header(w, "SALES ORDERS")
	if len(orders) == 0 {
		empty(w, "sales orders")
		return
	}
	fmt.Fprintf(w, "  %-5s %-10s %-10s %-26s %-10s %12s\n", "ID", "NUMBER", "DATE", "CUSTOMER", "STATUS", "TOTAL")
	rule(w, "-")
	for _, o := range orders {
		fmt.Fprintf(w, "  %-5d %-10s %-10s %-26s %-10s %12s\n", o.ID, o.OrderNumber, date(o.OrderDate),
			o.CustomerName, o.Status, o.Total.StringFixed(2))
	}
	rule(w, "=")
}

func printPurchaseOrder(w io.Writer, o *core.PurchaseOrder) {
	header(w, fmt.Sprintf("PURCHASE ORDER %s  [%s]", o.PONumber, strings.ToUpper(string(o.Status))))
	fmt.Fprintf(w, "  Supplier : %s\n", o.SupplierName)
	fmt.Fprintf(w, "  Date     : %s\n", date(o.OrderDate))
	if o.ExpectedDate != nil {
		fmt.Fprintf(w, "  Expected : %s\n", date(*o.ExpectedDate))
	}
	rule(w, "-")
	printOrderLines(w, o.Lines)
	printTotals(w, o.Totals)
	rule(w, "=")
}

func printPurchaseOrders(w io.Writer, orders []core.PurchaseOrder) {
	header(w, "PURCHASE ORDERS")
	if len(orders) == 0 {
		empty(w, "purchase orders")
		return
	}
	fmt.Fprintf(w, "  %-5s %-10s %-10s %-26s %-10s %12s\n", "ID", "NUMBER", "DATE", "SUPPLIER", "STATUS", "TOTAL")
	rule(w, "-")
	for _, o := range orders {
		fmt.Fprintf(w, "  %-5d %-10s %-10s %-26s %-10s %12s\n", o.ID, o.PONumber, date(o.OrderDate),
			o.SupplierName, o.Status, o.Total.StringFixed(2))
	}
	rule(w, "=")
}

func printInvoice(w io.Writer, inv *core.Invoice) {
	header(w, fmt.Sprintf("INVOICE %s  [%s]", inv.InvoiceNumber, strings.ToUpper(string(inv.Status))))
	fmt.Fprintf(w, "  Customer : %s\n", inv.CustomerName)
	fmt.Fprintf(w, "  Date     : %s\n", date(inv.InvoiceDate))
	if inv.DueDate != nil {
		fmt.Fprintf(w, "  Due      : %s\n", date(*inv.DueDate))
	}
	rule(w, "-")
	fmt.Fprintf(w, "  %-39s %8s %10s %11s\n", "DESCRIPTION", "QTY", "PRICE", "TOTAL")
	rule(w, "-")
	for _, l := range inv.Lines {
		fmt.Fprintf(w, "  %-39s %8s %10s %11s\n", l.Description, l.Quantity.String(),
			l.UnitPrice.StringFixed(2), l.LineTotal.StringFixed(2))
	}
	rule(w, "-")
	printTotals(w, inv.Totals)
	fmt.Fprintf(w, "  %-58s %11s\n", "Paid", inv.AmountPaid.StringFixed(2))
	fmt.Fprintf(w, "  %-58s %11s\n", "Balance due", inv.Balance().StringFixed(2))
	rule(w, "=")
}

func printInvoices(w io.Writer, invoices []core.Invoice) {
	header(w, "INVOICES")
	if len(invoices) == 0 {
		empty(w, "invoices")
		return
	}
	fmt.Fprintf(w, "  %-5s %-10s %-10s %-24s %-9s %12s\n", "ID", "NUMBER", "DATE", "CUSTOMER", "STATUS", "BALANCE")
	rule(w, "-")
	for _, inv := range invoices {
		fmt.Fprintf(w, "  %-5d %-10s %-10s %-24s %-9s %12s\n", inv.ID, inv.InvoiceNumber, date(inv.InvoiceDate),
			inv.CustomerName, inv.Status, inv.Balance().StringFixed(2))
	}
	rule(w, "=")
}
