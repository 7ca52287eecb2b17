package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// TrialBalanceRow places an account's balance in its debit or credit column.
// Exactly one column is non-zero.
type TrialBalanceRow struct {
	AccountID int64           `json:"account_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
}

// Balanced reports whether the column totals agree.
func (tb *TrialBalance) Balanced() bool {
	return tb.TotalDebit.Equal(tb.TotalCredit)
}

// AccountLine is a single account entry in a P&L or Balance Sheet report.
// Amount is expressed in the normal sign of its section:
//   - P&L Revenue:  positive = income earned
//   - P&L Expenses: positive = cost incurred
//   - BS Assets:    positive = net debit
//   - BS Liabilities/Equity: positive = net credit
type AccountLine struct {
	AccountID int64           `json:"account_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// PLReport is the Profit & Loss report over an optional inclusive date range.
type PLReport struct {
	From         *time.Time      `json:"from,omitempty"`
	To           *time.Time      `json:"to,omitempty"`
	Revenue      []AccountLine   `json:"revenue"`
	Expenses     []AccountLine   `json:"expenses"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetIncome    decimal.Decimal `json:"net_income"`
}

// BSReport is the Balance Sheet from current running balances. Assets =
// Liabilities + Equity holds only once income and expense are closed into equity,
// so it is not asserted here.
type BSReport struct {
	Assets           []AccountLine   `json:"assets"`
	Liabilities      []AccountLine   `json:"liabilities"`
	Equity           []AccountLine   `json:"equity"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
}

// Dashboard summarizes the state of the business.
type Dashboard struct {
	Contacts        int             `json:"contacts"`
	Products        int             `json:"products"`
	SalesOrders     int             `json:"sales_orders"`
	PurchaseOrders  int             `json:"purchase_orders"`
	PendingInvoices int             `json:"pending_invoices"`
	Revenue         decimal.Decimal `json:"revenue"`
	RecentSales     []SalesOrder    `json:"recent_sales"`
	RecentPurchases []PurchaseOrder `json:"recent_purchases"`
}

const dashboardRecent = 5

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService derives read-only reports from accounts and posted journal lines.
// It holds no state of its own.
type ReportingService interface {
	// TrialBalance lists every active account with a non-zero balance.
	TrialBalance(ctx context.Context) (*TrialBalance, error)

	// ProfitAndLoss re-aggregates posted journal lines of active revenue and expense
	// accounts whose entry date falls within [from, to]. Nil bounds are open.
	ProfitAndLoss(ctx context.Context, from, to *time.Time) (*PLReport, error)

	// BalanceSheet groups active asset, liability and equity accounts by running balance.
	BalanceSheet(ctx context.Context) (*BSReport, error)

	Dashboard(ctx context.Context) (*Dashboard, error)
}

type reportingService struct {
	store Store
}

func NewReportingService(store Store) ReportingService {
	return &reportingService{store: store}
}

func (s *reportingService) TrialBalance(ctx context.Context) (*TrialBalance, error) {
	var accounts []Account
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		accounts, err = tx.ListAccounts(ctx, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	tb := &TrialBalance{Rows: []TrialBalanceRow{}, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, a := range accounts {
		if a.Balance.IsZero() {
			continue
		}
		row := TrialBalanceRow{AccountID: a.ID, Code: a.Code, Name: a.Name, Type: a.Type,
			Debit: decimal.Zero, Credit: decimal.Zero}
		// A positive balance sits on the account's normal side; a negative one flips.
		onDebit := a.Type.DebitNormal() == a.Balance.IsPositive()
		if onDebit {
			row.Debit = a.Balance.Abs()
		} else {
			row.Credit = a.Balance.Abs()
		}
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}
	tb.TotalDebit = RoundMoney(tb.TotalDebit)
	tb.TotalCredit = RoundMoney(tb.TotalCredit)
	return tb, nil
}

func (s *reportingService) ProfitAndLoss(ctx context.Context, from, to *time.Time) (*PLReport, error) {
	var accounts []Account
	var activity []AccountActivity
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		if accounts, err = tx.ListAccounts(ctx, true); err != nil {
			return err
		}
		activity, err = tx.PostedActivity(ctx, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}

	byAccount := make(map[int64]AccountActivity, len(activity))
	for _, a := range activity {
		byAccount[a.AccountID] = a
	}

	report := &PLReport{
		From:         from,
		To:           to,
		Revenue:      []AccountLine{},
		Expenses:     []AccountLine{},
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, a := range accounts {
		act, ok := byAccount[a.ID]
		if !ok {
			continue
		}
		switch a.Type {
		case Revenue:
			amount := act.Credit.Sub(act.Debit)
			if amount.IsZero() {
				continue
			}
			report.Revenue = append(report.Revenue, AccountLine{AccountID: a.ID, Code: a.Code, Name: a.Name, Amount: amount})
			report.TotalRevenue = report.TotalRevenue.Add(amount)
		case Expense:
			amount := act.Debit.Sub(act.Credit)
			if amount.IsZero() {
				continue
			}
			report.Expenses = append(report.Expenses, AccountLine{AccountID: a.ID, Code: a.Code, Name: a.Name, Amount: amount})
			report.TotalExpense = report.TotalExpense.Add(amount)
		}
	}
	report.TotalRevenue = RoundMoney(report.TotalRevenue)
	report.TotalExpense = RoundMoney(report.TotalExpense)
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpense)
	return report, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context) (*BSReport, error) {
	var accounts []Account
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		accounts, err = tx.ListAccounts(ctx, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	bs := &BSReport{
		Assets:           []AccountLine{},
		Liabilities:      []AccountLine{},
		Equity:           []AccountLine{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, a := range accounts {
		line := AccountLine{AccountID: a.ID, Code: a.Code, Name: a.Name, Amount: a.Balance}
		switch a.Type {
		case Asset:
			bs.Assets = append(bs.Assets, line)
			bs.TotalAssets = bs.TotalAssets.Add(a.Balance)
		case Liability:
			bs.Liabilities = append(bs.Liabilities, line)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(a.Balance)
		case Equity:
			bs.Equity = append(bs.Equity, line)
			bs.TotalEquity = bs.TotalEquity.Add(a.Balance)
		}
	}
	bs.TotalAssets = RoundMoney(bs.TotalAssets)
	bs.TotalLiabilities = RoundMoney(bs.TotalLiabilities)
	bs.TotalEquity = RoundMoney(bs.TotalEquity)
	return bs, nil
}

func (s *reportingService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{Revenue: decimal.Zero}
	err := s.store.View(ctx, func(tx Tx) error {
		contacts, err := tx.ListContacts(ctx, false)
		if err != nil {
			return err
		}
		products, err := tx.ListProducts(ctx, false)
		if err != nil {
			return err
		}
		sales, err := tx.ListSalesOrders(ctx, "")
		if err != nil {
			return err
		}
		purchases, err := tx.ListPurchaseOrders(ctx, "")
		if err != nil {
			return err
		}
		invoices, err := tx.ListInvoices(ctx, "")
		if err != nil {
			return err
		}

		d.Contacts = len(contacts)
		d.Products = len(products)
		d.SalesOrders = len(sales)
		d.PurchaseOrders = len(purchases)
		for _, inv := range invoices {
			if inv.Status.Pending() {
				d.PendingInvoices++
			}
			if inv.Status == InvoicePaid {
				d.Revenue = d.Revenue.Add(inv.Total)
			}
		}
		d.RecentSales = sales[:min(len(sales), dashboardRecent)]
		d.RecentPurchases = purchases[:min(len(purchases), dashboardRecent)]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
