package core

// ChartAccount is one row of the default chart of accounts.
type ChartAccount struct {
	Code string
	Name string
	Type AccountType
}

// DefaultChart is seeded into an empty ledger.
var DefaultChart = []ChartAccount{
	{"1000", "Cash", Asset},
	{"1100", "Accounts Receivable", Asset},
	{"1200", "Inventory", Asset},
	{"1300", "Prepaid Expenses", Asset},
	{"1500", "Fixed Assets", Asset},
	{"2000", "Accounts Payable", Liability},
	{"2100", "Accrued Liabilities", Liability},
	{"2200", "Tax Payable", Liability},
	{"2500", "Long-term Debt", Liability},
	{"3000", "Owner's Equity", Equity},
	{"3100", "Retained Earnings", Equity},
	{"4000", "Sales Revenue", Revenue},
	{"4100", "Service Revenue", Revenue},
	{"4200", "Other Income", Revenue},
	{"5000", "Cost of Goods Sold", Expense},
	{"5100", "Salaries & Wages", Expense},
	{"5200", "Rent Expense", Expense},
	{"5300", "Utilities Expense", Expense},
	{"5400", "Office Supplies", Expense},
	{"5500", "Depreciation", Expense},
	{"5600", "Marketing Expense", Expense},
	{"5900", "Other Expenses", Expense},
}
