package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of business dates.
const DateLayout = "2006-01-02"

type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// AccountTypes lists the closed set of account types in chart order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// DebitNormal reports whether a positive balance of this type sits in the debit column.
func (t AccountType) DebitNormal() bool {
	return t == Asset || t == Expense
}

// BalanceDelta returns the change a debit/credit pair makes to an account of this type.
func (t AccountType) BalanceDelta(debit, credit decimal.Decimal) decimal.Decimal {
	if t.DebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// Account is a ledger account. Balance is maintained exclusively by posting.
type Account struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	ParentID  *int64          `json:"parent_id,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

type JournalEntry struct {
	ID          int64         `json:"id"`
	EntryDate   time.Time     `json:"entry_date"`
	Reference   string        `json:"reference"`
	Description string        `json:"description"`
	Posted      bool          `json:"posted"`
	CreatedAt   time.Time     `json:"created_at"`
	Lines       []JournalLine `json:"lines"`
}

// TotalDebit and TotalCredit are rounded to cents.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Debit)
	}
	return RoundMoney(sum)
}

func (e *JournalEntry) TotalCredit() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Credit)
	}
	return RoundMoney(sum)
}

// JournalLine is one side of an entry. AccountCode, AccountName and AccountType are
// populated on reads.
type JournalLine struct {
	ID          int64           `json:"id"`
	EntryID     int64           `json:"entry_id"`
	AccountID   int64           `json:"account_id"`
	AccountCode string          `json:"account_code,omitempty"`
	AccountName string          `json:"account_name,omitempty"`
	AccountType AccountType     `json:"account_type,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntrySummary is a listing row: entry header plus line totals.
type JournalEntrySummary struct {
	ID          int64           `json:"id"`
	EntryDate   time.Time       `json:"entry_date"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	Posted      bool            `json:"posted"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// BalanceDelta is the net change posting applies to one account.
type BalanceDelta struct {
	AccountID int64
	Amount    decimal.Decimal
}

// AccountActivity is the sum of posted debits and credits against one account.
type AccountActivity struct {
	AccountID int64
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// ParseDate parses a YYYY-MM-DD business date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrValidation, s)
	}
	return d, nil
}

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
