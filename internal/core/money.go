package core

import "github.com/shopspring/decimal"

// TaxRate is the flat sales and purchase tax rate.
var TaxRate = decimal.RequireFromString("0.10")

// RoundMoney rounds to cents with banker's rounding (half to even).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// Balanced reports whether debits equal credits once each side is rounded to cents.
// The comparison is exact after rounding, so 10.005 vs 10.00 balances and 10.015 vs 10.01 does not.
func Balanced(debit, credit decimal.Decimal) bool {
	return RoundMoney(debit).Equal(RoundMoney(credit))
}

// Totals are the derived money fields of an order or invoice.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeTotals derives totals from line totals. Tax and total are computed from the
// unrounded subtotal, then every field is rounded to cents.
func ComputeTotals(lines []OrderLine) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	tax := RoundMoney(subtotal.Mul(TaxRate))
	return Totals{
		Subtotal:  RoundMoney(subtotal),
		TaxAmount: tax,
		Total:     RoundMoney(subtotal.Add(tax)),
	}
}
