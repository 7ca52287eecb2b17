package core_test

import (
	"testing"

	"erp-core/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}

func assertQty(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got}, msgAndArgs...)...)
}

func TestRoundMoney_HalfToEven(t *testing.T) {
	tests := map[string]string{
		"0.125":   "0.12",
		"0.135":   "0.14",
		"2.675":   "2.68",
		"10.005":  "10.00",
		"10.015":  "10.02",
		"-0.125":  "-0.12",
		"1.2349":  "1.23",
		"1299.99": "1299.99",
	}
	for in, want := range tests {
		assertMoney(t, want, core.RoundMoney(dec(in)), in)
	}
}

func TestBalanced(t *testing.T) {
	assert.True(t, core.Balanced(dec("100"), dec("100.00")))
	assert.True(t, core.Balanced(dec("10.005"), dec("10.00")))
	assert.False(t, core.Balanced(dec("10.015"), dec("10.01")))
	assert.False(t, core.Balanced(dec("100.01"), dec("100")))
}

func TestComputeTotals(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		totals := core.ComputeTotals([]core.OrderLine{
			{Quantity: dec("10"), UnitPrice: dec("1299.99"), LineTotal: dec("12999.90")},
		})
		assertMoney(t, "12999.90", totals.Subtotal)
		assertMoney(t, "1299.99", totals.TaxAmount)
		assertMoney(t, "14299.89", totals.Total)
	})

	t.Run("unrounded lines", func(t *testing.T) {
		totals := core.ComputeTotals([]core.OrderLine{
			{LineTotal: dec("0.333")},
			{LineTotal: dec("0.333")},
			{LineTotal: dec("0.333")},
		})
		assertMoney(t, "1.00", totals.Subtotal)
		assertMoney(t, "0.10", totals.TaxAmount)
		assertMoney(t, "1.10", totals.Total)
	})

	t.Run("tax rounds half to even", func(t *testing.T) {
		totals := core.ComputeTotals([]core.OrderLine{{LineTotal: dec("0.05")}})
		assertMoney(t, "0.00", totals.TaxAmount)
		assertMoney(t, "0.05", totals.Total)
	})

	t.Run("no lines", func(t *testing.T) {
		totals := core.ComputeTotals(nil)
		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.Total.IsZero())
	})
}
