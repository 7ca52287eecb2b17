package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var zeroMoney = decimal.Zero

func validateOrderInput(counterpartyID int64, field string, lines []OrderLineInput) error {
	if counterpartyID <= 0 {
		return missing(field)
	}
	for i, l := range lines {
		if l.ProductID <= 0 {
			return fmt.Errorf("%w: line %d product_id", ErrMissingField, i+1)
		}
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("%w: line %d quantity must be greater than zero, got %s", ErrInvalidQuantity, i+1, l.Quantity)
		}
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d unit price must not be negative", ErrInvalidAmount, i+1)
		}
	}
	return nil
}

// requireCounterparty loads an active contact whose type satisfies accepts.
func requireCounterparty(ctx context.Context, tx Tx, id int64, accepts func(ContactType) bool, role string) (*Contact, error) {
	c, err := tx.GetContact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", role, err)
	}
	if !c.IsActive {
		return nil, fmt.Errorf("%w: contact %d is inactive", ErrValidation, id)
	}
	if !accepts(c.Type) {
		return nil, fmt.Errorf("%w: contact %d (%s) is not a %s", ErrValidation, id, c.Type, role)
	}
	return c, nil
}

// buildOrderLines resolves products and prices. LineTotal is quantity × unit price,
// unrounded; rounding happens once on the order totals.
func buildOrderLines(ctx context.Context, tx Tx, inputs []OrderLineInput) ([]OrderLine, error) {
	lines := make([]OrderLine, 0, len(inputs))
	for i, in := range inputs {
		p, err := tx.GetProduct(ctx, in.ProductID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		price := p.UnitPrice
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		desc := strings.TrimSpace(in.Description)
		if desc == "" {
			desc = p.Name
		}
		lines = append(lines, OrderLine{
			ProductID:   p.ID,
			ProductSKU:  p.SKU,
			Description: desc,
			Quantity:    in.Quantity,
			UnitPrice:   price,
			LineTotal:   in.Quantity.Mul(price),
		})
	}
	return lines, nil
}

func orderDate(d time.Time) time.Time {
	if d.IsZero() {
		return Today()
	}
	return d
}
