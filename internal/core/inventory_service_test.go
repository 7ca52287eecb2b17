package core_test

import (
	"context"
	"testing"

	"erp-core/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_RecordMovement(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "BOLT-10", "0.25")
	assert.Equal(t, "0", e.stock(t, p))

	m, err := e.inventory.RecordMovement(ctx, core.MovementInput{
		ProductID: p.ID, Type: core.MovementIn, Quantity: dec("50"), Reference: "OPENING",
	})
	require.NoError(t, err)
	assertQty(t, "50", m.Quantity)
	assert.Equal(t, "50", e.stock(t, p))

	// Adjustments take the target level and record the signed difference.
	m, err = e.inventory.RecordMovement(ctx, core.MovementInput{
		ProductID: p.ID, Type: core.MovementAdjustment, Quantity: dec("30"), Notes: "cycle count",
	})
	require.NoError(t, err)
	assertQty(t, "-20", m.Quantity)
	assert.Equal(t, "30", e.stock(t, p))

	// Outgoing stock is not floored at zero.
	_, err = e.inventory.RecordMovement(ctx, core.MovementInput{
		ProductID: p.ID, Type: core.MovementOut, Quantity: dec("40"),
	})
	require.NoError(t, err)
	assert.Equal(t, "-10", e.stock(t, p))

	history, err := e.inventory.Movements(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, core.MovementOut, history[0].Type)
	assert.Equal(t, core.MovementAdjustment, history[1].Type)
	assert.Equal(t, "cycle count", history[1].Notes)
	assert.Equal(t, core.MovementIn, history[2].Type)
	assert.Equal(t, "OPENING", history[2].Reference)
}

func TestInventory_AdjustmentToCurrentLevel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "NUT-10", "0.10")

	m, err := e.inventory.RecordMovement(ctx, core.MovementInput{ProductID: p.ID, Type: core.MovementAdjustment, Quantity: dec("0")})
	require.NoError(t, err)
	assert.True(t, m.Quantity.IsZero())
	assert.Equal(t, "0", e.stock(t, p))
}

func TestInventory_RejectsInvalidMovements(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "BOLT-10", "0.25")

	tests := []struct {
		name string
		in   core.MovementInput
		want error
	}{
		{"zero in", core.MovementInput{ProductID: p.ID, Type: core.MovementIn, Quantity: dec("0")}, core.ErrInvalidQuantity},
		{"negative out", core.MovementInput{ProductID: p.ID, Type: core.MovementOut, Quantity: dec("-1")}, core.ErrInvalidQuantity},
		{"negative target", core.MovementInput{ProductID: p.ID, Type: core.MovementAdjustment, Quantity: dec("-1")}, core.ErrInvalidQuantity},
		{"unknown type", core.MovementInput{ProductID: p.ID, Type: "transfer", Quantity: dec("1")}, core.ErrValidation},
		{"no product", core.MovementInput{Type: core.MovementIn, Quantity: dec("1")}, core.ErrMissingField},
		{"unknown product", core.MovementInput{ProductID: 999, Type: core.MovementIn, Quantity: dec("1")}, core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.inventory.RecordMovement(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, "0", e.stock(t, p))
	history, err := e.inventory.Movements(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestInventory_LowStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	low := e.product(t, "A-1", "1.00")
	ok := e.product(t, "B-1", "1.00")
	inactive := e.product(t, "C-1", "1.00")

	_, err := e.inventory.RecordMovement(ctx, core.MovementInput{ProductID: low.ID, Type: core.MovementIn, Quantity: dec("5")})
	require.NoError(t, err)
	_, err = e.inventory.RecordMovement(ctx, core.MovementInput{ProductID: ok.ID, Type: core.MovementIn, Quantity: dec("6")})
	require.NoError(t, err)
	require.NoError(t, e.catalog.DeactivateProduct(ctx, inactive.ID))

	products, err := e.inventory.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "A-1", products[0].SKU)
}

func TestCatalog_Products(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "SKU-1", "9.99")
	assert.Equal(t, "each", p.Unit)
	assert.True(t, p.IsActive)

	_, err := e.catalog.CreateProduct(ctx, core.ProductInput{SKU: "SKU-1", Name: "Again", UnitPrice: dec("1")})
	assert.ErrorIs(t, err, core.ErrDuplicateSKU)

	_, err = e.catalog.CreateProduct(ctx, core.ProductInput{SKU: "SKU-2", Name: "Cheap", UnitPrice: dec("-1")})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = e.catalog.CreateProduct(ctx, core.ProductInput{Name: "No SKU"})
	assert.ErrorIs(t, err, core.ErrMissingField)

	require.NoError(t, e.catalog.DeactivateProduct(ctx, p.ID))
	active, err := e.catalog.ListProducts(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := e.catalog.ListProducts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, e.catalog.DeactivateProduct(ctx, 999), core.ErrNotFound)
}

func TestCatalog_Contacts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.contact(t, "Acme", core.ContactCustomer)
	e.contact(t, "Parts Co", core.ContactSupplier)
	both := e.contact(t, "Both Ltd", core.ContactBoth)

	_, err := e.catalog.CreateContact(ctx, core.ContactInput{Name: "Weird", Type: "partner"})
	assert.ErrorIs(t, err, core.ErrValidation)

	defaulted, err := e.catalog.CreateContact(ctx, core.ContactInput{Name: "Walk-in"})
	require.NoError(t, err)
	assert.Equal(t, core.ContactCustomer, defaulted.Type)

	customers, err := e.catalog.ListContacts(ctx, core.ContactCustomer)
	require.NoError(t, err)
	assert.Len(t, customers, 3)

	suppliers, err := e.catalog.ListContacts(ctx, core.ContactSupplier)
	require.NoError(t, err)
	assert.Len(t, suppliers, 2)

	require.NoError(t, e.catalog.DeactivateContact(ctx, both.ID))
	suppliers, err = e.catalog.ListContacts(ctx, core.ContactSupplier)
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Parts Co", suppliers[0].Name)

	all, err := e.catalog.ListContacts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
