package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"erp-core/internal/core"
	"erp-core/internal/store/sqlite"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_DecimalsRoundTripExactly(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()

	p := &core.Product{
		SKU:          "P-1",
		Name:         "Precise",
		UnitPrice:    decimal.RequireFromString("0.1"),
		CostPrice:    decimal.RequireFromString("0.2"),
		StockQty:     decimal.RequireFromString("1234567890.123456789"),
		ReorderLevel: decimal.Zero,
		Unit:         "each",
		IsActive:     true,
	}
	require.NoError(t, store.WithinTx(ctx, func(tx core.Tx) error { return tx.InsertProduct(ctx, p) }))

	var got *core.Product
	require.NoError(t, store.View(ctx, func(tx core.Tx) error {
		var err error
		got, err = tx.GetProduct(ctx, p.ID)
		return err
	}))
	assert.Equal(t, "0.3", got.UnitPrice.Add(got.CostPrice).String())
	assert.Equal(t, "1234567890.123456789", got.StockQty.String())
}

func TestStore_UniqueViolations(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(tx core.Tx) error {
		if err := tx.InsertAccount(ctx, &core.Account{Code: "1000", Name: "Cash", Type: core.Asset, IsActive: true}); err != nil {
			return err
		}
		return tx.InsertAccount(ctx, &core.Account{Code: "1000", Name: "Cash again", Type: core.Asset, IsActive: true})
	})
	assert.ErrorIs(t, err, core.ErrDuplicateCode)

	// The failed transaction rolled back the first insert too.
	err = store.View(ctx, func(tx core.Tx) error {
		accounts, err := tx.ListAccounts(ctx, false)
		assert.Empty(t, accounts)
		return err
	})
	require.NoError(t, err)

	err = store.WithinTx(ctx, func(tx core.Tx) error {
		c := &core.Contact{Name: "Acme", Type: core.ContactCustomer, IsActive: true}
		if err := tx.InsertContact(ctx, c); err != nil {
			return err
		}
		o := &core.SalesOrder{OrderNumber: "SO-0001", CustomerID: c.ID, OrderDate: core.Today(), Status: core.SalesDraft}
		if err := tx.InsertSalesOrder(ctx, o); err != nil {
			return err
		}
		dup := *o
		return tx.InsertSalesOrder(ctx, &dup)
	})
	assert.ErrorIs(t, err, core.ErrNumberTaken)
}

func TestStore_LatestNumber(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(tx core.Tx) error {
		latest, err := tx.LatestNumber(ctx, core.SeqSalesOrder)
		require.NoError(t, err)
		assert.Empty(t, latest)

		c := &core.Contact{Name: "Acme", Type: core.ContactCustomer, IsActive: true}
		require.NoError(t, tx.InsertContact(ctx, c))
		for _, n := range []string{"SO-0001", "SO-0002"} {
			o := &core.SalesOrder{OrderNumber: n, CustomerID: c.ID, OrderDate: core.Today(), Status: core.SalesDraft}
			require.NoError(t, tx.InsertSalesOrder(ctx, o))
		}
		latest, err = tx.LatestNumber(ctx, core.SeqSalesOrder)
		require.NoError(t, err)
		assert.Equal(t, "SO-0002", latest)

		_, err = tx.LatestNumber(ctx, core.SeqEmployee)
		assert.Error(t, err)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_PostedActivityDateBounds(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()

	cash := &core.Account{Code: "1000", Name: "Cash", Type: core.Asset, IsActive: true}
	sales := &core.Account{Code: "4000", Name: "Sales", Type: core.Revenue, IsActive: true}
	require.NoError(t, store.WithinTx(ctx, func(tx core.Tx) error {
		if err := tx.InsertAccount(ctx, cash); err != nil {
			return err
		}
		if err := tx.InsertAccount(ctx, sales); err != nil {
			return err
		}
		for _, day := range []int{1, 15, 31} {
			e := &core.JournalEntry{
				EntryDate: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
				Lines: []core.JournalLine{
					{AccountID: cash.ID, Debit: decimal.NewFromInt(int64(day)), Credit: decimal.Zero},
					{AccountID: sales.ID, Debit: decimal.Zero, Credit: decimal.NewFromInt(int64(day))},
				},
			}
			if err := tx.InsertJournalEntry(ctx, e); err != nil {
				return err
			}
			if day != 31 {
				if err := tx.ApplyPosting(ctx, e.ID, nil); err != nil {
					return err
				}
			}
		}
		return nil
	}))

	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.View(ctx, func(tx core.Tx) error {
		activity, err := tx.PostedActivity(ctx, &from, &to)
		require.NoError(t, err)
		require.Len(t, activity, 2)
		assert.Equal(t, cash.ID, activity[0].AccountID)
		assert.Equal(t, "15", activity[0].Debit.String())
		assert.Equal(t, "15", activity[1].Credit.String())

		all, err := tx.PostedActivity(ctx, nil, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "16", all[0].Debit.String())
		return nil
	}))
}

func TestStore_NotFound(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()

	require.NoError(t, store.View(ctx, func(tx core.Tx) error {
		_, err := tx.GetAccount(ctx, 1)
		assert.ErrorIs(t, err, core.ErrNotFound)
		_, err = tx.GetJournalEntry(ctx, 1)
		assert.ErrorIs(t, err, core.ErrNotFound)
		_, err = tx.GetSalesOrder(ctx, 1)
		assert.ErrorIs(t, err, core.ErrNotFound)
		_, err = tx.GetPurchaseOrder(ctx, 1)
		assert.ErrorIs(t, err, core.ErrNotFound)
		_, err = tx.GetInvoice(ctx, 1)
		assert.ErrorIs(t, err, core.ErrNotFound)
		return nil
	}))
	err := store.WithinTx(ctx, func(tx core.Tx) error { return tx.SetProductStock(ctx, 42, decimal.Zero) })
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erp.db")
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	_, err = core.NewAccountRegistry(store).SeedDefaultChart(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()
	accounts, err := core.NewAccountRegistry(store).ListAccounts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, accounts, len(core.DefaultChart))
}
