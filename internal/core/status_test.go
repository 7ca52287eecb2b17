package core_test

import (
	"errors"
	"testing"

	"erp-core/internal/core"

	"github.com/stretchr/testify/assert"
)

var allEvents = []core.Event{
	core.EventEdit, core.EventConfirm, core.EventCancel,
	core.EventInvoice, core.EventReceive, core.EventPay,
}

func TestSalesOrderTransitions(t *testing.T) {
	allowed := map[core.SalesOrderStatus]map[core.Event]core.SalesOrderStatus{
		core.SalesDraft: {
			core.EventEdit:    core.SalesDraft,
			core.EventConfirm: core.SalesConfirmed,
			core.EventCancel:  core.SalesCancelled,
		},
		core.SalesConfirmed: {
			core.EventCancel:  core.SalesCancelled,
			core.EventInvoice: core.SalesInvoiced,
		},
		core.SalesShipped: {
			core.EventCancel:  core.SalesCancelled,
			core.EventInvoice: core.SalesInvoiced,
		},
	}
	for _, from := range core.SalesOrderStatuses {
		assert.True(t, from.Valid())
		for _, ev := range allEvents {
			next, ok := from.Next(ev)
			want, wantOK := allowed[from][ev]
			assert.Equal(t, wantOK, ok, "%s + %s", from, ev)
			assert.Equal(t, want, next, "%s + %s", from, ev)
		}
	}
	assert.False(t, core.SalesOrderStatus("shipping").Valid())
}

func TestPurchaseOrderTransitions(t *testing.T) {
	allowed := map[core.PurchaseOrderStatus]map[core.Event]core.PurchaseOrderStatus{
		core.PurchaseDraft: {
			core.EventEdit:    core.PurchaseDraft,
			core.EventConfirm: core.PurchaseConfirmed,
			core.EventCancel:  core.PurchaseCancelled,
		},
		core.PurchaseConfirmed: {
			core.EventReceive: core.PurchaseReceived,
			core.EventCancel:  core.PurchaseCancelled,
		},
	}
	for _, from := range core.PurchaseOrderStatuses {
		assert.True(t, from.Valid())
		for _, ev := range allEvents {
			next, ok := from.Next(ev)
			want, wantOK := allowed[from][ev]
			assert.Equal(t, wantOK, ok, "%s + %s", from, ev)
			assert.Equal(t, want, next, "%s + %s", from, ev)
		}
	}
}

func TestInvoiceTransitions(t *testing.T) {
	for _, from := range core.InvoiceStatuses {
		next, ok := from.Next(core.EventPay)
		switch from {
		case core.InvoicePaid, core.InvoiceCancelled:
			assert.False(t, ok, from)
		default:
			assert.True(t, ok, from)
			assert.Equal(t, core.InvoicePaid, next)
		}
	}
	assert.True(t, core.InvoiceDraft.Pending())
	assert.True(t, core.InvoiceSent.Pending())
	assert.False(t, core.InvoiceOverdue.Pending())
	assert.False(t, core.InvoicePaid.Pending())
}

func TestTransitionError(t *testing.T) {
	err := error(&core.TransitionError{Entity: "sales order", ID: 7, Number: "SO-0007", From: "invoiced", Event: core.EventCancel})
	assert.True(t, errors.Is(err, core.ErrInvalidTransition))
	assert.True(t, errors.Is(err, core.ErrState))
	assert.Equal(t, "state", core.Class(err))
	assert.Contains(t, err.Error(), "SO-0007")
	assert.Contains(t, err.Error(), "invoiced")
}

func TestErrorClass(t *testing.T) {
	assert.Equal(t, "validation", core.Class(core.ErrUnbalanced))
	assert.Equal(t, "conflict", core.Class(core.ErrAlreadyPosted))
	assert.Equal(t, "conflict", core.Class(core.ErrNumberTaken))
	assert.Equal(t, "not_found", core.Class(core.ErrNotFound))
	assert.Equal(t, "internal", core.Class(errors.New("disk on fire")))
}
