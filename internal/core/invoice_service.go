package core

import (
	"context"
	"fmt"
)

// InvoiceService reads invoices and records payment. Invoices are created only by
// OrderService.CreateInvoice; their lines and totals are never modified here.
type InvoiceService interface {
	GetInvoice(ctx context.Context, invoiceID int64) (*Invoice, error)
	// GetInvoices lists invoices newest first; an empty status lists all.
	GetInvoices(ctx context.Context, status InvoiceStatus) ([]Invoice, error)
	// MarkPaid settles the invoice in full: status PAID, amount_paid = total.
	MarkPaid(ctx context.Context, invoiceID int64) (*Invoice, error)
}

type invoiceService struct {
	store Store
}

func NewInvoiceService(store Store) InvoiceService {
	return &invoiceService{store: store}
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID int64) (*Invoice, error) {
	var inv *Invoice
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		inv, err = tx.GetInvoice(ctx, invoiceID)
		return err
	})
	return inv, err
}

func (s *invoiceService) GetInvoices(ctx context.Context, status InvoiceStatus) ([]Invoice, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: invoice status %q", ErrValidation, status)
	}
	var invoices []Invoice
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		invoices, err = tx.ListInvoices(ctx, status)
		return err
	})
	return invoices, err
}

func (s *invoiceService) MarkPaid(ctx context.Context, invoiceID int64) (*Invoice, error) {
	var invoice *Invoice
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		inv, err := tx.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status == InvoicePaid {
			return fmt.Errorf("%w: %s", ErrAlreadyPaid, inv.InvoiceNumber)
		}
		next, ok := inv.Status.Next(EventPay)
		if !ok {
			return &TransitionError{Entity: "invoice", ID: inv.ID, Number: inv.InvoiceNumber, From: string(inv.Status), Event: EventPay}
		}
		if err := tx.SetInvoicePayment(ctx, inv.ID, next, inv.Total); err != nil {
			return fmt.Errorf("failed to mark invoice %d paid: %w", invoiceID, err)
		}
		inv.Status = next
		inv.AmountPaid = inv.Total
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}
