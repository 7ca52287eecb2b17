package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// OrderService manages the sales order lifecycle and spawns invoices from orders.
type OrderService interface {
	// CreateOrder creates a DRAFT order numbered SO-NNNN.
	CreateOrder(ctx context.Context, in SalesOrderInput) (*SalesOrder, error)
	// UpdateOrder replaces the header and every line of a DRAFT order.
	UpdateOrder(ctx context.Context, orderID int64, in SalesOrderInput) (*SalesOrder, error)
	// ConfirmOrder transitions DRAFT → CONFIRMED.
	ConfirmOrder(ctx context.Context, orderID int64) (*SalesOrder, error)
	// CancelOrder transitions DRAFT, CONFIRMED or SHIPPED → CANCELLED.
	CancelOrder(ctx context.Context, orderID int64) (*SalesOrder, error)
	// CreateInvoice transitions CONFIRMED or SHIPPED → INVOICED and creates an invoice
	// whose lines and totals are a frozen copy of the order at this moment.
	CreateInvoice(ctx context.Context, orderID int64, dueDate *time.Time, notes string) (*Invoice, error)

	// Queries
	GetOrder(ctx context.Context, orderID int64) (*SalesOrder, error)
	// GetOrders lists orders newest first; an empty status lists all.
	GetOrders(ctx context.Context, status SalesOrderStatus) ([]SalesOrder, error)
}

type orderService struct {
	store Store
}

func NewOrderService(store Store) OrderService {
	return &orderService{store: store}
}

// ── Order Lifecycle ──────────────────────────────────────────────────────────

func (s *orderService) CreateOrder(ctx context.Context, in SalesOrderInput) (*SalesOrder, error) {
	if err := validateOrderInput(in.CustomerID, "customer_id", in.Lines); err != nil {
		return nil, err
	}

	var order *SalesOrder
	err := withNumbering(ctx, s.store, func(tx Tx) error {
		customer, err := requireCounterparty(ctx, tx, in.CustomerID, ContactType.IsCustomer, "customer")
		if err != nil {
			return err
		}
		lines, err := buildOrderLines(ctx, tx, in.Lines)
		if err != nil {
			return err
		}
		number, err := nextNumber(ctx, tx, SeqSalesOrder)
		if err != nil {
			return err
		}

		o := &SalesOrder{
			OrderNumber:  number,
			CustomerID:   customer.ID,
			CustomerName: customer.Name,
			OrderDate:    orderDate(in.OrderDate),
			Status:       SalesDraft,
			Totals:       ComputeTotals(lines),
			Notes:        strings.TrimSpace(in.Notes),
			Lines:        lines,
		}
		if err := tx.InsertSalesOrder(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID int64, in SalesOrderInput) (*SalesOrder, error) {
	if err := validateOrderInput(in.CustomerID, "customer_id", in.Lines); err != nil {
		return nil, err
	}

	var order *SalesOrder
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		o, err := tx.GetSalesOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if _, ok := o.Status.Next(EventEdit); !ok {
			return salesTransitionError(o, EventEdit)
		}
		customer, err := requireCounterparty(ctx, tx, in.CustomerID, ContactType.IsCustomer, "customer")
		if err != nil {
			return err
		}
		lines, err := buildOrderLines(ctx, tx, in.Lines)
		if err != nil {
			return err
		}

		o.CustomerID = customer.ID
		o.CustomerName = customer.Name
		o.OrderDate = orderDate(in.OrderDate)
		o.Notes = strings.TrimSpace(in.Notes)
		o.Lines = lines
		o.Totals = ComputeTotals(lines)
		if err := tx.UpdateSalesOrder(ctx, o); err != nil {
			return fmt.Errorf("failed to update order %d: %w", orderID, err)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ConfirmOrder(ctx context.Context, orderID int64) (*SalesOrder, error) {
	return s.transition(ctx, orderID, EventConfirm)
}

func (s *orderService) CancelOrder(ctx context.Context, orderID int64) (*SalesOrder, error) {
	return s.transition(ctx, orderID, EventCancel)
}

// transition applies a status-only event to an order.
func (s *orderService) transition(ctx context.Context, orderID int64, ev Event) (*SalesOrder, error) {
	var order *SalesOrder
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		o, err := tx.GetSalesOrder(ctx, orderID)
		if err != nil {
			return err
		}
		next, ok := o.Status.Next(ev)
		if !ok {
			return salesTransitionError(o, ev)
		}
		if err := tx.SetSalesOrderStatus(ctx, o.ID, next); err != nil {
			return fmt.Errorf("failed to %s order %d: %w", ev, orderID, err)
		}
		o.Status = next
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) CreateInvoice(ctx context.Context, orderID int64, dueDate *time.Time, notes string) (*Invoice, error) {
	var invoice *Invoice
	err := withNumbering(ctx, s.store, func(tx Tx) error {
		o, err := tx.GetSalesOrder(ctx, orderID)
		if err != nil {
			return err
		}
		next, ok := o.Status.Next(EventInvoice)
		if !ok {
			return salesTransitionError(o, EventInvoice)
		}
		number, err := nextNumber(ctx, tx, SeqInvoice)
		if err != nil {
			return err
		}

		inv := invoiceFromOrder(o, number, dueDate, notes)
		if err := tx.InsertInvoice(ctx, inv); err != nil {
			return err
		}
		if err := tx.SetSalesOrderStatus(ctx, o.ID, next); err != nil {
			return fmt.Errorf("failed to mark order %d invoiced: %w", orderID, err)
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// invoiceFromOrder copies lines and totals out of o. The copy shares no slices with the
// order so later edits cannot reach the invoice.
func invoiceFromOrder(o *SalesOrder, number string, dueDate *time.Time, notes string) *Invoice {
	orderID := o.ID
	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = o.Notes
	}
	inv := &Invoice{
		InvoiceNumber: number,
		SalesOrderID:  &orderID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		InvoiceDate:   Today(),
		DueDate:       dueDate,
		Status:        InvoiceDraft,
		Totals:        o.Totals,
		AmountPaid:    zeroMoney,
		Notes:         notes,
		Lines:         make([]InvoiceLine, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		inv.Lines = append(inv.Lines, InvoiceLine{
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return inv
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*SalesOrder, error) {
	var order *SalesOrder
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		order, err = tx.GetSalesOrder(ctx, orderID)
		return err
	})
	return order, err
}

func (s *orderService) GetOrders(ctx context.Context, status SalesOrderStatus) ([]SalesOrder, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: sales order status %q", ErrValidation, status)
	}
	var orders []SalesOrder
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		orders, err = tx.ListSalesOrders(ctx, status)
		return err
	})
	return orders, err
}

func salesTransitionError(o *SalesOrder, ev Event) error {
	return &TransitionError{Entity: "sales order", ID: o.ID, Number: o.OrderNumber, From: string(o.Status), Event: ev}
}
