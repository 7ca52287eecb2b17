package core

import (
	"context"
	"fmt"
	"strings"
)

// PurchaseOrderService manages the purchase order lifecycle. Receiving an order books
// its lines into stock through the InventoryService in the same transaction.
type PurchaseOrderService interface {
	// CreatePurchaseOrder creates a DRAFT order numbered PO-NNNN.
	CreatePurchaseOrder(ctx context.Context, in PurchaseOrderInput) (*PurchaseOrder, error)
	// UpdatePurchaseOrder replaces the header and every line of a DRAFT order.
	UpdatePurchaseOrder(ctx context.Context, poID int64, in PurchaseOrderInput) (*PurchaseOrder, error)
	// ConfirmPurchaseOrder transitions DRAFT → CONFIRMED.
	ConfirmPurchaseOrder(ctx context.Context, poID int64) (*PurchaseOrder, error)
	// ReceivePurchaseOrder transitions CONFIRMED → RECEIVED, adding every line quantity to
	// stock and recording one "in" movement per line referencing the PO number.
	ReceivePurchaseOrder(ctx context.Context, poID int64) (*PurchaseOrder, error)
	// CancelPurchaseOrder transitions DRAFT or CONFIRMED → CANCELLED.
	CancelPurchaseOrder(ctx context.Context, poID int64) (*PurchaseOrder, error)

	GetPurchaseOrder(ctx context.Context, poID int64) (*PurchaseOrder, error)
	GetPurchaseOrders(ctx context.Context, status PurchaseOrderStatus) ([]PurchaseOrder, error)
}

type purchaseOrderService struct {
	store     Store
	inventory InventoryService
}

func NewPurchaseOrderService(store Store, inventory InventoryService) PurchaseOrderService {
	return &purchaseOrderService{store: store, inventory: inventory}
}

// ── PO Lifecycle ─────────────────────────────────────────────────────────────

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, in PurchaseOrderInput) (*PurchaseOrder, error) {
	if err := validateOrderInput(in.SupplierID, "supplier_id", in.Lines); err != nil {
		return nil, err
	}

	var po *PurchaseOrder
	err := withNumbering(ctx, s.store, func(tx Tx) error {
		supplier, err := requireCounterparty(ctx, tx, in.SupplierID, ContactType.IsSupplier, "supplier")
		if err != nil {
			return err
		}
		lines, err := buildOrderLines(ctx, tx, in.Lines)
		if err != nil {
			return err
		}
		number, err := nextNumber(ctx, tx, SeqPurchaseOrder)
		if err != nil {
			return err
		}

		o := &PurchaseOrder{
			PONumber:     number,
			SupplierID:   supplier.ID,
			SupplierName: supplier.Name,
			OrderDate:    orderDate(in.OrderDate),
			ExpectedDate: in.ExpectedDate,
			Status:       PurchaseDraft,
			Totals:       ComputeTotals(lines),
			Notes:        strings.TrimSpace(in.Notes),
			Lines:        lines,
		}
		if err := tx.InsertPurchaseOrder(ctx, o); err != nil {
			return err
		}
		po = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (s *purchaseOrderService) UpdatePurchaseOrder(ctx context.Context, poID int64, in PurchaseOrderInput) (*PurchaseOrder, error) {
	if err := validateOrderInput(in.SupplierID, "supplier_id", in.Lines); err != nil {
		return nil, err
	}

	var po *PurchaseOrder
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		o, err := tx.GetPurchaseOrder(ctx, poID)
		if err != nil {
			return err
		}
		if _, ok := o.Status.Next(EventEdit); !ok {
			return purchaseTransitionError(o, EventEdit)
		}
		supplier, err := requireCounterparty(ctx, tx, in.SupplierID, ContactType.IsSupplier, "supplier")
		if err != nil {
			return err
		}
		lines, err := buildOrderLines(ctx, tx, in.Lines)
		if err != nil {
			return err
		}

		o.SupplierID = supplier.ID
		o.SupplierName = supplier.Name
		o.OrderDate = orderDate(in.OrderDate)
		o.ExpectedDate = in.ExpectedDate
		o.Notes = strings.TrimSpace(in.Notes)
		o.Lines = lines
		o.Totals = ComputeTotals(lines)
		if err := tx.UpdatePurchaseOrder(ctx, o); err != nil {
			return fmt.Errorf("failed to update purchase order %d: %w", poID, err)
		}
		po = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (s *purchaseOrderService) ConfirmPurchaseOrder(ctx context.Context, poID int64) (*PurchaseOrder, error) {
	return s.transition(ctx, poID, EventConfirm, nil)
}

func (s *purchaseOrderService) CancelPurchaseOrder(ctx context.Context, poID int64) (*PurchaseOrder, error) {
	return s.transition(ctx, poID, EventCancel, nil)
}

func (s *purchaseOrderService) ReceivePurchaseOrder(ctx context.Context, poID int64) (*PurchaseOrder, error) {
	return s.transition(ctx, poID, EventReceive, s.receiveLinesTx)
}

// transition applies ev to a purchase order. effect, when non-nil, runs inside the same
// transaction before the status changes; any error aborts the whole transition.
func (s *purchaseOrderService) transition(ctx context.Context, poID int64, ev Event,
	effect func(ctx context.Context, tx Tx, po *PurchaseOrder) error) (*PurchaseOrder, error) {
	var po *PurchaseOrder
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		o, err := tx.GetPurchaseOrder(ctx, poID)
		if err != nil {
			return err
		}
		next, ok := o.Status.Next(ev)
		if !ok {
			return purchaseTransitionError(o, ev)
		}
		if effect != nil {
			if err := effect(ctx, tx, o); err != nil {
				return err
			}
		}
		if err := tx.SetPurchaseOrderStatus(ctx, o.ID, next); err != nil {
			return fmt.Errorf("failed to %s purchase order %d: %w", ev, poID, err)
		}
		o.Status = next
		po = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (s *purchaseOrderService) receiveLinesTx(ctx context.Context, tx Tx, po *PurchaseOrder) error {
	for _, line := range po.Lines {
		_, err := s.inventory.RecordMovementTx(ctx, tx, MovementInput{
			ProductID: line.ProductID,
			Type:      MovementIn,
			Quantity:  line.Quantity,
			Reference: po.PONumber,
			Notes:     "Received from PO " + po.PONumber,
		})
		if err != nil {
			return fmt.Errorf("failed to receive line %d of %s: %w", line.ID, po.PONumber, err)
		}
	}
	return nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, poID int64) (*PurchaseOrder, error) {
	var po *PurchaseOrder
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		po, err = tx.GetPurchaseOrder(ctx, poID)
		return err
	})
	return po, err
}

func (s *purchaseOrderService) GetPurchaseOrders(ctx context.Context, status PurchaseOrderStatus) ([]PurchaseOrder, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: purchase order status %q", ErrValidation, status)
	}
	var pos []PurchaseOrder
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		pos, err = tx.ListPurchaseOrders(ctx, status)
		return err
	})
	return pos, err
}

func purchaseTransitionError(o *PurchaseOrder, ev Event) error {
	return &TransitionError{Entity: "purchase order", ID: o.ID, Number: o.PONumber, From: string(o.Status), Event: ev}
}
