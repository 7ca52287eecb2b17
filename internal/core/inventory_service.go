package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MovementInput describes one stock change. For MovementAdjustment, Quantity is the
// target stock level rather than a difference.
type MovementInput struct {
	ProductID int64
	Type      MovementType
	Quantity  decimal.Decimal
	Reference string
	Notes     string
}

// InventoryService maintains product stock levels and the append-only movement log.
// Every stock change writes exactly one StockMovement in the same transaction.
type InventoryService interface {
	// Standalone operations (manage their own transactions).
	RecordMovement(ctx context.Context, in MovementInput) (*StockMovement, error)
	// Movements returns a product's movement history newest first.
	Movements(ctx context.Context, productID int64) ([]StockMovement, error)
	// LowStock returns active products at or below their reorder level.
	LowStock(ctx context.Context) ([]Product, error)

	// TX-scoped operations: work within a caller-provided transaction.
	// Used by the purchase order lifecycle to keep receipts atomic with the status change.
	RecordMovementTx(ctx context.Context, tx Tx, in MovementInput) (*StockMovement, error)
}

type inventoryService struct {
	store Store
}

func NewInventoryService(store Store) InventoryService {
	return &inventoryService{store: store}
}

// ── Standalone operations ─────────────────────────────────────────────────────

func (s *inventoryService) RecordMovement(ctx context.Context, in MovementInput) (*StockMovement, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	var m *StockMovement
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		var err error
		m, err = s.RecordMovementTx(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *inventoryService) Movements(ctx context.Context, productID int64) ([]StockMovement, error) {
	var movements []StockMovement
	err := s.store.View(ctx, func(tx Tx) error {
		if _, err := tx.GetProduct(ctx, productID); err != nil {
			return err
		}
		var err error
		movements, err = tx.ListStockMovements(ctx, productID)
		return err
	})
	return movements, err
}

func (s *inventoryService) LowStock(ctx context.Context) ([]Product, error) {
	var low []Product
	err := s.store.View(ctx, func(tx Tx) error {
		products, err := tx.ListProducts(ctx, true)
		if err != nil {
			return err
		}
		for _, p := range products {
			if p.BelowReorderLevel() {
				low = append(low, p)
			}
		}
		return nil
	})
	return low, err
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

// RecordMovementTx applies a movement inside tx. Outgoing movements are not floored at
// zero; stock may go negative.
func (s *inventoryService) RecordMovementTx(ctx context.Context, tx Tx, in MovementInput) (*StockMovement, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}

	p, err := tx.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	var newQty, moved decimal.Decimal
	switch in.Type {
	case MovementIn:
		moved = in.Quantity
		newQty = p.StockQty.Add(in.Quantity)
	case MovementOut:
		moved = in.Quantity
		newQty = p.StockQty.Sub(in.Quantity)
	case MovementAdjustment:
		moved = in.Quantity.Sub(p.StockQty)
		newQty = in.Quantity
	}

	if err := tx.SetProductStock(ctx, p.ID, newQty); err != nil {
		return nil, fmt.Errorf("failed to update stock for product %d: %w", p.ID, err)
	}
	m := &StockMovement{
		ProductID: p.ID,
		Type:      in.Type,
		Quantity:  moved,
		Reference: strings.TrimSpace(in.Reference),
		Notes:     strings.TrimSpace(in.Notes),
	}
	if err := tx.InsertStockMovement(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to record movement for product %d: %w", p.ID, err)
	}
	return m, nil
}

func validateMovement(in MovementInput) error {
	if in.ProductID <= 0 {
		return missing("product_id")
	}
	switch in.Type {
	case MovementIn, MovementOut:
		if !in.Quantity.IsPositive() {
			return fmt.Errorf("%w: %s quantity must be greater than zero, got %s", ErrInvalidQuantity, in.Type, in.Quantity)
		}
	case MovementAdjustment:
		if in.Quantity.IsNegative() {
			return fmt.Errorf("%w: adjustment target must not be negative, got %s", ErrInvalidQuantity, in.Quantity)
		}
	default:
		return fmt.Errorf("%w: movement type %q", ErrValidation, in.Type)
	}
	return nil
}
