package postgres

import (
	"context"
	"fmt"

	"erp-core/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ── Contacts ─────────────────────────────────────────────────────────────────

const contactColumns = "id, name, contact_type, email, phone, address, active, created_at"

func scanContact(row pgx.Row) (core.Contact, error) {
	var c core.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Email, &c.Phone, &c.Address, &c.IsActive, &c.CreatedAt)
	return c, err
}

func (t *txStore) InsertContact(ctx context.Context, c *core.Contact) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO contacts (name, contact_type, email, phone, address, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		c.Name, string(c.Type), c.Email, c.Phone, c.Address, c.IsActive).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

func (t *txStore) GetContact(ctx context.Context, id int64) (*core.Contact, error) {
	c, err := scanContact(t.tx.QueryRow(ctx, "SELECT "+contactColumns+" FROM contacts WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err, "contact", id)
	}
	return &c, nil
}

func (t *txStore) ListContacts(ctx context.Context, activeOnly bool) ([]core.Contact, error) {
	query := "SELECT " + contactColumns + " FROM contacts"
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY name, id"

	rows, err := t.tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []core.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (t *txStore) SetContactActive(ctx context.Context, id int64, active bool) error {
	tag, err := t.tx.Exec(ctx, "UPDATE contacts SET active = $1 WHERE id = $2", active, id)
	if err != nil {
		return fmt.Errorf("failed to update contact %d: %w", id, err)
	}
	return expectOne(tag, "contact", id)
}

// ── Products ─────────────────────────────────────────────────────────────────

const productColumns = "id, sku, name, description, unit_price, cost_price, stock_qty, reorder_level, unit, active, created_at"

func scanProduct(row pgx.Row) (core.Product, error) {
	var p core.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.UnitPrice, &p.CostPrice,
		&p.StockQty, &p.ReorderLevel, &p.Unit, &p.IsActive, &p.CreatedAt)
	return p, err
}

func (t *txStore) InsertProduct(ctx context.Context, p *core.Product) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO products (sku, name, description, unit_price, cost_price, stock_qty, reorder_level, unit, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		p.SKU, p.Name, p.Description, p.UnitPrice, p.CostPrice, p.StockQty, p.ReorderLevel, p.Unit, p.IsActive).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "products_sku_key") {
			return core.ErrDuplicateSKU
		}
		return fmt.Errorf("failed to insert product %s: %w", p.SKU, err)
	}
	return nil
}

// GetProduct locks the product row in write transactions; stock updates read the
// current quantity through it.
func (t *txStore) GetProduct(ctx context.Context, id int64) (*core.Product, error) {
	p, err := scanProduct(t.tx.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1"+t.lockClause(), id))
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return &p, nil
}

func (t *txStore) ListProducts(ctx context.Context, activeOnly bool) ([]core.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY name, id"

	rows, err := t.tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []core.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (t *txStore) SetProductActive(ctx context.Context, id int64, active bool) error {
	tag, err := t.tx.Exec(ctx, "UPDATE products SET active = $1 WHERE id = $2", active, id)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return expectOne(tag, "product", id)
}

func (t *txStore) SetProductStock(ctx context.Context, id int64, qty decimal.Decimal) error {
	tag, err := t.tx.Exec(ctx, "UPDATE products SET stock_qty = $1 WHERE id = $2", qty, id)
	if err != nil {
		return fmt.Errorf("failed to update stock of product %d: %w", id, err)
	}
	return expectOne(tag, "product", id)
}

// ── Stock movements ──────────────────────────────────────────────────────────

func (t *txStore) InsertStockMovement(ctx context.Context, m *core.StockMovement) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO stock_movements (product_id, movement_type, quantity, reference, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		m.ProductID, string(m.Type), m.Quantity, m.Reference, m.Notes).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert stock movement: %w", err)
	}
	return nil
}

func (t *txStore) ListStockMovements(ctx context.Context, productID int64) ([]core.StockMovement, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, product_id, movement_type, quantity, reference, notes, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	movements := []core.StockMovement{}
	for rows.Next() {
		var m core.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reference, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
