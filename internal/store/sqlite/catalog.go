package sqlite

import (
	"context"
	"fmt"

	"erp-core/internal/core"

	"github.com/shopspring/decimal"
)

// ── Contacts ─────────────────────────────────────────────────────────────────

const contactColumns = "id, name, contact_type, email, phone, address, active, created_at"

func scanContact(row interface{ Scan(...any) error }) (core.Contact, error) {
	var c core.Contact
	var createdAt string
	if err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Email, &c.Phone, &c.Address, &c.IsActive, &createdAt); err != nil {
		return c, err
	}
	c.CreatedAt = parseTimestamp(createdAt)
	return c, nil
}

func (t *txStore) InsertContact(ctx context.Context, c *core.Contact) error {
	createdAt := now()
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO contacts (name, contact_type, email, phone, address, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, string(c.Type), c.Email, c.Phone, c.Address, c.IsActive, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	c.CreatedAt = parseTimestamp(createdAt)
	return nil
}

func (t *txStore) GetContact(ctx context.Context, id int64) (*core.Contact, error) {
	c, err := scanContact(t.tx.QueryRowContext(ctx, "SELECT "+contactColumns+" FROM contacts WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err, "contact", id)
	}
	return &c, nil
}

func (t *txStore) ListContacts(ctx context.Context, activeOnly bool) ([]core.Contact, error) {
	query := "SELECT " + contactColumns + " FROM contacts"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name, id"

	rows, err := t.tx.QueryContext(ctx, query)
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
	res, err := t.tx.ExecContext(ctx, "UPDATE contacts SET active = ? WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("failed to update contact %d: %w", id, err)
	}
	return expectOne(res, "contact", id)
}

// ── Products ─────────────────────────────────────────────────────────────────

const productColumns = "id, sku, name, description, unit_price, cost_price, stock_qty, reorder_level, unit, active, created_at"

func scanProduct(row interface{ Scan(...any) error }) (core.Product, error) {
	var p core.Product
	var createdAt string
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.UnitPrice, &p.CostPrice,
		&p.StockQty, &p.ReorderLevel, &p.Unit, &p.IsActive, &createdAt); err != nil {
		return p, err
	}
	p.CreatedAt = parseTimestamp(createdAt)
	return p, nil
}

func (t *txStore) InsertProduct(ctx context.Context, p *core.Product) error {
	createdAt := now()
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO products (sku, name, description, unit_price, cost_price, stock_qty, reorder_level, unit, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SKU, p.Name, p.Description, p.UnitPrice, p.CostPrice, p.StockQty, p.ReorderLevel, p.Unit, p.IsActive, createdAt)
	if err != nil {
		if isUniqueViolation(err, "products.sku") {
			return core.ErrDuplicateSKU
		}
		return fmt.Errorf("failed to insert product %s: %w", p.SKU, err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	p.CreatedAt = parseTimestamp(createdAt)
	return nil
}

func (t *txStore) GetProduct(ctx context.Context, id int64) (*core.Product, error) {
	p, err := scanProduct(t.tx.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return &p, nil
}

func (t *txStore) ListProducts(ctx context.Context, activeOnly bool) ([]core.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name, id"

	rows, err := t.tx.QueryContext(ctx, query)
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
	res, err := t.tx.ExecContext(ctx, "UPDATE products SET active = ? WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return expectOne(res, "product", id)
}

func (t *txStore) SetProductStock(ctx context.Context, id int64, qty decimal.Decimal) error {
	res, err := t.tx.ExecContext(ctx, "UPDATE products SET stock_qty = ? WHERE id = ?", qty, id)
	if err != nil {
		return fmt.Errorf("failed to update stock of product %d: %w", id, err)
	}
	return expectOne(res, "product", id)
}

// ── Stock movements ──────────────────────────────────────────────────────────

func (t *txStore) InsertStockMovement(ctx context.Context, m *core.StockMovement) error {
	createdAt := now()
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO stock_movements (product_id, movement_type, quantity, reference, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ProductID, string(m.Type), m.Quantity, m.Reference, m.Notes, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert stock movement: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	m.CreatedAt = parseTimestamp(createdAt)
	return nil
}

func (t *txStore) ListStockMovements(ctx context.Context, productID int64) ([]core.StockMovement, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, product_id, movement_type, quantity, reference, notes, created_at
		FROM stock_movements WHERE product_id = ?
		ORDER BY id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	movements := []core.StockMovement{}
	for rows.Next() {
		var m core.StockMovement
		var createdAt string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reference, &m.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		m.CreatedAt = parseTimestamp(createdAt)
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
