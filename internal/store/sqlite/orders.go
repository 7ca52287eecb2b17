package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"erp-core/internal/core"
)

// ── Order lines (shared by sales and purchase orders) ────────────────────────

func (t *txStore) insertOrderLines(ctx context.Context, table, fk string, orderID int64, lines []core.OrderLine) error {
	for i := range lines {
		l := &lines[i]
		res, err := t.tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (%s, product_id, description, quantity, unit_price, line_total)
			VALUES (?, ?, ?, ?, ?, ?)`, table, fk),
			orderID, l.ProductID, l.Description, l.Quantity, l.UnitPrice, l.LineTotal)
		if err != nil {
			return fmt.Errorf("failed to insert %s line %d: %w", table, i+1, err)
		}
		if l.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		l.OrderID = orderID
	}
	return nil
}

func (t *txStore) replaceOrderLines(ctx context.Context, table, fk string, orderID int64, lines []core.OrderLine) error {
	if _, err := t.tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, fk), orderID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	return t.insertOrderLines(ctx, table, fk, orderID, lines)
}

func (t *txStore) loadOrderLines(ctx context.Context, table, fk string, orderID int64) ([]core.OrderLine, error) {
	rows, err := t.tx.QueryContext(ctx, fmt.Sprintf(`
		SELECT l.id, l.%s, l.product_id, p.sku, l.description, l.quantity, l.unit_price, l.line_total
		FROM %s l
		JOIN products p ON p.id = l.product_id
		WHERE l.%s = ?
		ORDER BY l.id`, fk, table, fk), orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	lines := []core.OrderLine{}
	for rows.Next() {
		var l core.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductSKU, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ── Sales orders ─────────────────────────────────────────────────────────────

const salesOrderSelect = `
	SELECT so.id, so.order_number, so.customer_id, c.name, so.order_date, so.status,
	       so.subtotal, so.tax_amount, so.total, so.notes, so.created_at
	FROM sales_orders so
	JOIN contacts c ON c.id = so.customer_id`

func scanSalesOrder(row interface{ Scan(...any) error }) (core.SalesOrder, error) {
	var o core.SalesOrder
	var orderDate, createdAt string
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &orderDate, &o.Status,
		&o.Subtotal, &o.TaxAmount, &o.Total, &o.Notes, &createdAt); err != nil {
		return o, err
	}
	d, err := parseDate(orderDate)
	if err != nil {
		return o, err
	}
	o.OrderDate = d
	o.CreatedAt = parseTimestamp(createdAt)
	return o, nil
}

func (t *txStore) InsertSalesOrder(ctx context.Context, o *core.SalesOrder) error {
	createdAt := now()
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO sales_orders (order_number, customer_id, order_date, status, subtotal, tax_amount, total, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderNumber, o.CustomerID, formatDate(o.OrderDate), string(o.Status),
		o.Subtotal, o.TaxAmount, o.Total, o.Notes, createdAt)
	if err != nil {
		if isUniqueViolation(err, "sales_orders.order_number") {
			return fmt.Errorf("%w: %s", core.ErrNumberTaken, o.OrderNumber)
		}
		return fmt.Errorf("failed to insert sales order: %w", err)
	}
	if o.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	o.CreatedAt = parseTimestamp(createdAt)
	return t.insertOrderLines(ctx, "sales_order_lines", "order_id", o.ID, o.Lines)
}

func (t *txStore) GetSalesOrder(ctx context.Context, id int64) (*core.SalesOrder, error) {
	o, err := scanSalesOrder(t.tx.QueryRowContext(ctx, salesOrderSelect+" WHERE so.id = ?", id))
	if err != nil {
		return nil, notFound(err, "sales order", id)
	}
	if o.Lines, err = t.loadOrderLines(ctx, "sales_order_lines", "order_id", id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (t *txStore) ListSalesOrders(ctx context.Context, status core.SalesOrderStatus) ([]core.SalesOrder, error) {
	query := salesOrderSelect
	var args []any
	if status != "" {
		query += " WHERE so.status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY so.id DESC"

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales orders: %w", err)
	}
	defer rows.Close()

	orders := []core.SalesOrder{}
	for rows.Next() {
		o, err := scanSalesOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (t *txStore) UpdateSalesOrder(ctx context.Context, o *core.SalesOrder) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE sales_orders
		SET customer_id = ?, order_date = ?, subtotal = ?, tax_amount = ?, total = ?, notes = ?
		WHERE id = ?`,
		o.CustomerID, formatDate(o.OrderDate), o.Subtotal, o.TaxAmount, o.Total, o.Notes, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update sales order %d: %w", o.ID, err)
	}
	if err := expectOne(res, "sales order", o.ID); err != nil {
		return err
	}
	return t.replaceOrderLines(ctx, "sales_order_lines", "order_id", o.ID, o.Lines)
}

func (t *txStore) SetSalesOrderStatus(ctx context.Context, id int64, status core.SalesOrderStatus) error {
	res, err := t.tx.ExecContext(ctx, "UPDATE sales_orders SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update sales order %d: %w", id, err)
	}
	return expectOne(res, "sales order", id)
}

// ── Purchase orders ──────────────────────────────────────────────────────────

const purchaseOrderSelect = `
	SELECT po.id, po.po_number, po.supplier_id, c.name, po.order_date, po.expected_date, po.status,
	       po.subtotal, po.tax_amount, po.total, po.notes, po.created_at
	FROM purchase_orders po
	JOIN contacts c ON c.id = po.supplier_id`

func scanPurchaseOrder(row interface{ Scan(...any) error }) (core.PurchaseOrder, error) {
	var o core.PurchaseOrder
	var orderDate, createdAt string
	var expected sql.NullString
	if err := row.Scan(&o.ID, &o.PONumber, &o.SupplierID, &o.SupplierName, &orderDate, &expected, &o.Status,
		&o.Subtotal, &o.TaxAmount, &o.Total, &o.Notes, &createdAt); err != nil {
		return o, err
	}
	d, err := parseDate(orderDate)
	if err != nil {
		return o, err
	}
	o.OrderDate = d
	if o.ExpectedDate, err = datePtr(expected); err != nil {
		return o, err
	}
	o.CreatedAt = parseTimestamp(createdAt)
	return o, nil
}

func (t *txStore) InsertPurchaseOrder(ctx context.Context, o *core.PurchaseOrder) error {
	createdAt := now()
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO purchase_orders (po_number, supplier_id, order_date, expected_date, status, subtotal, tax_amount, total, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.PONumber, o.SupplierID, formatDate(o.OrderDate), nullDate(o.ExpectedDate), string(o.Status),
		o.Subtotal, o.TaxAmount, o.Total, o.Notes, createdAt)
	if err != nil {
		if isUniqueViolation(err, "purchase_orders.po_number") {
			return fmt.Errorf("%w: %s", core.ErrNumberTaken, o.PONumber)
		}
		return fmt.Errorf("failed to insert purchase order: %w", err)
	}
	if o.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	o.CreatedAt = parseTimestamp(createdAt)
	return t.insertOrderLines(ctx, "purchase_order_lines", "po_id", o.ID, o.Lines)
}

func (t *txStore) GetPurchaseOrder(ctx context.Context, id int64) (*core.PurchaseOrder, error) {
	o, err := scanPurchaseOrder(t.tx.QueryRowContext(ctx, purchaseOrderSelect+" WHERE po.id = ?", id))
	if err != nil {
		return nil, notFound(err, "purchase order", id)
	}
	if o.Lines, err = t.loadOrderLines(ctx, "purchase_order_lines", "po_id", id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (t *txStore) ListPurchaseOrders(ctx context.Context, status core.PurchaseOrderStatus) ([]core.PurchaseOrder, error) {
	query := purchaseOrderSelect
	var args []any
	if status != "" {
		query += " WHERE po.status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY po.id DESC"

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase orders: %w", err)
	}
	defer rows.Close()

	orders := []core.PurchaseOrder{}
	for rows.Next() {
		o, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (t *txStore) UpdatePurchaseOrder(ctx context.Context, o *core.PurchaseOrder) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE purchase_orders
		SET supplier_id = ?, order_date = ?, expected_date = ?, subtotal = ?, tax_amount = ?, total = ?, notes = ?
		WHERE id = ?`,
		o.SupplierID, formatDate(o.OrderDate), nullDate(o.ExpectedDate), o.Subtotal, o.TaxAmount, o.Total, o.Notes, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update purchase order %d: %w", o.ID, err)
	}
	if err := expectOne(res, "purchase order", o.ID); err != nil {
		return err
	}
	return t.replaceOrderLines(ctx, "purchase_order_lines", "po_id", o.ID, o.Lines)
}

func (t *txStore) SetPurchaseOrderStatus(ctx context.Context, id int64, status core.PurchaseOrderStatus) error {
	res, err := t.tx.ExecContext(ctx, "UPDATE purchase_orders SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update purchase order %d: %w", id, err)
	}
	return expectOne(res, "purchase order", id)
}
