package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"erp-core/internal/core"

	"github.com/shopspring/decimal"
)

const invoiceSelect = `
	SELECT i.id, i.invoice_number, i.sales_order_id, i.customer_id, c.name, i.invoice_date, i.due_date,
	       i.status, i.subtotal, i.tax_amount, i.total, i.amount_paid, i.notes, i.created_at
	FROM invoices i
	JOIN contacts c ON c.id = i.customer_id`

func scanInvoice(row interface{ Scan(...any) error }) (core.Invoice, error) {
	var inv core.Invoice
	var orderID sql.NullInt64
	var invoiceDate, createdAt string
	var due sql.NullString
	if err := row.Scan(&inv.ID, &inv.InvoiceNumber, &orderID, &inv.CustomerID, &inv.CustomerName,
		&invoiceDate, &due, &inv.Status, &inv.Subtotal, &inv.TaxAmount, &inv.Total, &inv.AmountPaid,
		&inv.Notes, &createdAt); err != nil {
		return inv, err
	}
	d, err := parseDate(invoiceDate)
	if err != nil {
		return inv, err
	}
	inv.InvoiceDate = d
	if inv.DueDate, err = datePtr(due); err != nil {
		return inv, err
	}
	inv.SalesOrderID = intPtr(orderID)
	inv.CreatedAt = parseTimestamp(createdAt)
	return inv, nil
}

func (t *txStore) InsertInvoice(ctx context.Context, inv *core.Invoice) error {
	createdAt := now()
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO invoices (invoice_number, sales_order_id, customer_id, invoice_date, due_date, status,
		                      subtotal, tax_amount, total, amount_paid, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.InvoiceNumber, nullInt(inv.SalesOrderID), inv.CustomerID, formatDate(inv.InvoiceDate),
		nullDate(inv.DueDate), string(inv.Status), inv.Subtotal, inv.TaxAmount, inv.Total, inv.AmountPaid,
		inv.Notes, createdAt)
	if err != nil {
		if isUniqueViolation(err, "invoices.invoice_number") {
			return fmt.Errorf("%w: %s", core.ErrNumberTaken, inv.InvoiceNumber)
		}
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	if inv.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	inv.CreatedAt = parseTimestamp(createdAt)

	for i := range inv.Lines {
		l := &inv.Lines[i]
		res, err := t.tx.ExecContext(ctx, `
			INSERT INTO invoice_lines (invoice_id, product_id, description, quantity, unit_price, line_total)
			VALUES (?, ?, ?, ?, ?, ?)`,
			inv.ID, l.ProductID, l.Description, l.Quantity, l.UnitPrice, l.LineTotal)
		if err != nil {
			return fmt.Errorf("failed to insert invoice line %d: %w", i+1, err)
		}
		if l.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		l.InvoiceID = inv.ID
	}
	return nil
}

func (t *txStore) GetInvoice(ctx context.Context, id int64) (*core.Invoice, error) {
	inv, err := scanInvoice(t.tx.QueryRowContext(ctx, invoiceSelect+" WHERE i.id = ?", id))
	if err != nil {
		return nil, notFound(err, "invoice", id)
	}

	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, invoice_id, product_id, description, quantity, unit_price, line_total
		FROM invoice_lines WHERE invoice_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines: %w", err)
	}
	defer rows.Close()

	inv.Lines = []core.InvoiceLine{}
	for rows.Next() {
		var l core.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Description, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	return &inv, rows.Err()
}

func (t *txStore) ListInvoices(ctx context.Context, status core.InvoiceStatus) ([]core.Invoice, error) {
	query := invoiceSelect
	var args []any
	if status != "" {
		query += " WHERE i.status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY i.id DESC"

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []core.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (t *txStore) SetInvoicePayment(ctx context.Context, id int64, status core.InvoiceStatus, amountPaid decimal.Decimal) error {
	res, err := t.tx.ExecContext(ctx, "UPDATE invoices SET status = ?, amount_paid = ? WHERE id = ?",
		string(status), amountPaid, id)
	if err != nil {
		return fmt.Errorf("failed to update invoice %d: %w", id, err)
	}
	return expectOne(res, "invoice", id)
}
