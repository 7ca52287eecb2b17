package postgres

import (
	"context"
	"fmt"

	"erp-core/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const invoiceSelect = `
	SELECT i.id, i.invoice_number, i.sales_order_id, i.customer_id, c.name, i.invoice_date, i.due_date,
	       i.status, i.subtotal, i.tax_amount, i.total, i.amount_paid, i.notes, i.created_at
	FROM invoices i
	JOIN contacts c ON c.id = i.customer_id`

func scanInvoice(row pgx.Row) (core.Invoice, error) {
	var inv core.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.SalesOrderID, &inv.CustomerID, &inv.CustomerName,
		&inv.InvoiceDate, &inv.DueDate, &inv.Status, &inv.Subtotal, &inv.TaxAmount, &inv.Total, &inv.AmountPaid,
		&inv.Notes, &inv.CreatedAt)
	return inv, err
}

func (t *txStore) InsertInvoice(ctx context.Context, inv *core.Invoice) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, sales_order_id, customer_id, invoice_date, due_date, status,
		                      subtotal, tax_amount, total, amount_paid, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		inv.InvoiceNumber, inv.SalesOrderID, inv.CustomerID, inv.InvoiceDate, inv.DueDate, string(inv.Status),
		inv.Subtotal, inv.TaxAmount, inv.Total, inv.AmountPaid, inv.Notes).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "invoices_number_key") {
			return fmt.Errorf("%w: %s", core.ErrNumberTaken, inv.InvoiceNumber)
		}
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	for i := range inv.Lines {
		l := &inv.Lines[i]
		err := t.tx.QueryRow(ctx, `
			INSERT INTO invoice_lines (invoice_id, product_id, description, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			inv.ID, l.ProductID, l.Description, l.Quantity, l.UnitPrice, l.LineTotal).Scan(&l.ID)
		if err != nil {
			return fmt.Errorf("failed to insert invoice line %d: %w", i+1, err)
		}
		l.InvoiceID = inv.ID
	}
	return nil
}

func (t *txStore) GetInvoice(ctx context.Context, id int64) (*core.Invoice, error) {
	inv, err := scanInvoice(t.tx.QueryRow(ctx, invoiceSelect+" WHERE i.id = $1"+t.lockClause("i"), id))
	if err != nil {
		return nil, notFound(err, "invoice", id)
	}

	rows, err := t.tx.Query(ctx, `
		SELECT id, invoice_id, product_id, description, quantity, unit_price, line_total
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`, id)
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
		query += " WHERE i.status = $1"
		args = append(args, string(status))
	}
	query += " ORDER BY i.id DESC"

	rows, err := t.tx.Query(ctx, query, args...)
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
	tag, err := t.tx.Exec(ctx, "UPDATE invoices SET status = $1, amount_paid = $2 WHERE id = $3",
		string(status), amountPaid, id)
	if err != nil {
		return fmt.Errorf("failed to update invoice %d: %w", id, err)
	}
	return expectOne(tag, "invoice", id)
}
