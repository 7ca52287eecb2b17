// Package postgres implements core.Store on PostgreSQL through a pgx connection pool.
//
// Write units of work run at READ COMMITTED and lock what they read: documents and
// products with SELECT ... FOR UPDATE, document sequences with a transaction-scoped
// advisory lock. Balances are incremented in place (balance = balance + delta), so
// concurrent postings to one account never lose an update. Read units of work run
// READ ONLY at REPEATABLE READ and see a single snapshot.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"erp-core/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx core.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&txStore{tx: tx, write: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx core.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// txStore implements core.Tx over one pgx.Tx. Rows are always closed before the next
// statement, since a pgx connection runs one query at a time.
type txStore struct {
	tx    pgx.Tx
	write bool
}

var _ core.Tx = (*txStore)(nil)

// lockClause returns the row-locking suffix for aggregate reads in write transactions.
func (t *txStore) lockClause(tables ...string) string {
	if !t.write {
		return ""
	}
	clause := " FOR UPDATE"
	for i, table := range tables {
		if i == 0 {
			clause += " OF " + table
		} else {
			clause += ", " + table
		}
	}
	return clause
}

var sequenceQueries = map[core.SequenceKind]string{
	core.SeqSalesOrder:    "SELECT order_number FROM sales_orders ORDER BY id DESC LIMIT 1",
	core.SeqPurchaseOrder: "SELECT po_number FROM purchase_orders ORDER BY id DESC LIMIT 1",
	core.SeqInvoice:       "SELECT invoice_number FROM invoices ORDER BY id DESC LIMIT 1",
}

// LatestNumber holds a per-kind advisory lock for the rest of a write transaction, so
// the read-increment-insert sequence of numbering runs one writer at a time.
func (t *txStore) LatestNumber(ctx context.Context, kind core.SequenceKind) (string, error) {
	query, ok := sequenceQueries[kind]
	if !ok {
		return "", fmt.Errorf("no document table for sequence %s", kind)
	}
	if t.write {
		if _, err := t.tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", "erp:seq:"+string(kind)); err != nil {
			return "", fmt.Errorf("failed to lock %s sequence: %w", kind, err)
		}
	}
	var latest string
	err := t.tx.QueryRow(ctx, query).Scan(&latest)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return latest, err
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}

func notFound(err error, entity string, id any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %v", core.ErrNotFound, entity, id)
	}
	return fmt.Errorf("failed to load %s %v: %w", entity, id, err)
}

func expectOne(tag pgconn.CommandTag, entity string, id int64) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %d", core.ErrNotFound, entity, id)
	}
	return nil
}
