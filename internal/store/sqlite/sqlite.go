/*
Package sqlite implements core.Store on an embedded SQLite database.

It serves local single-file use and is the fixture the service tests run against
(sqlite.New(":memory:")). The pool holds one connection, so every unit of work runs
alone: a write transaction can never interleave with another reader or writer.

Money and quantities are stored as TEXT in decimal notation and scanned back into
decimal.Decimal, so no value passes through a float. Business dates are TEXT
YYYY-MM-DD and timestamps are RFC 3339 UTC.

Schema is auto-migrated on New(). The Postgres store uses versioned migrations instead.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"erp-core/internal/core"

	"github.com/mattn/go-sqlite3"
)

// Store implements core.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and applies the schema.
// Use ":memory:" for a private in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: an in-memory database lives and dies with its connection, and a
	// single connection makes every transaction exclusive.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithinTx runs fn in a write transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx core.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, nil, fn)
}

// View runs fn in a read-only transaction.
func (s *Store) View(ctx context.Context, fn func(tx core.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (s *Store) run(ctx context.Context, opts *sql.TxOptions, fn func(tx core.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txStore implements core.Tx over one *sql.Tx. Every query drains and closes its rows
// before the next statement runs.
type txStore struct {
	tx *sql.Tx
}

var _ core.Tx = (*txStore)(nil)

// LatestNumber reads the number of the most recently inserted document of kind.
func (t *txStore) LatestNumber(ctx context.Context, kind core.SequenceKind) (string, error) {
	var query string
	switch kind {
	case core.SeqSalesOrder:
		query = "SELECT order_number FROM sales_orders ORDER BY id DESC LIMIT 1"
	case core.SeqPurchaseOrder:
		query = "SELECT po_number FROM purchase_orders ORDER BY id DESC LIMIT 1"
	case core.SeqInvoice:
		query = "SELECT invoice_number FROM invoices ORDER BY id DESC LIMIT 1"
	default:
		return "", fmt.Errorf("no document table for sequence %s", kind)
	}
	var latest string
	err := t.tx.QueryRowContext(ctx, query).Scan(&latest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return latest, err
}

// ── Helpers ──────────────────────────────────────────────────────────────────

const timestampLayout = time.RFC3339Nano

func now() string {
	return time.Now().UTC().Format(timestampLayout)
}

func formatDate(t time.Time) string {
	return t.Format(core.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(core.DateLayout, s)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(*t), Valid: true}
}

func datePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := parseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nullInt(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on column
// (for example "accounts.code").
func isUniqueViolation(err error, column string) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return strings.Contains(se.Error(), column)
}

func notFound(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %v", core.ErrNotFound, entity, id)
	}
	return fmt.Errorf("failed to load %s %v: %w", entity, id, err)
}

func expectOne(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", core.ErrNotFound, entity, id)
	}
	return nil
}
