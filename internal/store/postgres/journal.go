package postgres

import (
	"context"
	"fmt"
	"time"

	"erp-core/internal/core"
)

func (t *txStore) InsertJournalEntry(ctx context.Context, e *core.JournalEntry) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO journal_entries (entry_date, reference, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		e.EntryDate, e.Reference, e.Description).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	e.Posted = false

	for i := range e.Lines {
		l := &e.Lines[i]
		err := t.tx.QueryRow(ctx, `
			INSERT INTO journal_lines (entry_id, account_id, debit, credit, description)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			e.ID, l.AccountID, l.Debit, l.Credit, l.Description).Scan(&l.ID)
		if err != nil {
			return fmt.Errorf("failed to insert journal line %d: %w", i+1, err)
		}
		l.EntryID = e.ID
	}
	return nil
}

func (t *txStore) GetJournalEntry(ctx context.Context, id int64) (*core.JournalEntry, error) {
	var e core.JournalEntry
	err := t.tx.QueryRow(ctx, `
		SELECT id, entry_date, reference, description, posted, created_at
		FROM journal_entries WHERE id = $1`+t.lockClause(), id).
		Scan(&e.ID, &e.EntryDate, &e.Reference, &e.Description, &e.Posted, &e.CreatedAt)
	if err != nil {
		return nil, notFound(err, "journal entry", id)
	}

	rows, err := t.tx.Query(ctx, `
		SELECT jl.id, jl.entry_id, jl.account_id, a.code, a.name, a.account_type,
		       jl.debit, jl.credit, jl.description
		FROM journal_lines jl
		JOIN accounts a ON a.id = jl.account_id
		WHERE jl.entry_id = $1
		ORDER BY jl.id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	e.Lines = []core.JournalLine{}
	for rows.Next() {
		var l core.JournalLine
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.AccountCode, &l.AccountName,
			&l.AccountType, &l.Debit, &l.Credit, &l.Description); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		e.Lines = append(e.Lines, l)
	}
	return &e, rows.Err()
}

func (t *txStore) ListJournalEntries(ctx context.Context) ([]core.JournalEntrySummary, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT je.id, je.entry_date, je.reference, je.description, je.posted,
		       COALESCE(SUM(jl.debit), 0), COALESCE(SUM(jl.credit), 0)
		FROM journal_entries je
		LEFT JOIN journal_lines jl ON jl.entry_id = je.id
		GROUP BY je.id
		ORDER BY je.entry_date DESC, je.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []core.JournalEntrySummary{}
	for rows.Next() {
		var s core.JournalEntrySummary
		if err := rows.Scan(&s.ID, &s.EntryDate, &s.Reference, &s.Description, &s.Posted,
			&s.TotalDebit, &s.TotalCredit); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, s)
	}
	return entries, rows.Err()
}

// ApplyPosting increments balances in place. Callers pass deltas sorted by account id,
// so concurrent postings acquire account row locks in the same order.
func (t *txStore) ApplyPosting(ctx context.Context, entryID int64, deltas []core.BalanceDelta) error {
	for _, d := range deltas {
		tag, err := t.tx.Exec(ctx, "UPDATE accounts SET balance = balance + $1 WHERE id = $2", d.Amount, d.AccountID)
		if err != nil {
			return fmt.Errorf("failed to update balance of account %d: %w", d.AccountID, err)
		}
		if err := expectOne(tag, "account", d.AccountID); err != nil {
			return err
		}
	}
	tag, err := t.tx.Exec(ctx, "UPDATE journal_entries SET posted = TRUE WHERE id = $1 AND NOT posted", entryID)
	if err != nil {
		return fmt.Errorf("failed to mark entry %d posted: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %d", core.ErrAlreadyPosted, entryID)
	}
	return nil
}

func (t *txStore) PostedActivity(ctx context.Context, from, to *time.Time) ([]core.AccountActivity, error) {
	query := `
		SELECT jl.account_id, COALESCE(SUM(jl.debit), 0), COALESCE(SUM(jl.credit), 0)
		FROM journal_lines jl
		JOIN journal_entries je ON je.id = jl.entry_id
		WHERE je.posted`
	var args []any
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND je.entry_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND je.entry_date <= $%d", len(args))
	}
	query += " GROUP BY jl.account_id ORDER BY jl.account_id"

	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted activity: %w", err)
	}
	defer rows.Close()

	activity := []core.AccountActivity{}
	for rows.Next() {
		var a core.AccountActivity
		if err := rows.Scan(&a.AccountID, &a.Debit, &a.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan account activity: %w", err)
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}
