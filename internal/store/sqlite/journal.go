package sqlite

import (
	"context"
	"fmt"
	"time"

	"erp-core/internal/core"

	"github.com/shopspring/decimal"
)

func (t *txStore) InsertJournalEntry(ctx context.Context, e *core.JournalEntry) error {
	createdAt := now()
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO journal_entries (entry_date, reference, description, posted, created_at)
		VALUES (?, ?, ?, 0, ?)`,
		formatDate(e.EntryDate), e.Reference, e.Description, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	e.Posted = false
	e.CreatedAt = parseTimestamp(createdAt)

	for i := range e.Lines {
		l := &e.Lines[i]
		res, err := t.tx.ExecContext(ctx, `
			INSERT INTO journal_lines (entry_id, account_id, debit, credit, description)
			VALUES (?, ?, ?, ?, ?)`,
			e.ID, l.AccountID, l.Debit, l.Credit, l.Description)
		if err != nil {
			return fmt.Errorf("failed to insert journal line %d: %w", i+1, err)
		}
		if l.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		l.EntryID = e.ID
	}
	return nil
}

func (t *txStore) GetJournalEntry(ctx context.Context, id int64) (*core.JournalEntry, error) {
	var e core.JournalEntry
	var entryDate, createdAt string
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, entry_date, reference, description, posted, created_at
		FROM journal_entries WHERE id = ?`, id).
		Scan(&e.ID, &entryDate, &e.Reference, &e.Description, &e.Posted, &createdAt)
	if err != nil {
		return nil, notFound(err, "journal entry", id)
	}
	if e.EntryDate, err = parseDate(entryDate); err != nil {
		return nil, err
	}
	e.CreatedAt = parseTimestamp(createdAt)

	rows, err := t.tx.QueryContext(ctx, `
		SELECT jl.id, jl.entry_id, jl.account_id, a.code, a.name, a.account_type,
		       jl.debit, jl.credit, jl.description
		FROM journal_lines jl
		JOIN accounts a ON a.id = jl.account_id
		WHERE jl.entry_id = ?
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
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, entry_date, reference, description, posted
		FROM journal_entries ORDER BY entry_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	entries := []core.JournalEntrySummary{}
	index := make(map[int64]int)
	for rows.Next() {
		var s core.JournalEntrySummary
		var entryDate string
		if err := rows.Scan(&s.ID, &entryDate, &s.Reference, &s.Description, &s.Posted); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		if s.EntryDate, err = parseDate(entryDate); err != nil {
			rows.Close()
			return nil, err
		}
		s.TotalDebit, s.TotalCredit = decimal.Zero, decimal.Zero
		index[s.ID] = len(entries)
		entries = append(entries, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Amounts are TEXT, so totals are summed here rather than with SUM().
	lines, err := t.tx.QueryContext(ctx, "SELECT entry_id, debit, credit FROM journal_lines")
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer lines.Close()
	for lines.Next() {
		var entryID int64
		var debit, credit decimal.Decimal
		if err := lines.Scan(&entryID, &debit, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		if i, ok := index[entryID]; ok {
			entries[i].TotalDebit = entries[i].TotalDebit.Add(debit)
			entries[i].TotalCredit = entries[i].TotalCredit.Add(credit)
		}
	}
	return entries, lines.Err()
}

func (t *txStore) ApplyPosting(ctx context.Context, entryID int64, deltas []core.BalanceDelta) error {
	for _, d := range deltas {
		var balance decimal.Decimal
		if err := t.tx.QueryRowContext(ctx, "SELECT balance FROM accounts WHERE id = ?", d.AccountID).Scan(&balance); err != nil {
			return notFound(err, "account", d.AccountID)
		}
		if _, err := t.tx.ExecContext(ctx, "UPDATE accounts SET balance = ? WHERE id = ?",
			balance.Add(d.Amount), d.AccountID); err != nil {
			return fmt.Errorf("failed to update balance of account %d: %w", d.AccountID, err)
		}
	}
	res, err := t.tx.ExecContext(ctx, "UPDATE journal_entries SET posted = 1 WHERE id = ? AND posted = 0", entryID)
	if err != nil {
		return fmt.Errorf("failed to mark entry %d posted: %w", entryID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: entry %d", core.ErrAlreadyPosted, entryID)
	}
	return nil
}

func (t *txStore) PostedActivity(ctx context.Context, from, to *time.Time) ([]core.AccountActivity, error) {
	query := `
		SELECT jl.account_id, jl.debit, jl.credit
		FROM journal_lines jl
		JOIN journal_entries je ON je.id = jl.entry_id
		WHERE je.posted = 1`
	var args []any
	if from != nil {
		query += " AND je.entry_date >= ?"
		args = append(args, formatDate(*from))
	}
	if to != nil {
		query += " AND je.entry_date <= ?"
		args = append(args, formatDate(*to))
	}
	query += " ORDER BY jl.account_id"

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted activity: %w", err)
	}
	defer rows.Close()

	activity := []core.AccountActivity{}
	for rows.Next() {
		var accountID int64
		var debit, credit decimal.Decimal
		if err := rows.Scan(&accountID, &debit, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		if n := len(activity); n > 0 && activity[n-1].AccountID == accountID {
			activity[n-1].Debit = activity[n-1].Debit.Add(debit)
			activity[n-1].Credit = activity[n-1].Credit.Add(credit)
			continue
		}
		activity = append(activity, core.AccountActivity{AccountID: accountID, Debit: debit, Credit: credit})
	}
	return activity, rows.Err()
}
