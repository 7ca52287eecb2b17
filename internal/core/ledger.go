package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// JournalLineInput is one caller-supplied line of a new journal entry.
type JournalLineInput struct {
	AccountID   int64
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

type JournalEntryInput struct {
	EntryDate   time.Time
	Reference   string
	Description string
	Lines       []JournalLineInput
}

// Ledger creates and posts journal entries. PostEntry is the only path in the system
// that changes account balances.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// CreateEntry validates and stores an unposted entry. Lines with both sides zero are
// dropped before validation.
func (l *Ledger) CreateEntry(ctx context.Context, in JournalEntryInput) (*JournalEntry, error) {
	if in.EntryDate.IsZero() {
		return nil, missing("entry_date")
	}

	var lines []JournalLine
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i, li := range in.Lines {
		if li.Debit.IsZero() && li.Credit.IsZero() {
			continue
		}
		if li.Debit.IsNegative() || li.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative amount", ErrInvalidAmount, i+1)
		}
		if li.AccountID <= 0 {
			return nil, fmt.Errorf("%w: line %d account", ErrMissingField, i+1)
		}
		lines = append(lines, JournalLine{
			AccountID:   li.AccountID,
			Debit:       li.Debit,
			Credit:      li.Credit,
			Description: strings.TrimSpace(li.Description),
		})
		totalDebit = totalDebit.Add(li.Debit)
		totalCredit = totalCredit.Add(li.Credit)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyEntry
	}
	if !Balanced(totalDebit, totalCredit) {
		return nil, fmt.Errorf("%w: debits %s, credits %s", ErrUnbalanced,
			RoundMoney(totalDebit).StringFixed(2), RoundMoney(totalCredit).StringFixed(2))
	}

	entry := &JournalEntry{
		EntryDate:   in.EntryDate,
		Reference:   strings.TrimSpace(in.Reference),
		Description: strings.TrimSpace(in.Description),
		Lines:       lines,
	}
	err := l.store.WithinTx(ctx, func(tx Tx) error {
		for i := range entry.Lines {
			a, err := tx.GetAccount(ctx, entry.Lines[i].AccountID)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			entry.Lines[i].AccountCode = a.Code
			entry.Lines[i].AccountName = a.Name
			entry.Lines[i].AccountType = a.Type
		}
		return tx.InsertJournalEntry(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PostEntry applies the entry to account balances and marks it posted, both in one
// transaction. Asset and expense accounts move by debit − credit, all others by
// credit − debit. An entry can be posted once and never unposted.
func (l *Ledger) PostEntry(ctx context.Context, entryID int64) (*JournalEntry, error) {
	var entry *JournalEntry
	err := l.store.WithinTx(ctx, func(tx Tx) error {
		e, err := tx.GetJournalEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if e.Posted {
			return fmt.Errorf("%w: entry %d", ErrAlreadyPosted, entryID)
		}

		if err := tx.ApplyPosting(ctx, e.ID, postingDeltas(e.Lines)); err != nil {
			return fmt.Errorf("failed to post entry %d: %w", entryID, err)
		}
		e.Posted = true
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// postingDeltas nets the lines of an entry per account. Deltas are ordered by account
// id so concurrent postings lock balances in the same order.
func postingDeltas(lines []JournalLine) []BalanceDelta {
	byAccount := make(map[int64]decimal.Decimal)
	for _, line := range lines {
		byAccount[line.AccountID] = byAccount[line.AccountID].Add(line.AccountType.BalanceDelta(line.Debit, line.Credit))
	}
	deltas := make([]BalanceDelta, 0, len(byAccount))
	for id, amount := range byAccount {
		deltas = append(deltas, BalanceDelta{AccountID: id, Amount: amount})
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].AccountID < deltas[j].AccountID })
	return deltas
}

func (l *Ledger) GetEntry(ctx context.Context, entryID int64) (*JournalEntry, error) {
	var entry *JournalEntry
	err := l.store.View(ctx, func(tx Tx) error {
		var err error
		entry, err = tx.GetJournalEntry(ctx, entryID)
		return err
	})
	return entry, err
}

// ListEntries returns entry headers newest first with their debit and credit totals.
func (l *Ledger) ListEntries(ctx context.Context) ([]JournalEntrySummary, error) {
	var entries []JournalEntrySummary
	err := l.store.View(ctx, func(tx Tx) error {
		var err error
		entries, err = tx.ListJournalEntries(ctx)
		return err
	})
	return entries, err
}
