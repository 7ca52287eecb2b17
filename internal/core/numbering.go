package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SequenceKind identifies an independent document number sequence. The value is the prefix.
type SequenceKind string

const (
	SeqSalesOrder    SequenceKind = "SO"
	SeqPurchaseOrder SequenceKind = "PO"
	SeqInvoice       SequenceKind = "INV"
	SeqEmployee      SequenceKind = "EMP"
)

// numberingAttempts bounds how often a unit of work is re-run after a number collision.
const numberingAttempts = 3

// NextNumber returns the identifier following latest in the PREFIX-NNNN sequence.
// An empty latest starts the sequence at PREFIX-0001. The numeric part is zero-padded
// to four digits and widens past 9999.
func NextNumber(prefix, latest string) (string, error) {
	if latest == "" {
		return fmt.Sprintf("%s-%04d", prefix, 1), nil
	}
	i := strings.LastIndex(latest, "-")
	if i < 0 || i == len(latest)-1 {
		return "", fmt.Errorf("malformed document number %q", latest)
	}
	n, err := strconv.Atoi(latest[i+1:])
	if err != nil || n < 0 {
		return "", fmt.Errorf("malformed document number %q", latest)
	}
	return fmt.Sprintf("%s-%04d", prefix, n+1), nil
}

// nextNumber allocates the next identifier for kind inside tx. Stores serialize callers
// per kind for the lifetime of tx.
func nextNumber(ctx context.Context, tx Tx, kind SequenceKind) (string, error) {
	latest, err := tx.LatestNumber(ctx, kind)
	if err != nil {
		return "", fmt.Errorf("failed to read latest %s number: %w", kind, err)
	}
	return NextNumber(string(kind), latest)
}

// withNumbering runs fn in a write transaction and re-runs it when the generated
// number lost a race against another writer.
func withNumbering(ctx context.Context, store Store, fn func(tx Tx) error) error {
	var err error
	for attempt := 0; attempt < numberingAttempts; attempt++ {
		err = store.WithinTx(ctx, fn)
		if !errors.Is(err, ErrNumberTaken) {
			return err
		}
	}
	return err
}
