package core

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by a service wraps exactly one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrState      = errors.New("invalid state")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrMissingField    = fmt.Errorf("%w: missing required field", ErrValidation)
	ErrInvalidType     = fmt.Errorf("%w: invalid account type", ErrValidation)
	ErrEmptyEntry      = fmt.Errorf("%w: journal entry has no non-zero lines", ErrValidation)
	ErrUnbalanced      = fmt.Errorf("%w: journal entry is unbalanced", ErrValidation)
	ErrInvalidQuantity = fmt.Errorf("%w: invalid quantity", ErrValidation)
	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrValidation)

	ErrDuplicateCode = fmt.Errorf("%w: duplicate account code", ErrConflict)
	ErrDuplicateSKU  = fmt.Errorf("%w: duplicate sku", ErrConflict)
	ErrAlreadyPosted = fmt.Errorf("%w: journal entry already posted", ErrConflict)
	ErrAlreadyPaid   = fmt.Errorf("%w: invoice already paid", ErrConflict)
	// ErrNumberTaken is returned by stores when a generated document number collides
	// with an existing row. Services retry the unit of work.
	ErrNumberTaken = fmt.Errorf("%w: document number already taken", ErrConflict)

	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrState)
)

// TransitionError reports an event that the current status of a document does not accept.
type TransitionError struct {
	Entity string
	ID     int64
	Number string
	From   string
	Event  Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s (id %d) cannot %s: status is %s", e.Entity, e.Number, e.ID, e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

func notFound(entity string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
}

// Class returns the name of the error class err belongs to, or "internal".
func Class(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrState):
		return "state"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "internal"
}
