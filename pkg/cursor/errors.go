package cursor

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when an index or name was never registered.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNotImplemented is returned by cursors that do not support an operation,
	// such as ranged binary reads.
	ErrNotImplemented = errors.New("not implemented")
)

// UnknownIndex returns an ErrUnknownColumn for index i.
func UnknownIndex(i int) error {
	return fmt.Errorf("%w: index %d", ErrUnknownColumn, i)
}

// UnknownName returns an ErrUnknownColumn for the named column.
func UnknownName(name string) error {
	return fmt.Errorf("%w: '%s'", ErrUnknownColumn, name)
}

// CastError reports a value whose dynamic type does not match the one requested.
type CastError struct {
	Column int
	Want   string
	Value  any
}

func (e *CastError) Error() string {
	if e.Column < 0 {
		return fmt.Sprintf("cannot use %T as %s", e.Value, e.Want)
	}
	return fmt.Sprintf("column %d: cannot use %T as %s", e.Column, e.Value, e.Want)
}
