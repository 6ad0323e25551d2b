package composite

import (
	"github.com/hashicorp/go-multierror"

	"github.com/bisegni/rowkit/pkg/cursor"
	log "github.com/bisegni/rowkit/pkg/logging"
)

// Overlay extends an existing cursor with additional columns.
//
// The base columns keep their indices 0..N-1 and overlay columns follow
// them. Any index the overlay does not own is answered by the base cursor.
// Moving the base to a new result set drops every overlay column.
type Overlay[T cursor.Cursor] struct {
	*Cursor

	base       T
	baseFields int
	err        error
}

// NewOverlay returns an Overlay over base with no additional columns.
func NewOverlay[T cursor.Cursor](base T) (*Overlay[T], error) {
	o := &Overlay[T]{Cursor: New(), base: base}
	if err := o.reserveBase(); err != nil {
		return nil, err
	}
	return o, nil
}

// reserveBase walks the base columns from last to first so that a name
// repeated in the base resolves to its lowest index.
func (o *Overlay[T]) reserveBase() error {
	n := o.base.FieldCount()
	for i := n - 1; i >= 0; i-- {
		name, err := o.base.Name(i)
		if err != nil {
			return err
		}
		o.names[name] = i
	}
	o.slots = n
	o.baseFields = n
	return nil
}

// AddComputed registers a column computed from the live base cursor each
// time it is read. Using the name of a base column overlays it in place.
func (o *Overlay[T]) AddComputed(name string, fn func(base T) (any, error), typeTag string, kind cursor.Kind) {
	o.addColumn(name, nil, func(any) (any, error) { return fn(o.base) }, typeTag, kind)
}

// Underlying returns the base cursor.
func (o *Overlay[T]) Underlying() T { return o.base }

// Reset drops the overlay columns and handles and re-reads the base shape.
func (o *Overlay[T]) Reset() error {
	err := o.Cursor.Reset()
	if rerr := o.reserveBase(); rerr != nil {
		err = multierror.Append(err, rerr)
	}
	return err
}

func (o *Overlay[T]) own(i int) (*column, bool) {
	col, ok := o.columns[i]
	return col, ok
}

func (o *Overlay[T]) inBase(i int) bool { return i >= 0 && i < o.baseFields }

func (o *Overlay[T]) Value(i int) (any, error) {
	if col, ok := o.own(i); ok {
		return col.value()
	}
	if o.inBase(i) {
		return o.base.Value(i)
	}
	return nil, cursor.UnknownIndex(i)
}

func (o *Overlay[T]) ValueByName(name string) (any, error) {
	i, err := o.Ordinal(name)
	if err != nil {
		return nil, err
	}
	return o.Value(i)
}

func (o *Overlay[T]) Name(i int) (string, error) {
	if col, ok := o.own(i); ok {
		return col.name, nil
	}
	if o.inBase(i) {
		return o.base.Name(i)
	}
	return "", cursor.UnknownIndex(i)
}

func (o *Overlay[T]) TypeTag(i int) (string, error) {
	if col, ok := o.own(i); ok {
		return col.typeTag, nil
	}
	if o.inBase(i) {
		return o.base.TypeTag(i)
	}
	return "", cursor.UnknownIndex(i)
}

func (o *Overlay[T]) DeclaredType(i int) (cursor.Kind, error) {
	if col, ok := o.own(i); ok {
		return col.kind, nil
	}
	if o.inBase(i) {
		return o.base.DeclaredType(i)
	}
	return cursor.KindAny, cursor.UnknownIndex(i)
}

// Next advances the base cursor and the overlay's own handles. Both sides
// are always advanced, even once one of them is exhausted.
func (o *Overlay[T]) Next() bool {
	baseOK := o.base.Next()
	ownOK := o.Cursor.Next()
	return baseOK && ownOK
}

// NextResultSet advances the base cursor to its next result set and, when
// there is one, resets the overlay columns to match the new base shape.
func (o *Overlay[T]) NextResultSet() bool {
	if !o.base.NextResultSet() {
		return false
	}
	if err := o.Reset(); err != nil {
		log.Warn().Err(err).Msg("failed to reset overlay columns")
		o.err = err
	}
	return true
}

func (o *Overlay[T]) Err() error {
	if o.err != nil {
		return o.err
	}
	if err := o.Cursor.Err(); err != nil {
		return err
	}
	return o.base.Err()
}

// Close releases the overlay handles and then the base cursor.
func (o *Overlay[T]) Close() error {
	var result error
	if err := o.Cursor.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := o.base.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}

var _ cursor.Wrapper[cursor.Cursor] = (*Overlay[cursor.Cursor])(nil)
