package plan

import (
	"github.com/bisegni/rowkit/pkg/cursor"
)

// Predicate decides whether the current row of a cursor is kept.
type Predicate[T cursor.Cursor] func(c T) bool

// Filter hides the rows of a base cursor that a predicate rejects.
type Filter[T cursor.Cursor] struct {
	base    T
	include Predicate[T]
}

// NewFilter returns a cursor over the rows of base accepted by include.
func NewFilter[T cursor.Cursor](base T, include Predicate[T]) *Filter[T] {
	return &Filter[T]{base: base, include: include}
}

// Next advances the base until include accepts a row or the base is
// exhausted. The predicate runs once for every row examined.
func (f *Filter[T]) Next() bool {
	for f.base.Next() {
		if f.include(f.base) {
			return true
		}
	}
	return false
}

func (f *Filter[T]) Underlying() T { return f.base }

func (f *Filter[T]) FieldCount() int { return f.base.FieldCount() }

func (f *Filter[T]) Value(i int) (any, error) { return f.base.Value(i) }

func (f *Filter[T]) ValueByName(name string) (any, error) { return f.base.ValueByName(name) }

func (f *Filter[T]) Name(i int) (string, error) { return f.base.Name(i) }

func (f *Filter[T]) Ordinal(name string) (int, error) { return f.base.Ordinal(name) }

func (f *Filter[T]) TypeTag(i int) (string, error) { return f.base.TypeTag(i) }

func (f *Filter[T]) DeclaredType(i int) (cursor.Kind, error) { return f.base.DeclaredType(i) }

func (f *Filter[T]) NextResultSet() bool { return f.base.NextResultSet() }

func (f *Filter[T]) Err() error { return f.base.Err() }

func (f *Filter[T]) Close() error { return f.base.Close() }

func (f *Filter[T]) ReadBytes(i int, offset int64, buf []byte) (int64, error) {
	return cursor.ReadBytes(f.base, i, offset, buf)
}

func (f *Filter[T]) ReadChars(i int, offset int64, buf []rune) (int64, error) {
	return cursor.ReadChars(f.base, i, offset, buf)
}

func (f *Filter[T]) SchemaTable() (cursor.Cursor, error) { return cursor.SchemaTable(f.base) }

var _ cursor.Wrapper[cursor.Cursor] = (*Filter[cursor.Cursor])(nil)
