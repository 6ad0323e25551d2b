// Package wrap provides pass-through cursor decorators: null translation,
// call tracing and per-row action injection.
package wrap

import (
	"github.com/bisegni/rowkit/pkg/cursor"
)

// NullMapper rewrites the values read from a base cursor and forwards every
// other call unchanged.
type NullMapper struct {
	cursor.Cursor
	mapValue func(any) any
}

// DBNullsToNil reports cursor.DBNull values of c as nil.
func DBNullsToNil(c cursor.Cursor) *NullMapper {
	return &NullMapper{Cursor: c, mapValue: func(v any) any {
		if v == cursor.DBNull {
			return nil
		}
		return v
	}}
}

// NilToDBNulls reports nil values of c as cursor.DBNull.
func NilToDBNulls(c cursor.Cursor) *NullMapper {
	return &NullMapper{Cursor: c, mapValue: func(v any) any {
		if v == nil {
			return cursor.DBNull
		}
		return v
	}}
}

func (m *NullMapper) Underlying() cursor.Cursor { return m.Cursor }

func (m *NullMapper) Value(i int) (any, error) {
	v, err := m.Cursor.Value(i)
	if err != nil {
		return nil, err
	}
	return m.mapValue(v), nil
}

func (m *NullMapper) ValueByName(name string) (any, error) {
	v, err := m.Cursor.ValueByName(name)
	if err != nil {
		return nil, err
	}
	return m.mapValue(v), nil
}

var _ cursor.Wrapper[cursor.Cursor] = (*NullMapper)(nil)
