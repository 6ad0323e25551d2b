// Package composite implements cursors whose rows are assembled from named
// columns, each bound to a constant or to one of several independently
// advancing sequence handles.
//
// A Cursor advances every registered handle once per row and stops as soon
// as any of them is exhausted, so the shortest bound sequence determines the
// number of rows. Columns bound to the same handle (or to the same
// sequence.Source) share one iteration position.
package composite

import (
	"io"
	"reflect"

	"github.com/hashicorp/go-multierror"

	"github.com/bisegni/rowkit/pkg/cursor"
	log "github.com/bisegni/rowkit/pkg/logging"
	"github.com/bisegni/rowkit/pkg/sequence"
)

// Extractor maps the current element of a column's handle to the column value.
type Extractor func(elem any) (any, error)

// Identity returns the element unchanged.
func Identity(elem any) (any, error) { return elem, nil }

// Field adapts a typed function into an Extractor. Elements of another type
// produce a *cursor.CastError.
func Field[T any](fn func(T) any) Extractor {
	return func(elem any) (any, error) {
		t, ok := elem.(T)
		if !ok {
			return nil, &cursor.CastError{Column: -1, Want: reflect.TypeFor[T]().String(), Value: elem}
		}
		return fn(t), nil
	}
}

type column struct {
	name    string
	handle  sequence.Handle
	extract Extractor
	typeTag string
	kind    cursor.Kind
}

func (col *column) value() (any, error) {
	var elem any
	if col.handle != nil {
		elem = col.handle.Current()
	}
	return col.extract(elem)
}

// Cursor is a row cursor assembled from registered columns.
//
// Handles passed to Bind must be comparable values (pointer types in
// practice) since the registry is keyed on them.
type Cursor struct {
	names   map[string]int
	slots   int
	columns map[int]*column

	handles []sequence.Handle
	present map[sequence.Handle]struct{}
	sources map[sequence.SourceID]sequence.Handle
	closed  bool
}

// New returns an empty Cursor.
func New() *Cursor {
	c := &Cursor{}
	c.clear()
	return c
}

func (c *Cursor) clear() {
	c.names = make(map[string]int)
	c.slots = 0
	c.columns = make(map[int]*column)
	c.handles = nil
	c.present = make(map[sequence.Handle]struct{})
	c.sources = make(map[sequence.SourceID]sequence.Handle)
	c.closed = false
}

func (c *Cursor) addColumn(name string, h sequence.Handle, extract Extractor, typeTag string, kind cursor.Kind) int {
	idx, ok := c.names[name]
	if !ok {
		idx = c.slots
		c.names[name] = idx
		c.slots++
	}
	c.columns[idx] = &column{name: name, handle: h, extract: extract, typeTag: typeTag, kind: kind}
	return idx
}

func (c *Cursor) register(h sequence.Handle) {
	if _, ok := c.present[h]; ok {
		return
	}
	c.present[h] = struct{}{}
	c.handles = append(c.handles, h)
}

// SetConstant binds name to value for every row.
func (c *Cursor) SetConstant(name string, value any, typeTag string, kind cursor.Kind) {
	c.addColumn(name, nil, func(any) (any, error) { return value, nil }, typeTag, kind)
}

// Bind binds name to the current element of h, mapped through extract.
// Rebinding an existing name keeps its index.
func (c *Cursor) Bind(name string, h sequence.Handle, extract Extractor, typeTag string, kind cursor.Kind) {
	if h != nil {
		c.register(h)
	}
	c.addColumn(name, h, extract, typeTag, kind)
}

// BindSource binds name to a handle opened from src. The first binding of a
// given source opens it; later bindings reuse that handle wherever it stands.
func (c *Cursor) BindSource(name string, src sequence.Source, extract Extractor, typeTag string, kind cursor.Kind) {
	h, ok := c.sources[src.ID()]
	if !ok {
		h = src.Open()
		c.sources[src.ID()] = h
	}
	c.Bind(name, h, extract, typeTag, kind)
}

// ReclaimUnusedHandles rebuilds the handle registry from the handles the
// columns still reference and forgets sources whose handle is no longer used.
// The dropped handles are returned unreleased.
func (c *Cursor) ReclaimUnusedHandles() []sequence.Handle {
	used := make(map[sequence.Handle]struct{})
	var handles []sequence.Handle
	for i := 0; i < c.slots; i++ {
		col, ok := c.columns[i]
		if !ok || col.handle == nil {
			continue
		}
		if _, seen := used[col.handle]; !seen {
			used[col.handle] = struct{}{}
			handles = append(handles, col.handle)
		}
	}

	var dropped []sequence.Handle
	for _, h := range c.handles {
		if _, ok := used[h]; !ok {
			dropped = append(dropped, h)
		}
	}

	for id, h := range c.sources {
		if _, ok := used[h]; !ok {
			delete(c.sources, id)
		}
	}

	c.handles = handles
	c.present = used
	log.Debug().Int("handles", len(handles)).Int("dropped", len(dropped)).Msg("reclaimed sequence handles")
	return dropped
}

// Reset releases every registered handle and removes all columns.
func (c *Cursor) Reset() error {
	err := c.Close()
	c.clear()
	log.Debug().Msg("composite cursor reset")
	return err
}

// Handles returns the registered handles in registration order.
func (c *Cursor) Handles() []sequence.Handle {
	return append([]sequence.Handle(nil), c.handles...)
}

func (c *Cursor) FieldCount() int { return c.slots }

func (c *Cursor) column(i int) (*column, error) {
	col, ok := c.columns[i]
	if !ok {
		return nil, cursor.UnknownIndex(i)
	}
	return col, nil
}

func (c *Cursor) Value(i int) (any, error) {
	col, err := c.column(i)
	if err != nil {
		return nil, err
	}
	return col.value()
}

func (c *Cursor) ValueByName(name string) (any, error) {
	i, err := c.Ordinal(name)
	if err != nil {
		return nil, err
	}
	return c.Value(i)
}

func (c *Cursor) Name(i int) (string, error) {
	col, err := c.column(i)
	if err != nil {
		return "", err
	}
	return col.name, nil
}

func (c *Cursor) Ordinal(name string) (int, error) {
	i, ok := c.names[name]
	if !ok {
		return -1, cursor.UnknownName(name)
	}
	return i, nil
}

func (c *Cursor) TypeTag(i int) (string, error) {
	col, err := c.column(i)
	if err != nil {
		return "", err
	}
	return col.typeTag, nil
}

func (c *Cursor) DeclaredType(i int) (cursor.Kind, error) {
	col, err := c.column(i)
	if err != nil {
		return cursor.KindAny, err
	}
	return col.kind, nil
}

// Next advances every registered handle exactly once and reports whether all
// of them produced an element. A closed cursor has no rows.
func (c *Cursor) Next() bool {
	if c.closed {
		return false
	}
	ok := true
	for _, h := range c.handles {
		if !h.Next() {
			ok = false
		}
	}
	return ok
}

// NextResultSet always reports false: a plain Cursor has a single result set.
func (c *Cursor) NextResultSet() bool { return false }

func (c *Cursor) Err() error {
	for _, h := range c.handles {
		if e, ok := h.(interface{ Err() error }); ok {
			if err := e.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases each registered handle that implements io.Closer once.
// Calling Close again is a no-op. Reset reopens the cursor for new columns.
func (c *Cursor) Close() error {
	var result error
	for _, h := range c.handles {
		if closer, ok := h.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	c.handles = nil
	c.present = make(map[sequence.Handle]struct{})
	c.sources = make(map[sequence.SourceID]sequence.Handle)
	c.closed = true
	return result
}

func (c *Cursor) ReadBytes(int, int64, []byte) (int64, error) { return 0, cursor.ErrNotImplemented }

func (c *Cursor) ReadChars(int, int64, []rune) (int64, error) { return 0, cursor.ErrNotImplemented }

func (c *Cursor) SchemaTable() (cursor.Cursor, error) { return nil, cursor.ErrNotImplemented }

var (
	_ cursor.Cursor       = (*Cursor)(nil)
	_ cursor.RangeReader  = (*Cursor)(nil)
	_ cursor.SchemaReader = (*Cursor)(nil)
)
