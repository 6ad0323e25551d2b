package composite

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/bisegni/rowkit/pkg/cursor"
	"github.com/bisegni/rowkit/pkg/sequence"
)

// countingHandle records how often it is advanced and released.
type countingHandle struct {
	items    []any
	pos      int
	advances int
	closes   int
	err      error
}

func newCounting(items ...any) *countingHandle {
	return &countingHandle{items: items, pos: -1}
}

func (h *countingHandle) Next() bool {
	h.advances++
	if h.pos >= len(h.items) {
		return false
	}
	h.pos++
	return h.pos < len(h.items)
}

func (h *countingHandle) Current() any {
	if h.pos < 0 || h.pos >= len(h.items) {
		return nil
	}
	return h.items[h.pos]
}

func (h *countingHandle) Close() error {
	h.closes++
	return nil
}

func (h *countingHandle) Err() error { return h.err }

// countingSource opens countingHandles and remembers how many it opened.
type countingSource struct {
	id     sequence.SourceID
	items  []any
	opened []*countingHandle
}

func newCountingSource(items ...any) *countingSource {
	return &countingSource{id: sequence.NewSourceID(), items: items}
}

func (s *countingSource) ID() sequence.SourceID { return s.id }

func (s *countingSource) Open() sequence.Handle {
	h := newCounting(s.items...)
	s.opened = append(s.opened, h)
	return h
}

func drain(t *testing.T, c cursor.Cursor, name string) []any {
	t.Helper()
	var out []any
	for c.Next() {
		v, err := c.ValueByName(name)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func TestSetConstant(t *testing.T) {
	c := New()
	c.SetConstant("source", "batch-1", "nvarchar(50)", cursor.KindString)
	c.Bind("id", sequence.Of(1, 2), Identity, "int", cursor.KindInt64)

	require.Equal(t, 2, c.FieldCount())
	var got []any
	for c.Next() {
		v, err := c.Value(0)
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []any{"batch-1", "batch-1"}, got)

	tag, err := c.TypeTag(0)
	require.NoError(t, err)
	require.Equal(t, "nvarchar(50)", tag)
	kind, err := c.DeclaredType(1)
	require.NoError(t, err)
	require.Equal(t, cursor.KindInt64, kind)
}

func TestSharedSourceIsAdvancedOncePerRow(t *testing.T) {
	src := newCountingSource(1, 2, 3, 4)
	c := New()
	c.BindSource("a", src, Identity, "int", cursor.KindInt64)
	c.BindSource("b", src, Field(func(v int) any { return v * 10 }), "int", cursor.KindInt64)

	require.Len(t, src.opened, 1)
	require.Len(t, c.Handles(), 1)

	for row := 0; row < 3; row++ {
		require.True(t, c.Next())
		a, err := c.Value(0)
		require.NoError(t, err)
		b, err := c.Value(1)
		require.NoError(t, err)
		require.Equal(t, a.(int)*10, b)
	}
	require.Equal(t, 3, src.opened[0].advances)
}

func TestSharedHandleIsAdvancedOncePerRow(t *testing.T) {
	h := newCounting("x", "y")
	c := New()
	c.Bind("first", h, Identity, "char", cursor.KindString)
	c.Bind("second", h, Identity, "char", cursor.KindString)

	require.Equal(t, []any{"x", "y"}, drain(t, c, "second"))
	// two successful rows plus the exhausting call
	require.Equal(t, 3, h.advances)
}

func TestShortestSourceBoundsCursor(t *testing.T) {
	c := New()
	c.BindSource("short", sequence.FromSlice([]int{1, 2, 3}), Identity, "int", cursor.KindInt64)
	c.BindSource("long", sequence.FromSlice([]string{"a", "b", "c", "d", "e"}), Identity, "char", cursor.KindString)

	rows := 0
	for c.Next() {
		rows++
	}
	require.Equal(t, 3, rows)
	require.False(t, c.Next())
}

func TestNextAdvancesEveryHandle(t *testing.T) {
	short := newCounting(1)
	long := newCounting(1, 2, 3)
	c := New()
	c.Bind("short", short, Identity, "int", cursor.KindInt64)
	c.Bind("long", long, Identity, "int", cursor.KindInt64)

	require.True(t, c.Next())
	require.False(t, c.Next())
	require.Equal(t, 2, short.advances)
	require.Equal(t, 2, long.advances)
}

func TestRebindKeepsIndex(t *testing.T) {
	c := New()
	c.Bind("a", sequence.Of(1, 2), Identity, "int", cursor.KindInt64)
	c.Bind("b", sequence.Of("x", "y"), Identity, "char", cursor.KindString)
	c.SetConstant("a", true, "bit", cursor.KindBool)

	require.Equal(t, 2, c.FieldCount())
	i, err := c.Ordinal("a")
	require.NoError(t, err)
	require.Equal(t, 0, i)

	require.True(t, c.Next())
	v, err := c.Value(0)
	require.NoError(t, err)
	require.Equal(t, true, v)
	kind, err := c.DeclaredType(0)
	require.NoError(t, err)
	require.Equal(t, cursor.KindBool, kind)
}

func TestReclaimUnusedHandles(t *testing.T) {
	src := newCountingSource(1, 2, 3)
	stale := newCounting(10, 20)
	c := New()
	c.BindSource("a", src, Identity, "int", cursor.KindInt64)
	c.Bind("b", stale, Identity, "int", cursor.KindInt64)
	c.SetConstant("a", 0, "int", cursor.KindInt64)

	// the stale source handle is still registered until reclaimed
	require.Len(t, c.Handles(), 2)

	dropped := c.ReclaimUnusedHandles()
	require.Len(t, dropped, 1)
	require.Same(t, src.opened[0], dropped[0])
	require.Len(t, c.Handles(), 1)

	// the source mapping was forgotten, so binding again opens a new handle
	c.BindSource("c", src, Identity, "int", cursor.KindInt64)
	require.Len(t, src.opened, 2)

	require.True(t, c.Next())
	require.Equal(t, 0, src.opened[0].advances)
	require.Equal(t, 1, src.opened[1].advances)
	require.Equal(t, 1, stale.advances)
}

func TestUnknownColumns(t *testing.T) {
	c := New()
	c.SetConstant("a", 1, "int", cursor.KindInt64)

	_, err := c.Value(3)
	require.ErrorIs(t, err, cursor.ErrUnknownColumn)
	_, err = c.Name(-1)
	require.ErrorIs(t, err, cursor.ErrUnknownColumn)
	_, err = c.TypeTag(1)
	require.ErrorIs(t, err, cursor.ErrUnknownColumn)
	_, err = c.DeclaredType(1)
	require.ErrorIs(t, err, cursor.ErrUnknownColumn)
	_, err = c.Ordinal("missing")
	require.ErrorIs(t, err, cursor.ErrUnknownColumn)
	_, err = c.ValueByName("missing")
	require.ErrorIs(t, err, cursor.ErrUnknownColumn)
}

func TestUnsupportedOperations(t *testing.T) {
	c := New()
	_, err := cursor.ReadBytes(c, 0, 0, make([]byte, 4))
	require.ErrorIs(t, err, cursor.ErrNotImplemented)
	_, err = cursor.ReadChars(c, 0, 0, make([]rune, 4))
	require.ErrorIs(t, err, cursor.ErrNotImplemented)
	_, err = cursor.SchemaTable(c)
	require.ErrorIs(t, err, cursor.ErrNotImplemented)
	require.False(t, c.NextResultSet())
}

func TestTypedGetterMismatch(t *testing.T) {
	c := New()
	c.SetConstant("flag", "yes", "nvarchar(3)", cursor.KindString)
	require.True(t, c.Next())

	_, err := cursor.Bool(c, 0)
	var castErr *cursor.CastError
	require.ErrorAs(t, err, &castErr)
	require.Equal(t, "bool", castErr.Want)

	s, err := cursor.String(c, 0)
	require.NoError(t, err)
	require.Equal(t, "yes", s)
}

func TestFieldExtractorMismatch(t *testing.T) {
	c := New()
	c.Bind("n", sequence.Of("not a number"), Field(func(v int) any { return v }), "int", cursor.KindInt64)
	require.True(t, c.Next())

	_, err := c.Value(0)
	var castErr *cursor.CastError
	require.ErrorAs(t, err, &castErr)
	require.Equal(t, "int", castErr.Want)
}

func TestCloseReleasesSharedHandleOnce(t *testing.T) {
	src := newCountingSource(1, 2)
	c := New()
	c.BindSource("a", src, Identity, "int", cursor.KindInt64)
	c.BindSource("b", src, Identity, "int", cursor.KindInt64)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.Len(t, src.opened, 1)
	require.Equal(t, 1, src.opened[0].closes)
}

func TestClosedCursorHasNoRows(t *testing.T) {
	c := New()
	c.SetConstant("k", 1, "int", cursor.KindInt64)
	c.Bind("a", newCounting(1, 2, 3), Identity, "int", cursor.KindInt64)
	require.True(t, c.Next())

	require.NoError(t, c.Close())
	require.False(t, c.Next())
	require.False(t, c.Next())

	// Reset makes the cursor usable again
	require.NoError(t, c.Reset())
	c.SetConstant("k", 2, "int", cursor.KindInt64)
	require.True(t, c.Next())
}

func TestResetClearsColumns(t *testing.T) {
	h := newCounting(1, 2)
	c := New()
	c.Bind("a", h, Identity, "int", cursor.KindInt64)

	require.NoError(t, c.Reset())
	require.Equal(t, 1, h.closes)
	require.Equal(t, 0, c.FieldCount())
	require.Empty(t, c.Handles())
	_, err := c.Ordinal("a")
	require.ErrorIs(t, err, cursor.ErrUnknownColumn)
}

func TestErrReportsHandleError(t *testing.T) {
	h := newCounting(1)
	h.err = errors.New("decode failed")
	c := New()
	c.Bind("a", h, Identity, "int", cursor.KindInt64)
	require.EqualError(t, c.Err(), "decode failed")
}

func TestRowsFollowShortestHandle(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lengths := rapid.SliceOfN(rapid.IntRange(0, 8), 1, 4).Draw(t, "lengths")

		c := New()
		handles := make([]*countingHandle, len(lengths))
		shortest := lengths[0]
		for i, n := range lengths {
			items := make([]any, n)
			for j := range items {
				items[j] = i*100 + j
			}
			handles[i] = newCounting(items...)
			c.Bind(fmt.Sprintf("c%d", i), handles[i], Identity, "int", cursor.KindInt64)
			shortest = min(shortest, n)
		}

		rows := 0
		for c.Next() {
			for i := range lengths {
				v, err := c.Value(i)
				if err != nil {
					t.Fatalf("value %d: %v", i, err)
				}
				if v != i*100+rows {
					t.Fatalf("column %d row %d: got %v", i, rows, v)
				}
			}
			rows++
		}
		if rows != shortest {
			t.Fatalf("got %d rows, want %d", rows, shortest)
		}
		for i, h := range handles {
			if h.advances != shortest+1 {
				t.Fatalf("handle %d advanced %d times, want %d", i, h.advances, shortest+1)
			}
		}
	})
}
