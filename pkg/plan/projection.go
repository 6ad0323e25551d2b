package plan

import (
	"fmt"

	"github.com/bisegni/rowkit/pkg/cursor"
	log "github.com/bisegni/rowkit/pkg/logging"
)

// Unmapped marks an output slot that has no input column.
const Unmapped = -1

// Projection exposes a reordered and truncated view of a base cursor.
//
// The visible columns are the run of mapped input columns starting at input
// index 0. The first input column left unmapped ends the view, and every
// column after it stays hidden even when it is mapped. Output slots below
// the visible count must all be mapped.
type Projection struct {
	base    cursor.Cursor
	outToIn []int
	visible int
}

// NewProjection returns a projection of base. mapping[out] is the input index
// shown at output index out, or Unmapped to drop that slot.
func NewProjection(base cursor.Cursor, mapping []int) (*Projection, error) {
	n := base.FieldCount()
	inToOut := make([]int, n)
	for i := range inToOut {
		inToOut[i] = Unmapped
	}
	for out, in := range mapping {
		if in == Unmapped {
			continue
		}
		if in < 0 || in >= n {
			return nil, fmt.Errorf("projection of output %d: %w", out, cursor.UnknownIndex(in))
		}
		inToOut[in] = out
	}

	visible := 0
	for visible < n && inToOut[visible] != Unmapped {
		visible++
	}
	for out := 0; out < visible; out++ {
		if out >= len(mapping) || mapping[out] == Unmapped {
			return nil, fmt.Errorf("projection of output %d: unmapped slot within %d visible columns", out, visible)
		}
	}
	if visible < n {
		log.Debug().Int("visible", visible).Int("base", n).Msg("projection truncated at first unmapped input column")
	}

	return &Projection{
		base:    base,
		outToIn: append([]int(nil), mapping...),
		visible: visible,
	}, nil
}

// Identity returns a mapping showing the first n columns in their own order.
func Identity(n int) []int {
	mapping := make([]int, n)
	for i := range mapping {
		mapping[i] = i
	}
	return mapping
}

func (p *Projection) input(out int) (int, error) {
	if out < 0 || out >= p.visible || out >= len(p.outToIn) || p.outToIn[out] == Unmapped {
		return Unmapped, cursor.UnknownIndex(out)
	}
	return p.outToIn[out], nil
}

func (p *Projection) Underlying() cursor.Cursor { return p.base }

func (p *Projection) FieldCount() int { return p.visible }

func (p *Projection) Value(i int) (any, error) {
	in, err := p.input(i)
	if err != nil {
		return nil, err
	}
	return p.base.Value(in)
}

// ValueByName reads the named column from the base without remapping.
func (p *Projection) ValueByName(name string) (any, error) { return p.base.ValueByName(name) }

func (p *Projection) Name(i int) (string, error) {
	in, err := p.input(i)
	if err != nil {
		return "", err
	}
	return p.base.Name(in)
}

// Ordinal reports the base index of the named column.
func (p *Projection) Ordinal(name string) (int, error) { return p.base.Ordinal(name) }

func (p *Projection) TypeTag(i int) (string, error) {
	in, err := p.input(i)
	if err != nil {
		return "", err
	}
	return p.base.TypeTag(in)
}

func (p *Projection) DeclaredType(i int) (cursor.Kind, error) {
	in, err := p.input(i)
	if err != nil {
		return cursor.KindAny, err
	}
	return p.base.DeclaredType(in)
}

func (p *Projection) ReadBytes(i int, offset int64, buf []byte) (int64, error) {
	in, err := p.input(i)
	if err != nil {
		return 0, err
	}
	return cursor.ReadBytes(p.base, in, offset, buf)
}

func (p *Projection) ReadChars(i int, offset int64, buf []rune) (int64, error) {
	in, err := p.input(i)
	if err != nil {
		return 0, err
	}
	return cursor.ReadChars(p.base, in, offset, buf)
}

func (p *Projection) Next() bool { return p.base.Next() }

func (p *Projection) NextResultSet() bool { return p.base.NextResultSet() }

func (p *Projection) Err() error { return p.base.Err() }

func (p *Projection) Close() error { return p.base.Close() }

var (
	_ cursor.Wrapper[cursor.Cursor] = (*Projection)(nil)
	_ cursor.RangeReader            = (*Projection)(nil)
)
