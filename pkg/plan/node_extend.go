package plan

import (
	"fmt"
	"strings"

	"github.com/bisegni/rowkit/pkg/composite"
	"github.com/bisegni/rowkit/pkg/cursor"
	"github.com/bisegni/rowkit/pkg/query"
	"github.com/bisegni/rowkit/pkg/sequence"
)

// ExtendColumn is a column computed from the current row of the input.
type ExtendColumn struct {
	Name    string
	Operand query.Operand
}

// ExtendNode appends computed columns and an optional row number column
// to its input. Row numbers restart at 1 in every result set.
type ExtendNode struct {
	Input     Node
	Columns   []ExtendColumn
	RowNumber string
}

func (n *ExtendNode) Open() (cursor.Cursor, error) {
	in, err := n.Input.Open()
	if err != nil {
		return nil, err
	}
	o, err := composite.NewOverlay(in)
	if err != nil {
		in.Close()
		return nil, err
	}
	n.apply(o)
	return &extendCursor{Overlay: o, apply: n.apply}, nil
}

func (n *ExtendNode) apply(o *composite.Overlay[cursor.Cursor]) {
	for _, col := range n.Columns {
		op := col.Operand
		kind := op.Kind()
		o.AddComputed(col.Name, func(base cursor.Cursor) (any, error) {
			return op.Eval(query.CursorGetter(base, nil))
		}, kind.TypeTag(), kind)
	}
	if n.RowNumber != "" {
		o.Bind(n.RowNumber, sequence.Counter(1), composite.Identity, cursor.KindInt64.TypeTag(), cursor.KindInt64)
	}
}

func (n *ExtendNode) Children() []Node {
	return []Node{n.Input}
}

func (n *ExtendNode) Explain() string {
	parts := make([]string, 0, len(n.Columns)+1)
	for _, col := range n.Columns {
		parts = append(parts, col.Name+" = "+col.Operand.String())
	}
	if n.RowNumber != "" {
		parts = append(parts, n.RowNumber+" = ROWNUM()")
	}
	return fmt.Sprintf("Extend(%s)", strings.Join(parts, ", "))
}

// extendCursor registers the extension columns again every time the
// overlay moves to a new result set, since the overlay drops them.
type extendCursor struct {
	*composite.Overlay[cursor.Cursor]
	apply func(*composite.Overlay[cursor.Cursor])
}

func (c *extendCursor) NextResultSet() bool {
	if !c.Overlay.NextResultSet() {
		return false
	}
	c.apply(c.Overlay)
	return true
}
