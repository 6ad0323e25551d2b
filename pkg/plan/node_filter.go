package plan

import (
	"github.com/bisegni/rowkit/pkg/cursor"
	"github.com/bisegni/rowkit/pkg/query"
)

// FilterNode filters rows based on an expression
type FilterNode struct {
	Input      Node
	Expression query.Expression
	// Column maps a field path of the expression to the column holding it.
	Column func(field string) string
}

func (n *FilterNode) Open() (cursor.Cursor, error) {
	in, err := n.Input.Open()
	if err != nil {
		return nil, err
	}
	return NewFilter(in, func(c cursor.Cursor) bool {
		return query.Match(n.Expression, query.CursorGetter(c, n.Column))
	}), nil
}

func (n *FilterNode) Children() []Node {
	return []Node{n.Input}
}

func (n *FilterNode) Explain() string {
	return "Filter(expression: " + n.Expression.String() + ")"
}
