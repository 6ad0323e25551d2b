package plan

import (
	"github.com/bisegni/rowkit/pkg/cursor"
)

// Node represents an execution node in the query plan
type Node interface {
	// Open builds the cursor of this node over the cursors of its children.
	Open() (cursor.Cursor, error)
	Children() []Node
	Explain() string
}
