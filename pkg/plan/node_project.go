package plan

import (
	"fmt"
	"strings"

	"github.com/jzelinskie/stringz"

	"github.com/bisegni/rowkit/pkg/cursor"
)

// ProjectNode hides the named input columns. Hidden columns have to trail
// the visible ones, since the first hidden column ends the projection.
type ProjectNode struct {
	Input Node
	Drop  []string
}

func (n *ProjectNode) Open() (cursor.Cursor, error) {
	in, err := n.Input.Open()
	if err != nil {
		return nil, err
	}
	p, err := n.project(in)
	if err != nil {
		in.Close()
		return nil, err
	}
	return &projectCursor{Projection: p, remap: n.project}, nil
}

// project maps every input column to its own index, except dropped ones.
func (n *ProjectNode) project(in cursor.Cursor) (*Projection, error) {
	mapping := make([]int, in.FieldCount())
	for i := range mapping {
		name, err := in.Name(i)
		if err != nil {
			return nil, err
		}
		mapping[i] = i
		if stringz.SliceContains(n.Drop, name) {
			mapping[i] = Unmapped
		}
	}
	return NewProjection(in, mapping)
}

func (n *ProjectNode) Children() []Node {
	return []Node{n.Input}
}

func (n *ProjectNode) Explain() string {
	return fmt.Sprintf("Project(drop: %s)", strings.Join(n.Drop, ", "))
}

// projectCursor builds a new projection for every result set of its input,
// since each result set may have a different shape.
type projectCursor struct {
	*Projection
	remap func(cursor.Cursor) (*Projection, error)
	err   error
}

func (c *projectCursor) NextResultSet() bool {
	if !c.Projection.NextResultSet() {
		return false
	}
	p, err := c.remap(c.Underlying())
	if err != nil {
		c.err = err
		return false
	}
	c.Projection = p
	return true
}

func (c *projectCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.Projection.Err()
}
