package plan

import (
	"fmt"
	"strings"

	"github.com/bisegni/rowkit/pkg/cursor"
	"github.com/bisegni/rowkit/pkg/database"
)

// ScanNode reads one result set per table, with columns registered by Bind
type ScanNode struct {
	Tables  []database.Table
	Columns []string // column names, for Explain only
	Bind    database.Binder
}

func (n *ScanNode) Open() (cursor.Cursor, error) {
	rs, err := database.NewResultSets(n.Tables, n.Bind)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (n *ScanNode) Children() []Node {
	return nil
}

func (n *ScanNode) Explain() string {
	names := make([]string, len(n.Tables))
	for i, t := range n.Tables {
		names[i] = t.Name()
	}
	return fmt.Sprintf("Scan(tables: %s; columns: %s)", strings.Join(names, ", "), strings.Join(n.Columns, ", "))
}
