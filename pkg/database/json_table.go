package database

import (
	"github.com/bisegni/rowkit/pkg/parser"
)

// JSONTable adapts a JSON/JSONL file to the Table interface.
type JSONTable struct {
	name     string
	filename string
}

// NewJSONTable returns a table reading filename. Inline JSON and "-" for
// stdin are accepted as filenames, see parser.NewParser.
func NewJSONTable(name, filename string) *JSONTable {
	return &JSONTable{name: name, filename: filename}
}

func (t *JSONTable) Name() string { return t.name }

func (t *JSONTable) Open() (*Records, error) {
	p, err := parser.NewParser(t.filename)
	if err != nil {
		return nil, err
	}
	return NewRecords(p), nil
}
