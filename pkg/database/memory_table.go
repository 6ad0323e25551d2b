package database

import (
	"io"

	"github.com/bisegni/rowkit/pkg/parser"
)

// MemoryTable is a table over records held in memory. Unlike a JSONTable
// reading stdin it can be opened any number of times.
type MemoryTable struct {
	name    string
	records []parser.Record
}

func NewMemoryTable(name string, records []parser.Record) *MemoryTable {
	return &MemoryTable{name: name, records: records}
}

// LoadTable reads every record of t into a MemoryTable.
func LoadTable(t Table) (*MemoryTable, error) {
	records, err := t.Open()
	if err != nil {
		return nil, err
	}
	defer records.Close()

	var all []parser.Record
	for records.Next() {
		all = append(all, records.Current().(parser.Record))
	}
	if err := records.Err(); err != nil {
		return nil, err
	}
	return NewMemoryTable(t.Name(), all), nil
}

func (t *MemoryTable) Name() string { return t.name }

// Len returns the number of records.
func (t *MemoryTable) Len() int { return len(t.records) }

func (t *MemoryTable) Open() (*Records, error) {
	return NewRecords(&memoryReader{records: t.records}), nil
}

type memoryReader struct {
	records []parser.Record
	pos     int
}

func (r *memoryReader) Peek() (parser.Record, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	return r.records[r.pos], nil
}

func (r *memoryReader) Read() (parser.Record, error) {
	record, err := r.Peek()
	if err == nil {
		r.pos++
	}
	return record, err
}

func (r *memoryReader) Close() error { return nil }
