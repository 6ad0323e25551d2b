package database

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/bisegni/rowkit/pkg/composite"
	"github.com/bisegni/rowkit/pkg/cursor"
	log "github.com/bisegni/rowkit/pkg/logging"
	"github.com/bisegni/rowkit/pkg/parser"
)

// Binder registers the columns of one result set. records is the freshly
// opened record handle of the table and sample its first record, or nil
// when the table is empty.
type Binder func(c *composite.Cursor, records *Records, sample parser.Record) error

// BindAll binds every field discovered in sample to the record handle.
func BindAll(c *composite.Cursor, records *Records, sample parser.Record) error {
	for _, col := range Discover(sample) {
		c.Bind(col.Name, records, FieldOf(col.Name), col.TypeTag(), col.Kind)
	}
	return nil
}

// FieldOf returns an extractor reading path from the current record.
// Missing fields read as nil.
func FieldOf(path string) composite.Extractor {
	return composite.Field(func(record parser.Record) any {
		v, _ := Lookup(record, path)
		return v
	})
}

// ResultSets is a cursor exposing one result set per table. Each time it
// moves to a table the composite columns are reset and rebuilt by the
// binder from that table's records.
type ResultSets struct {
	*composite.Cursor

	tables  []Table
	pos     int
	bind    Binder
	records *Records
	driven  bool
	closed  bool
	err     error
}

// NewResultSets opens the first table and binds its columns. With no
// tables the cursor has no columns and no rows.
func NewResultSets(tables []Table, bind Binder) (*ResultSets, error) {
	r := &ResultSets{Cursor: composite.New(), tables: tables, bind: bind}
	if len(tables) == 0 {
		return r, nil
	}
	if err := r.open(); err != nil {
		r.Cursor.Close()
		return nil, err
	}
	return r, nil
}

func (r *ResultSets) open() error {
	table := r.tables[r.pos]
	records, err := table.Open()
	if err != nil {
		return fmt.Errorf("failed to open table '%s': %w", table.Name(), err)
	}
	sample, err := records.Peek()
	if err != nil {
		records.Close()
		return fmt.Errorf("failed to read table '%s': %w", table.Name(), err)
	}
	if err := r.bind(r.Cursor, records, sample); err != nil {
		records.Close()
		return fmt.Errorf("failed to bind table '%s': %w", table.Name(), err)
	}
	r.records = records
	r.driven = !r.tracks(records)
	log.Debug().Str("table", table.Name()).Int("columns", r.FieldCount()).Msg("opened result set")
	return nil
}

func (r *ResultSets) tracks(records *Records) bool {
	for _, h := range r.Handles() {
		if h == records {
			return true
		}
	}
	return false
}

// Table returns the table behind the current result set, or nil.
func (r *ResultSets) Table() Table {
	if r.pos >= len(r.tables) {
		return nil
	}
	return r.tables[r.pos]
}

// Next advances the bound columns. When the binder bound no column to the
// table's records they are advanced here, so the table still bounds the rows.
func (r *ResultSets) Next() bool {
	if len(r.tables) == 0 || r.closed || r.err != nil {
		return false
	}
	ok := r.Cursor.Next()
	if r.driven && !r.records.Next() {
		ok = false
	}
	return ok
}

// NextResultSet releases the current table and moves to the next one.
func (r *ResultSets) NextResultSet() bool {
	if r.closed || r.pos+1 >= len(r.tables) {
		return false
	}
	if err := r.release(); err != nil {
		log.Warn().Err(err).Msg("failed to release result set")
	}
	r.pos++
	if err := r.open(); err != nil {
		r.err = err
		return false
	}
	return true
}

func (r *ResultSets) release() error {
	var result error
	if err := r.Reset(); err != nil {
		result = multierror.Append(result, err)
	}
	if r.driven {
		if err := r.records.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	r.records, r.driven = nil, false
	return result
}

func (r *ResultSets) Err() error {
	if r.err != nil {
		return r.err
	}
	if r.driven {
		if err := r.records.Err(); err != nil {
			return err
		}
	}
	return r.Cursor.Err()
}

// Close releases the current table. A closed ResultSets has no rows.
func (r *ResultSets) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.release()
}

var _ cursor.Cursor = (*ResultSets)(nil)
