package database

import (
	"errors"
	"io"

	"github.com/bisegni/rowkit/pkg/parser"
	"github.com/bisegni/rowkit/pkg/sequence"
)

// Table represents a named dataset that can be scanned.
type Table interface {
	// Name identifies the table in a catalog.
	Name() string
	// Open returns a new record stream positioned before the first record.
	Open() (*Records, error)
}

// RecordReader is the streaming input behind a Records handle.
// *parser.Parser implements it.
type RecordReader interface {
	Peek() (parser.Record, error)
	Read() (parser.Record, error)
	Close() error
}

// Records is a sequence handle over the records of one table.
// Current returns a parser.Record.
type Records struct {
	reader  RecordReader
	current parser.Record
	err     error
	done    bool
	closed  bool
}

// NewRecords returns a handle reading from r.
func NewRecords(r RecordReader) *Records {
	return &Records{reader: r}
}

func (r *Records) Next() bool {
	if r.done {
		return false
	}
	record, err := r.reader.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = err
		}
		r.current = nil
		r.done = true
		return false
	}
	r.current = record
	return true
}

func (r *Records) Current() any { return r.current }

// Peek returns the next record without consuming it, or nil when the
// stream has no more records.
func (r *Records) Peek() (parser.Record, error) {
	if r.done {
		return nil, nil
	}
	record, err := r.reader.Peek()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return record, err
}

// Err returns the first read error other than io.EOF.
func (r *Records) Err() error { return r.err }

// Close releases the reader. Closing twice is a no-op.
func (r *Records) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.done = true
	return r.reader.Close()
}

var _ sequence.Handle = (*Records)(nil)
