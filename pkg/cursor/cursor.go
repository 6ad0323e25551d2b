package cursor

// Cursor is a forward-only view over one or more result sets of rows.
//
// Callers advance with Next and read the current row through the index or
// name accessors. Once Next reports false no value may be read until
// NextResultSet succeeds and Next is called again.
type Cursor interface {
	// FieldCount returns the number of visible columns in the current result set.
	FieldCount() int
	// Value returns the value of column i in the current row.
	Value(i int) (any, error)
	// ValueByName returns the value of the named column in the current row.
	ValueByName(name string) (any, error)
	// Name returns the name of column i.
	Name(i int) (string, error)
	// Ordinal returns the index of the named column.
	Ordinal(name string) (int, error)
	// TypeTag returns the wire/SQL type label of column i.
	TypeTag(i int) (string, error)
	// DeclaredType returns the value kind declared for column i.
	DeclaredType(i int) (Kind, error)
	// Next advances to the next row. Returns false once the result set is exhausted.
	Next() bool
	// NextResultSet moves to the next result set, if any.
	NextResultSet() bool
	// Err returns the first error raised by an underlying source.
	Err() error
	// Close releases the resources held by the cursor.
	Close() error
}

// Wrapper is implemented by cursors layered over another cursor.
type Wrapper[T Cursor] interface {
	Cursor
	// Underlying returns the wrapped cursor.
	Underlying() T
}

// RangeReader reads a slice of a binary or character column.
type RangeReader interface {
	ReadBytes(i int, offset int64, buf []byte) (int64, error)
	ReadChars(i int, offset int64, buf []rune) (int64, error)
}

// SchemaReader describes the current result set as a cursor of its own.
type SchemaReader interface {
	SchemaTable() (Cursor, error)
}

// ReadBytes reads bytes of column i starting at offset into buf.
func ReadBytes(c Cursor, i int, offset int64, buf []byte) (int64, error) {
	if rr, ok := c.(RangeReader); ok {
		return rr.ReadBytes(i, offset, buf)
	}
	return 0, ErrNotImplemented
}

// ReadChars reads characters of column i starting at offset into buf.
func ReadChars(c Cursor, i int, offset int64, buf []rune) (int64, error) {
	if rr, ok := c.(RangeReader); ok {
		return rr.ReadChars(i, offset, buf)
	}
	return 0, ErrNotImplemented
}

// SchemaTable returns the schema description of the current result set.
func SchemaTable(c Cursor) (Cursor, error) {
	if sr, ok := c.(SchemaReader); ok {
		return sr.SchemaTable()
	}
	return nil, ErrNotImplemented
}

// Columns returns the names of every visible column.
func Columns(c Cursor) ([]string, error) {
	names := make([]string, c.FieldCount())
	for i := range names {
		name, err := c.Name(i)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}
