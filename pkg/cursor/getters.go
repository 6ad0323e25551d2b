package cursor

import "time"

type dbNull struct{}

func (dbNull) String() string { return "DBNull" }

// MarshalJSON encodes the database null as a JSON null.
func (dbNull) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// DBNull marks a value that is null in database terms. A Go nil is an absent value.
var DBNull any = dbNull{}

// IsNull reports whether column i holds DBNull.
func IsNull(c Cursor, i int) (bool, error) {
	v, err := c.Value(i)
	if err != nil {
		return false, err
	}
	return v == DBNull, nil
}

// Values copies the current row into dest and returns the number of values copied.
func Values(c Cursor, dest []any) (int, error) {
	n := min(len(dest), c.FieldCount())
	for i := 0; i < n; i++ {
		v, err := c.Value(i)
		if err != nil {
			return i, err
		}
		dest[i] = v
	}
	return n, nil
}

func get[T any](c Cursor, i int, want string) (T, error) {
	var zero T
	v, err := c.Value(i)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &CastError{Column: i, Want: want, Value: v}
	}
	return t, nil
}

func Bool(c Cursor, i int) (bool, error)       { return get[bool](c, i, "bool") }
func Int64(c Cursor, i int) (int64, error)     { return get[int64](c, i, "int64") }
func Float64(c Cursor, i int) (float64, error) { return get[float64](c, i, "float64") }
func String(c Cursor, i int) (string, error)   { return get[string](c, i, "string") }
func Bytes(c Cursor, i int) ([]byte, error)    { return get[[]byte](c, i, "[]byte") }
func Time(c Cursor, i int) (time.Time, error)  { return get[time.Time](c, i, "time.Time") }
