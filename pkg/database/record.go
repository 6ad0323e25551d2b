package database

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bisegni/rowkit/pkg/cursor"
	"github.com/bisegni/rowkit/pkg/parser"
)

// Lookup returns the value at a dot separated path inside record. Numeric
// segments index into arrays.
// The second result is false when any segment is missing.
func Lookup(record parser.Record, path string) (interface{}, bool) {
	var current interface{} = map[string]interface{}(record)
	for _, part := range strings.Split(path, ".") {
		switch v := current.(type) {
		case map[string]interface{}:
			next, ok := v[part]
			if !ok {
				return nil, false
			}
			current = next
		case []interface{}:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			current = v[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Column describes a top level field discovered from a sample record.
type Column struct {
	Name string
	Kind cursor.Kind
}

// TypeTag returns the SQL type label of the column.
func (c Column) TypeTag() string { return c.Kind.TypeTag() }

// Discover returns the top level fields of sample in name order. Declared
// kinds follow the JSON value types; nulls and nested values are KindAny.
func Discover(sample parser.Record) []Column {
	names := make([]string, 0, len(sample))
	for name := range sample {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]Column, len(names))
	for i, name := range names {
		kind := cursor.KindOf(sample[name])
		if kind == cursor.KindNull {
			kind = cursor.KindAny
		}
		columns[i] = Column{Name: name, Kind: kind}
	}
	return columns
}
