package database

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bisegni/rowkit/pkg/cursor"
)

// OrderedMap represents a map that preserves insertion order.
// It is implemented as a slice of KeyVal pairs so a sink can write columns in cursor order.
type KeyVal struct {
	Key string
	Val interface{}
}

type OrderedMap []KeyVal

// MarshalJSON implements the json.Marshaler interface.
func (om OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range om {
		if i > 0 {
			buf.WriteByte(',')
		}
		// Marshal key
		keyBytes, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		// Marshal value
		valBytes, err := json.Marshal(kv.Val)
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RowOf copies the current row of c into an OrderedMap keyed by column name.
func RowOf(c cursor.Cursor) (OrderedMap, error) {
	n := c.FieldCount()
	om := make(OrderedMap, 0, n)
	for i := 0; i < n; i++ {
		name, err := c.Name(i)
		if err != nil {
			return nil, err
		}
		val, err := c.Value(i)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", name, err)
		}
		om = append(om, KeyVal{Key: name, Val: val})
	}
	return om, nil
}

// String implements fmt.Stringer
func (om OrderedMap) String() string {
	b, _ := om.MarshalJSON()
	return string(b)
}
