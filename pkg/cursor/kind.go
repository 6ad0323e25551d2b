package cursor

import "time"

// Kind is the semantic value kind declared for a column.
type Kind int

const (
	KindAny Kind = iota
	KindNull
	KindBool
	KindInt64
	KindFloat64
	KindString
	KindBytes
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	default:
		return "any"
	}
}

// TypeTag returns the default SQL type label for values of this kind.
func (k Kind) TypeTag() string {
	switch k {
	case KindBool:
		return "bit"
	case KindInt64:
		return "bigint"
	case KindFloat64:
		return "float"
	case KindString:
		return "nvarchar(max)"
	case KindBytes:
		return "varbinary(max)"
	case KindTime:
		return "datetime2"
	default:
		return "sql_variant"
	}
}

// KindOf reports the kind matching the dynamic type of v.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil, dbNull:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return KindInt64
	case float32, float64:
		return KindFloat64
	case string:
		return KindString
	case []byte:
		return KindBytes
	case time.Time:
		return KindTime
	default:
		return KindAny
	}
}
