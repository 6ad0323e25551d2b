package query

import (
	"fmt"
	"strconv"
	"strings"
)

func compareEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	// Try direct comparison for common types
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
	}
	if af, aok := number(a); aok {
		if bf, bok := number(b); bok {
			return af == bf
		}
	}
	// Fallback to string comparison for other types
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func compareGreater(a, b interface{}) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af > bf
	}
	return false
}

func compareGreaterEqual(a, b interface{}) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af >= bf
	}
	return false
}

func compareLess(a, b interface{}) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af < bf
	}
	return false
}

func compareLessEqual(a, b interface{}) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af <= bf
	}
	return false
}

func containsValue(a, b interface{}) bool {
	if a == nil || b == nil {
		return false
	}
	if items, ok := a.([]interface{}); ok {
		for _, item := range items {
			if compareEqual(item, b) {
				return true
			}
		}
		return false
	}
	return strings.Contains(toString(a), toString(b))
}

// number converts numeric Go types without parsing strings.
func number(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	default:
		return 0, false
	}
}

func toFloat64(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if f, ok := number(v); ok {
		return f, true
	}
	f, err := strconv.ParseFloat(fmt.Sprintf("%v", v), 64)
	return f, err == nil
}
