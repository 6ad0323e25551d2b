package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bisegni/rowkit/pkg/cursor"
)

// Operand is a value produced from the current row.
type Operand interface {
	Eval(get Getter) (interface{}, error)
	// Fields returns the field paths the operand reads.
	Fields() []string
	// Kind returns the declared kind of the values the operand produces.
	Kind() cursor.Kind
	String() string
}

// FieldRef reads a field path of the current row.
type FieldRef struct {
	Path string
}

func (f *FieldRef) Eval(get Getter) (interface{}, error) { return get(f.Path) }
func (f *FieldRef) Fields() []string                     { return []string{f.Path} }
func (f *FieldRef) Kind() cursor.Kind                    { return cursor.KindAny }
func (f *FieldRef) String() string                       { return f.Path }

// Literal is a constant value.
type Literal struct {
	Value interface{}
}

func (l *Literal) Eval(Getter) (interface{}, error) { return l.Value, nil }
func (l *Literal) Fields() []string                 { return nil }

func (l *Literal) Kind() cursor.Kind {
	if l.Value == nil {
		return cursor.KindAny
	}
	return cursor.KindOf(l.Value)
}

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + v + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Function names
const (
	FuncUpper     = "UPPER"
	FuncLower     = "LOWER"
	FuncLen       = "LEN"
	FuncCoalesce  = "COALESCE"
	FuncConcat    = "CONCAT"
	FuncRowNumber = "ROWNUM"
)

// Call applies a built-in function to its arguments.
type Call struct {
	Name string
	Args []Operand
}

func (c *Call) validate() error {
	want := -1
	switch c.Name {
	case FuncUpper, FuncLower, FuncLen:
		want = 1
	case FuncRowNumber:
		want = 0
	case FuncCoalesce, FuncConcat:
		if len(c.Args) == 0 {
			return fmt.Errorf("%s() needs at least one argument", c.Name)
		}
		return nil
	default:
		return fmt.Errorf("unknown function '%s'", c.Name)
	}
	if len(c.Args) != want {
		return fmt.Errorf("%s() takes %d argument(s), got %d", c.Name, want, len(c.Args))
	}
	return nil
}

func (c *Call) Eval(get Getter) (interface{}, error) {
	args := make([]interface{}, len(c.Args))
	for i, a := range c.Args {
		v, err := a.Eval(get)
		if err != nil {
			return nil, err
		}
		args[i] = normalize(v)
	}

	switch c.Name {
	case FuncUpper, FuncLower:
		if args[0] == nil {
			return nil, nil
		}
		s := toString(args[0])
		if c.Name == FuncUpper {
			return strings.ToUpper(s), nil
		}
		return strings.ToLower(s), nil
	case FuncLen:
		switch v := args[0].(type) {
		case nil:
			return nil, nil
		case string:
			return int64(utf8.RuneCountInString(v)), nil
		case []interface{}:
			return int64(len(v)), nil
		case map[string]interface{}:
			return int64(len(v)), nil
		default:
			return int64(utf8.RuneCountInString(toString(v))), nil
		}
	case FuncCoalesce:
		for _, v := range args {
			if v != nil {
				return v, nil
			}
		}
		return nil, nil
	case FuncConcat:
		var sb strings.Builder
		for _, v := range args {
			if v != nil {
				sb.WriteString(toString(v))
			}
		}
		return sb.String(), nil
	default:
		return nil, fmt.Errorf("%s() is only available as a select item", c.Name)
	}
}

func (c *Call) Fields() []string {
	var fields []string
	for _, a := range c.Args {
		fields = append(fields, a.Fields()...)
	}
	return unique(fields)
}

func (c *Call) Kind() cursor.Kind {
	switch c.Name {
	case FuncUpper, FuncLower, FuncConcat:
		return cursor.KindString
	case FuncLen, FuncRowNumber:
		return cursor.KindInt64
	default:
		return cursor.KindAny
	}
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}

// IsRowNumber reports whether op is a ROWNUM() call.
func IsRowNumber(op Operand) bool {
	call, ok := op.(*Call)
	return ok && call.Name == FuncRowNumber
}

func usesRowNumber(op Operand) bool {
	if IsRowNumber(op) {
		return true
	}
	if call, ok := op.(*Call); ok {
		for _, a := range call.Args {
			if usesRowNumber(a) {
				return true
			}
		}
	}
	return false
}

// IsConstant reports whether op reads no field and yields the same value
// for every row.
func IsConstant(op Operand) bool {
	return len(op.Fields()) == 0 && !usesRowNumber(op)
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
