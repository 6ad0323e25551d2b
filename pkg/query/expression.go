package query

import (
	"fmt"

	"github.com/bisegni/rowkit/pkg/cursor"
)

// Getter resolves a field path against the current row.
type Getter func(field string) (interface{}, error)

// Expression is a boolean expression that can be evaluated against a row
type Expression interface {
	Evaluate(get Getter) (bool, error)
	// Fields returns the field paths the expression reads, in first use order.
	Fields() []string
	String() string
}

// Condition compares two operands. Without an operator it tests whether
// the left operand is truthy.
type Condition struct {
	Left  Operand
	Op    string
	Right Operand
}

func (c *Condition) Evaluate(get Getter) (bool, error) {
	left, err := c.Left.Eval(get)
	if err != nil {
		return false, err
	}
	left = normalize(left)
	if c.Op == "" {
		return truthy(left), nil
	}

	right, err := c.Right.Eval(get)
	if err != nil {
		return false, err
	}
	right = normalize(right)

	switch c.Op {
	case "=":
		return compareEqual(left, right), nil
	case "!=":
		return !compareEqual(left, right), nil
	case ">":
		return compareGreater(left, right), nil
	case ">=":
		return compareGreaterEqual(left, right), nil
	case "<":
		return compareLess(left, right), nil
	case "<=":
		return compareLessEqual(left, right), nil
	case "CONTAINS":
		return containsValue(left, right), nil
	default:
		return false, fmt.Errorf("unsupported operator '%s'", c.Op)
	}
}

func (c *Condition) Fields() []string {
	fields := c.Left.Fields()
	if c.Right != nil {
		fields = append(fields, c.Right.Fields()...)
	}
	return unique(fields)
}

func (c *Condition) String() string {
	if c.Op == "" {
		return c.Left.String()
	}
	return c.Left.String() + " " + c.Op + " " + c.Right.String()
}

// AndExpression represents Logical AND
type AndExpression struct {
	Left  Expression
	Right Expression
}

func (a *AndExpression) Evaluate(get Getter) (bool, error) {
	ok, err := a.Left.Evaluate(get)
	if err != nil || !ok {
		return false, err
	}
	return a.Right.Evaluate(get)
}

func (a *AndExpression) Fields() []string {
	return unique(append(a.Left.Fields(), a.Right.Fields()...))
}

func (a *AndExpression) String() string {
	return a.Left.String() + " AND " + a.Right.String()
}

// OrExpression represents Logical OR
type OrExpression struct {
	Left  Expression
	Right Expression
}

func (o *OrExpression) Evaluate(get Getter) (bool, error) {
	ok, err := o.Left.Evaluate(get)
	if err != nil || ok {
		return ok, err
	}
	return o.Right.Evaluate(get)
}

func (o *OrExpression) Fields() []string {
	return unique(append(o.Left.Fields(), o.Right.Fields()...))
}

func (o *OrExpression) String() string {
	return "(" + o.Left.String() + " OR " + o.Right.String() + ")"
}

// normalize folds the database null into the absent value.
func normalize(v interface{}) interface{} {
	if v == cursor.DBNull {
		return nil
	}
	return v
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	default:
		if f, ok := toFloat64(val); ok {
			return f != 0
		}
		return true
	}
}

func unique(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
