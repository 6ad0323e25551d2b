package planner

import (
	"fmt"
	"strings"

	"github.com/bisegni/rowkit/pkg/composite"
	"github.com/bisegni/rowkit/pkg/cursor"
	"github.com/bisegni/rowkit/pkg/database"
	"github.com/bisegni/rowkit/pkg/parser"
	"github.com/bisegni/rowkit/pkg/plan"
	"github.com/bisegni/rowkit/pkg/query"
	"github.com/bisegni/rowkit/pkg/sequence"
)

// Hidden scan columns. They always trail the select items so the projection
// drops them.
const (
	RowColumn   = "_row"
	WherePrefix = "_where."
)

// Options carries the columns added on top of the query result.
type Options struct {
	// Extend lists computed columns appended after the select items.
	Extend []plan.ExtendColumn
	// RowNumber names a 1-based row number column, empty for none.
	RowNumber string
}

// CreatePlan converts a Query IR into an Execution Plan
//
// The plan scans every table as its own result set, binding the select
// items followed by one hidden column per field read by the WHERE clause
// and a hidden record column. It then filters, drops the hidden columns
// and finally appends the extension columns from opts.
func CreatePlan(q *query.SelectQuery, tables []database.Table, opts Options) (plan.Node, error) {
	if len(q.Items) == 0 {
		return nil, fmt.Errorf("query selects no columns")
	}

	var whereFields []string
	if q.Filter != nil {
		whereFields = q.Filter.Fields()
	}

	columns := make([]string, 0, len(q.Items)+len(whereFields)+1)
	for _, item := range q.Items {
		columns = append(columns, item.Name())
	}
	hidden := make([]string, 0, len(whereFields)+1)
	for _, field := range whereFields {
		hidden = append(hidden, WherePrefix+field)
	}
	hidden = append(hidden, RowColumn)
	columns = append(columns, hidden...)

	// 1. Scan
	var currentNode plan.Node = &plan.ScanNode{
		Tables:  tables,
		Columns: columns,
		Bind:    scanBinder(q.Items, whereFields),
	}

	// 2. Apply WHERE (Filter)
	if q.Filter != nil {
		currentNode = &plan.FilterNode{
			Input:      currentNode,
			Expression: q.Filter,
			Column:     func(field string) string { return WherePrefix + field },
		}
	}

	// 3. Projection
	currentNode = &plan.ProjectNode{Input: currentNode, Drop: hidden}

	// 4. Extension columns
	if len(opts.Extend) > 0 || opts.RowNumber != "" {
		currentNode = &plan.ExtendNode{
			Input:     currentNode,
			Columns:   opts.Extend,
			RowNumber: opts.RowNumber,
		}
	}

	return currentNode, nil
}

// ParseExtend parses a "name=operand" column definition.
func ParseExtend(def string) (plan.ExtendColumn, error) {
	name, expr, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return plan.ExtendColumn{}, fmt.Errorf("invalid column definition '%s', expected name=expression", def)
	}
	op, err := query.ParseOperand(expr)
	if err != nil {
		return plan.ExtendColumn{}, fmt.Errorf("column '%s': %w", name, err)
	}
	return plan.ExtendColumn{Name: name, Operand: op}, nil
}

func scanBinder(items []query.Item, whereFields []string) database.Binder {
	return func(c *composite.Cursor, records *database.Records, sample parser.Record) error {
		for _, item := range items {
			if item.Star {
				if err := database.BindAll(c, records, sample); err != nil {
					return err
				}
				continue
			}
			if err := bindItem(c, records, sample, item); err != nil {
				return err
			}
		}
		for _, field := range whereFields {
			kind := sampleKind(sample, field)
			c.Bind(WherePrefix+field, records, database.FieldOf(field), kind.TypeTag(), kind)
		}
		c.Bind(RowColumn, records, composite.Identity, cursor.KindAny.TypeTag(), cursor.KindAny)
		return nil
	}
}

func bindItem(c *composite.Cursor, records *database.Records, sample parser.Record, item query.Item) error {
	name, op := item.Name(), item.Operand
	switch {
	case query.IsRowNumber(op):
		c.Bind(name, sequence.Counter(1), composite.Identity, cursor.KindInt64.TypeTag(), cursor.KindInt64)
	case query.IsConstant(op):
		v, err := op.Eval(nil)
		if err != nil {
			return fmt.Errorf("column '%s': %w", name, err)
		}
		kind := op.Kind()
		if v != nil {
			kind = cursor.KindOf(v)
		}
		c.SetConstant(name, v, kind.TypeTag(), kind)
	default:
		kind := op.Kind()
		if ref, ok := op.(*query.FieldRef); ok {
			kind = sampleKind(sample, ref.Path)
		}
		c.Bind(name, records, evalOn(op), kind.TypeTag(), kind)
	}
	return nil
}

// evalOn returns an extractor evaluating op against the current record.
func evalOn(op query.Operand) composite.Extractor {
	return func(elem any) (any, error) {
		record, ok := elem.(parser.Record)
		if !ok {
			return nil, &cursor.CastError{Column: -1, Want: "parser.Record", Value: elem}
		}
		return op.Eval(func(field string) (interface{}, error) {
			v, _ := database.Lookup(record, field)
			return v, nil
		})
	}
}

func sampleKind(sample parser.Record, path string) cursor.Kind {
	if sample == nil {
		return cursor.KindAny
	}
	v, _ := database.Lookup(sample, path)
	if kind := cursor.KindOf(v); kind != cursor.KindNull {
		return kind
	}
	return cursor.KindAny
}
