package query

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Item is one entry of a select list.
type Item struct {
	Star    bool
	Operand Operand
	Alias   string
}

// Name returns the output column name of the item.
func (i Item) Name() string {
	if i.Alias != "" {
		return i.Alias
	}
	if i.Star {
		return "*"
	}
	return i.Operand.String()
}

func (i Item) String() string {
	s := "*"
	if !i.Star {
		s = i.Operand.String()
	}
	if i.Alias != "" {
		s += " AS " + i.Alias
	}
	return s
}

// SelectQuery represents a parsed SQL-like query IR (Intermediate Representation)
type SelectQuery struct {
	Items  []Item
	Filter Expression // Compiled expression tree for the WHERE clause, nil when absent
}

// String returns the normalized query text.
func (q *SelectQuery) String() string {
	items := make([]string, len(q.Items))
	for i, item := range q.Items {
		items[i] = item.String()
	}
	s := "SELECT " + strings.Join(items, ", ")
	if q.Filter != nil {
		s += " WHERE " + q.Filter.String()
	}
	return s
}

// Lexer definition
var (
	sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Keyword", Pattern: `(?i)\b(SELECT|WHERE|AS|AND|OR|TRUE|FALSE|NULL|CONTAINS)\b`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Number", Pattern: `[-+]?\d*\.?\d+`},
		{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
		{Name: "Operator", Pattern: `>=|<=|!=|[=<>]`},
		{Name: "Punct", Pattern: `[*,.()]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parserOptions = []participle.Option{
		participle.Lexer(sqlLexer),
		participle.Unquote("String"),
		participle.CaseInsensitive("Keyword"),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	}

	sqlParser     = participle.MustBuild[ASTSelect](parserOptions...)
	operandParser = participle.MustBuild[ASTOperand](parserOptions...)
)

// ParseQuery parses a SELECT string using Participle
func ParseQuery(input string) (*SelectQuery, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty query")
	}

	ast, err := sqlParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return ast.ToSelectQuery()
}

// ParseOperand parses a single operand such as a field path, a literal or
// a function call.
func ParseOperand(input string) (Operand, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty expression")
	}

	ast, err := operandParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return ast.ToOperand()
}
