package query

import (
	"fmt"
	"strings"
)

// AST for Participle Parser

type ASTSelect struct {
	SelectFields []*ASTSelectField `parser:"'SELECT' @@ (',' @@)*"`
	Where        *ASTExpression    `parser:"('WHERE' @@)?"`
}

type ASTSelectField struct {
	Star    bool        `parser:"(  @'*'"`
	Operand *ASTOperand `parser:" | @@ )"`
	Alias   string      `parser:"('AS' @Ident)?"`
}

type ASTExpression struct {
	Or []*ASTOrCondition `parser:"@@ ('OR' @@)*"`
}

type ASTOrCondition struct {
	And []*ASTCondition `parser:"@@ ('AND' @@)*"`
}

type ASTCondition struct {
	Grouped *ASTExpression      `parser:"  '(' @@ ')'"`
	Simple  *ASTSimpleCondition `parser:"| @@"`
}

type ASTSimpleCondition struct {
	Operand *ASTOperand `parser:"  @@"`
	Op      *string     `parser:"( @('='|'!='|'>='|'<='|'>'|'<'|'CONTAINS')"`
	Value   *ASTOperand `parser:"  @@ )?"`
}

type ASTOperand struct {
	Function *ASTFunction `parser:"  @@"`
	Literal  *ASTLiteral  `parser:"| @@"`
	Value    *ASTValue    `parser:"| @@"`
}

type ASTFunction struct {
	Name string        `parser:"@Ident '('"`
	Args []*ASTOperand `parser:"(@@ (',' @@)*)? ')'"`
}

type ASTValue struct {
	Parts []string `parser:"@Ident ('.' @Ident)*"`
}

type ASTLiteral struct {
	Number *float64 `parser:"  @Number"`
	StrVal *string  `parser:"| @String"`
	Bool   *string  `parser:"| @('TRUE'|'FALSE')"`
	Null   bool     `parser:"| @'NULL'"`
}

// Map AST to the query IR

func (s *ASTSelect) ToSelectQuery() (*SelectQuery, error) {
	sq := &SelectQuery{}
	for _, f := range s.SelectFields {
		item := Item{Star: f.Star, Alias: f.Alias}
		if f.Star && f.Alias != "" {
			return nil, fmt.Errorf("'*' cannot have an alias")
		}
		if !f.Star {
			op, err := f.Operand.ToOperand()
			if err != nil {
				return nil, err
			}
			item.Operand = op
		}
		sq.Items = append(sq.Items, item)
	}

	if s.Where != nil {
		expr, err := s.Where.ToExpression()
		if err != nil {
			return nil, err
		}
		sq.Filter = expr
	}
	return sq, nil
}

func (e *ASTExpression) ToExpression() (Expression, error) {
	var expr Expression
	for _, or := range e.Or {
		right, err := or.ToExpression()
		if err != nil {
			return nil, err
		}
		if expr == nil {
			expr = right
			continue
		}
		expr = &OrExpression{Left: expr, Right: right}
	}
	return expr, nil
}

func (o *ASTOrCondition) ToExpression() (Expression, error) {
	var expr Expression
	for _, and := range o.And {
		right, err := and.ToExpression()
		if err != nil {
			return nil, err
		}
		if expr == nil {
			expr = right
			continue
		}
		expr = &AndExpression{Left: expr, Right: right}
	}
	return expr, nil
}

func (c *ASTCondition) ToExpression() (Expression, error) {
	if c.Grouped != nil {
		return c.Grouped.ToExpression()
	}
	left, err := c.Simple.Operand.ToOperand()
	if err != nil {
		return nil, err
	}
	cond := &Condition{Left: left}
	if c.Simple.Op != nil {
		cond.Op = strings.ToUpper(*c.Simple.Op)
		right, err := c.Simple.Value.ToOperand()
		if err != nil {
			return nil, err
		}
		cond.Right = right
	}
	if usesRowNumber(cond.Left) || (cond.Right != nil && usesRowNumber(cond.Right)) {
		return nil, fmt.Errorf("%s() cannot be used in WHERE", FuncRowNumber)
	}
	return cond, nil
}

func (o *ASTOperand) ToOperand() (Operand, error) {
	switch {
	case o.Function != nil:
		return o.Function.ToOperand()
	case o.Literal != nil:
		return &Literal{Value: o.Literal.ToValue()}, nil
	default:
		return &FieldRef{Path: strings.Join(o.Value.Parts, ".")}, nil
	}
}

func (f *ASTFunction) ToOperand() (Operand, error) {
	call := &Call{Name: strings.ToUpper(f.Name)}
	for _, a := range f.Args {
		arg, err := a.ToOperand()
		if err != nil {
			return nil, err
		}
		if usesRowNumber(arg) {
			return nil, fmt.Errorf("%s() must be a select item on its own", FuncRowNumber)
		}
		call.Args = append(call.Args, arg)
	}
	if err := call.validate(); err != nil {
		return nil, err
	}
	return call, nil
}

func (l *ASTLiteral) ToValue() interface{} {
	switch {
	case l.Number != nil:
		return *l.Number
	case l.StrVal != nil:
		return *l.StrVal
	case l.Bool != nil:
		return strings.EqualFold(*l.Bool, "TRUE")
	default:
		return nil
	}
}
