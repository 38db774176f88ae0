package parser

import (
	"fmt"

	"github.com/tuannm99/novaparse/internal/sql/lexer"
	"github.com/tuannm99/novaparse/internal/sql/sqlerr"
)

// Binding powers. Infix operators use (left, right) pairs with right > left,
// which makes every binary operator left-associative.
const (
	bpLowest   = 0
	bpOrdering = 1  // postfix ASC / DESC
	bpPrefix   = 15 // operand of unary + - NOT
)

// opKey identifies an operator token; kw is NoKeyword for punctuation.
type opKey struct {
	typ lexer.TokenType
	kw  lexer.Keyword
}

func keyOf(tok lexer.Token) opKey { return opKey{typ: tok.Type, kw: tok.Keyword} }

func kwKey(k lexer.Keyword) opKey { return opKey{typ: lexer.KeywordTok, kw: k} }

type prefixKind int

const (
	prefixLiteral prefixKind = iota
	prefixGroup
	prefixUnary
)

type prefixRule struct {
	kind prefixKind
	op   UnaryOperator
}

// prefixRules lists every token that can start an operand.
var prefixRules = map[opKey]prefixRule{
	{typ: lexer.Ident}:  {kind: prefixLiteral},
	{typ: lexer.Number}: {kind: prefixLiteral},
	{typ: lexer.String}: {kind: prefixLiteral},
	kwKey(lexer.True):   {kind: prefixLiteral},
	kwKey(lexer.False):  {kind: prefixLiteral},
	{typ: lexer.LParen}: {kind: prefixGroup},
	{typ: lexer.Plus}:   {kind: prefixUnary, op: UnaryPlus},
	{typ: lexer.Minus}:  {kind: prefixUnary, op: UnaryMinus},
	kwKey(lexer.Not):    {kind: prefixUnary, op: UnaryNot},
}

type infixRule struct {
	left, right int
	op          BinaryOperator

	// postfix rules wrap the left side in a UnaryExpr and take no right side.
	postfix bool
	unary   UnaryOperator
}

var infixRules = map[opKey]infixRule{
	kwKey(lexer.Asc):  {left: bpOrdering, postfix: true, unary: UnaryAsc},
	kwKey(lexer.Desc): {left: bpOrdering, postfix: true, unary: UnaryDesc},

	kwKey(lexer.Or):  {left: 3, right: 4, op: OpOr},
	kwKey(lexer.And): {left: 5, right: 6, op: OpAnd},

	{typ: lexer.Eq}:    {left: 7, right: 8, op: OpEqual},
	{typ: lexer.NotEq}: {left: 7, right: 8, op: OpNotEqual},

	{typ: lexer.Gt}:  {left: 9, right: 10, op: OpGreaterThan},
	{typ: lexer.Gte}: {left: 9, right: 10, op: OpGreaterThanOrEqual},
	{typ: lexer.Lt}:  {left: 9, right: 10, op: OpLessThan},
	{typ: lexer.Lte}: {left: 9, right: 10, op: OpLessThanOrEqual},

	{typ: lexer.Plus}:  {left: 11, right: 12, op: OpPlus},
	{typ: lexer.Minus}: {left: 11, right: 12, op: OpMinus},

	{typ: lexer.Star}:  {left: 13, right: 14, op: OpMultiply},
	{typ: lexer.Slash}: {left: 13, right: 14, op: OpDivide},
}

// ParseExpression parses one expression at the cursor. ASC and DESC are not
// consumed; they end the expression.
func ParseExpression(c *Cursor) (Expr, error) {
	return parseExpr(c, bpLowest, false, nil)
}

// ParseOrderingTerm parses one ORDER BY item: an expression optionally
// followed by a single ASC or DESC.
func ParseOrderingTerm(c *Cursor) (Expr, error) {
	return parseExpr(c, bpLowest, true, nil)
}

// ParseExpr tokenizes src and parses it as a single expression that must
// use up the whole input.
func ParseExpr(src string) (Expr, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	c := NewCursor(toks)
	e, err := ParseExpression(c)
	if err != nil {
		return nil, err
	}
	if !c.AtEOF() {
		return nil, unexpected(c.Peek(), sqlerr.TrailingInput, "end of input")
	}
	return e, nil
}

// parseExpr is the precedence-climbing loop. after is the operator token that
// demanded this operand, nil at the start of an expression.
func parseExpr(c *Cursor, minBP int, ordering bool, after *lexer.Token) (Expr, error) {
	left, err := parsePrefix(c, after)
	if err != nil {
		return nil, err
	}

	for {
		tok := c.Peek()
		rule, ok := infixRules[keyOf(tok)]
		if !ok || rule.left <= minBP {
			return left, nil
		}

		if rule.postfix {
			if !ordering {
				return left, nil
			}
			c.Next()
			return &UnaryExpr{Operand: left, Op: rule.unary}, nil
		}

		c.Next()
		right, err := parseExpr(c, rule.right, false, &tok)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: rule.op, Right: right}
	}
}

func parsePrefix(c *Cursor, after *lexer.Token) (Expr, error) {
	tok := c.Peek()
	rule, ok := prefixRules[keyOf(tok)]
	if !ok {
		return nil, operandError(tok, after)
	}
	c.Next()

	switch rule.kind {
	case prefixUnary:
		operand, err := parseExpr(c, bpPrefix, false, &tok)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operand: operand, Op: rule.op}, nil

	case prefixGroup:
		inner, err := parseExpr(c, bpLowest, false, nil)
		if err != nil {
			return nil, err
		}
		if !c.accept(lexer.RParen) {
			next := c.Peek()
			if next.Type == lexer.Invalid {
				return nil, invalidChar(next)
			}
			return nil, &sqlerr.Error{
				Kind:     sqlerr.UnmatchedParenthesis,
				Pos:      next.Pos,
				Found:    next.Describe(),
				Expected: []string{")"},
				Message: fmt.Sprintf("parenthesis opened at %s is not closed, found %s",
					tok.Pos, next.Describe()),
			}
		}
		return inner, nil
	}
	return literal(tok), nil
}

func literal(tok lexer.Token) Expr {
	switch tok.Type {
	case lexer.Ident:
		return &Ident{Name: tok.Text}
	case lexer.Number:
		return &NumberLit{Value: tok.Num}
	case lexer.String:
		return &StringLit{Value: tok.Text}
	case lexer.KeywordTok:
		return &BoolLit{Value: tok.Keyword == lexer.True}
	}
	panic(fmt.Sprintf("parser: no literal for token %s", tok.Type))
}

// operandError explains why tok cannot start an operand.
func operandError(tok lexer.Token, after *lexer.Token) error {
	if tok.Type == lexer.Invalid {
		return invalidChar(tok)
	}
	if after != nil {
		return &sqlerr.Error{
			Kind:     sqlerr.DanglingOperator,
			Pos:      tok.Pos,
			Found:    tok.Describe(),
			Expected: []string{"expression"},
			Message:  fmt.Sprintf("operator %s has no operand, found %s", after, tok.Describe()),
		}
	}
	if tok.Type == lexer.EOF {
		return &sqlerr.Error{
			Kind:     sqlerr.UnexpectedToken,
			Pos:      tok.Pos,
			Found:    tok.Describe(),
			Expected: []string{"expression"},
			Message:  "expression ended early",
		}
	}
	return sqlerr.Expect(sqlerr.UnexpectedToken, tok.Pos, tok.Describe(), "expression")
}

func invalidChar(tok lexer.Token) error {
	return &sqlerr.Error{
		Kind:    sqlerr.InvalidCharacter,
		Pos:     tok.Pos,
		Found:   tok.Text,
		Message: fmt.Sprintf("invalid character %q", tok.Text),
	}
}

// unexpected builds a structural error for tok, unless tok is an invalid
// character, which is always reported as such.
func unexpected(tok lexer.Token, kind sqlerr.Kind, expected ...string) error {
	if tok.Type == lexer.Invalid {
		return invalidChar(tok)
	}
	return sqlerr.Expect(kind, tok.Pos, tok.Describe(), expected...)
}
