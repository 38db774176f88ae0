package parser

import (
	"github.com/tuannm99/novaparse/internal/sql/lexer"
	"github.com/tuannm99/novaparse/internal/sql/sqlerr"
)

// Parse parses a single SQL statement into an AST.
// Policy: statement MUST end with ';' and nothing may follow it.
func Parse(sql string) (Statement, error) {
	toks, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses a statement from an already tokenized input.
func ParseTokens(toks []lexer.Token) (Statement, error) {
	c := NewCursor(toks)

	var (
		stmt Statement
		err  error
	)
	switch tok := c.Peek(); {
	case tok.IsKeyword(lexer.Select):
		stmt, err = parseSelect(c)
	case tok.IsKeyword(lexer.Create):
		stmt, err = parseCreateTable(c)
	default:
		return nil, unexpected(tok, sqlerr.MissingKeyword, "SELECT", "CREATE")
	}
	if err != nil {
		return nil, err
	}

	if !c.AtEOF() {
		return nil, unexpected(c.Peek(), sqlerr.TrailingInput, "end of input")
	}
	return stmt, nil
}

func parseSelect(c *Cursor) (Statement, error) {
	c.Next() // SELECT

	var columns []Expr
	switch {
	case c.Peek().IsKeyword(lexer.From):
		return nil, emptyList(c.Peek(), "SELECT needs at least one column")
	case c.accept(lexer.Star):
		columns = []Expr{&Wildcard{}}
	default:
		cols, err := parseList(c, ParseExpression)
		if err != nil {
			return nil, err
		}
		columns = cols
	}

	if err := expectKeyword(c, lexer.From); err != nil {
		return nil, err
	}

	tok := c.Peek()
	if tok.Type != lexer.Ident && tok.Type != lexer.String {
		return nil, unexpected(tok, sqlerr.MissingClauseBody, "table name")
	}
	c.Next()
	stmt := &SelectStmt{Columns: columns, From: tok.Text}

	if c.acceptKeyword(lexer.Where) {
		if clauseEnds(c.Peek()) {
			return nil, unexpected(c.Peek(), sqlerr.MissingClauseBody, "WHERE condition")
		}
		where, err := ParseExpression(c)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if c.acceptKeyword(lexer.Order) {
		if err := expectKeyword(c, lexer.By); err != nil {
			return nil, err
		}
		if clauseEnds(c.Peek()) {
			return nil, unexpected(c.Peek(), sqlerr.MissingClauseBody, "ORDER BY expression")
		}
		terms, err := parseList(c, ParseOrderingTerm)
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = terms
	}

	if err := expectPunct(c, lexer.Semicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

func parseCreateTable(c *Cursor) (Statement, error) {
	c.Next() // CREATE

	if err := expectKeyword(c, lexer.Table); err != nil {
		return nil, err
	}

	name, err := expectIdent(c, "table name")
	if err != nil {
		return nil, err
	}

	if err := expectPunct(c, lexer.LParen); err != nil {
		return nil, err
	}
	if c.Peek().Is(lexer.RParen) {
		return nil, emptyList(c.Peek(), "CREATE TABLE needs at least one column")
	}

	var cols []ColumnDef
	for {
		col, err := parseColumnDef(c)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		if !c.accept(lexer.Comma) {
			break
		}
	}

	if err := expectPunct(c, lexer.RParen); err != nil {
		return nil, err
	}
	if err := expectPunct(c, lexer.Semicolon); err != nil {
		return nil, err
	}

	return &CreateTableStmt{TableName: name, Columns: cols}, nil
}

func parseColumnDef(c *Cursor) (ColumnDef, error) {
	name, err := expectIdent(c, "column name")
	if err != nil {
		return ColumnDef{}, err
	}

	typ, err := parseDBType(c)
	if err != nil {
		return ColumnDef{}, err
	}

	col := ColumnDef{Name: name, Type: typ}
	for {
		tok := c.Peek()
		switch {
		case tok.IsKeyword(lexer.Primary):
			c.Next()
			if err := expectKeyword(c, lexer.Key); err != nil {
				return ColumnDef{}, err
			}
			col.Constraints = append(col.Constraints, Constraint{Kind: PrimaryKey})

		case tok.IsKeyword(lexer.Not):
			c.Next()
			if err := expectKeyword(c, lexer.Null); err != nil {
				return ColumnDef{}, err
			}
			col.Constraints = append(col.Constraints, Constraint{Kind: NotNull})

		case tok.IsKeyword(lexer.Check):
			c.Next()
			if err := expectPunct(c, lexer.LParen); err != nil {
				return ColumnDef{}, err
			}
			e, err := ParseExpression(c)
			if err != nil {
				return ColumnDef{}, err
			}
			if err := expectPunct(c, lexer.RParen); err != nil {
				return ColumnDef{}, err
			}
			col.Constraints = append(col.Constraints, Constraint{Kind: CheckConstraint, Check: e})

		case tok.Is(lexer.Comma), tok.Is(lexer.RParen):
			return col, nil

		default:
			return ColumnDef{}, unexpected(tok, sqlerr.MissingPunctuation,
				",", ")", "PRIMARY KEY", "NOT NULL", "CHECK")
		}
	}
}

func parseDBType(c *Cursor) (DBType, error) {
	tok := c.Peek()
	switch {
	case tok.IsKeyword(lexer.Int):
		c.Next()
		return IntType(), nil
	case tok.IsKeyword(lexer.Bool):
		c.Next()
		return BoolType(), nil
	case tok.IsKeyword(lexer.Varchar):
		c.Next()
		if err := expectPunct(c, lexer.LParen); err != nil {
			return DBType{}, err
		}
		n := c.Peek()
		if n.Type != lexer.Number {
			return DBType{}, unexpected(n, sqlerr.MissingClauseBody, "VARCHAR length")
		}
		c.Next()
		if err := expectPunct(c, lexer.RParen); err != nil {
			return DBType{}, err
		}
		return VarcharType(n.Num), nil
	}
	return DBType{}, unexpected(tok, sqlerr.MissingKeyword, "INT", "BOOL", "VARCHAR")
}

// parseList parses item (',' item)*.
func parseList(c *Cursor, item func(*Cursor) (Expr, error)) ([]Expr, error) {
	var out []Expr
	for {
		e, err := item(c)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if !c.accept(lexer.Comma) {
			return out, nil
		}
	}
}

func expectKeyword(c *Cursor, k lexer.Keyword) error {
	if c.acceptKeyword(k) {
		return nil
	}
	return unexpected(c.Peek(), sqlerr.MissingKeyword, k.String())
}

func expectPunct(c *Cursor, tt lexer.TokenType) error {
	if c.accept(tt) {
		return nil
	}
	return unexpected(c.Peek(), sqlerr.MissingPunctuation, lexer.Punct(tt).String())
}

func expectIdent(c *Cursor, what string) (string, error) {
	tok := c.Peek()
	if tok.Type != lexer.Ident {
		return "", unexpected(tok, sqlerr.MissingClauseBody, what)
	}
	c.Next()
	return tok.Text, nil
}

// clauseEnds reports whether tok closes a statement, leaving a clause empty.
func clauseEnds(tok lexer.Token) bool {
	return tok.Type == lexer.Semicolon || tok.Type == lexer.EOF
}

func emptyList(tok lexer.Token, msg string) error {
	return &sqlerr.Error{
		Kind:     sqlerr.EmptyList,
		Pos:      tok.Pos,
		Found:    tok.Describe(),
		Expected: []string{"at least one item"},
		Message:  msg,
	}
}
