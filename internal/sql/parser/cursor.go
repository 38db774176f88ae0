package parser

import "github.com/tuannm99/novaparse/internal/sql/lexer"

// Cursor walks a token sequence. Both the statement and the expression
// parser advance the same Cursor; it only moves forward.
type Cursor struct {
	toks []lexer.Token
	pos  int
}

// NewCursor wraps toks. A missing trailing EOF is added.
func NewCursor(toks []lexer.Token) *Cursor {
	if n := len(toks); n == 0 || toks[n-1].Type != lexer.EOF {
		toks = append(toks[:n:n], lexer.EOFToken())
	}
	return &Cursor{toks: toks}
}

// Peek returns the current token without consuming it.
func (c *Cursor) Peek() lexer.Token {
	return c.toks[c.pos]
}

// Next consumes and returns the current token. EOF is never consumed.
func (c *Cursor) Next() lexer.Token {
	tok := c.toks[c.pos]
	if tok.Type != lexer.EOF {
		c.pos++
	}
	return tok
}

// Pos is the index of the current token.
func (c *Cursor) Pos() int { return c.pos }

// AtEOF reports whether every token but EOF has been consumed.
func (c *Cursor) AtEOF() bool { return c.Peek().Type == lexer.EOF }

// accept consumes the current token if it has type tt.
func (c *Cursor) accept(tt lexer.TokenType) bool {
	if c.Peek().Type == tt {
		c.Next()
		return true
	}
	return false
}

// acceptKeyword consumes the current token if it is keyword k.
func (c *Cursor) acceptKeyword(k lexer.Keyword) bool {
	if c.Peek().IsKeyword(k) {
		c.Next()
		return true
	}
	return false
}
