// Package lexer turns SQL text into tokens.
package lexer

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tuannm99/novaparse/internal/sql/sqlerr"
)

// Tokenizer is a single-pass scanner. It is not safe for concurrent use.
type Tokenizer struct {
	input string
	pos   int // byte offset of the next rune
	line  int
	col   int

	upper cases.Caser
}

// New creates a tokenizer for the input string.
func New(input string) *Tokenizer {
	t := &Tokenizer{input: input, upper: cases.Upper(language.Und)}
	t.Reset()
	return t
}

// Reset rewinds the tokenizer to the start of its input.
func (t *Tokenizer) Reset() {
	t.pos = 0
	t.line = 1
	t.col = 1
}

// Tokenize scans the whole input. The result always ends with one EOF token.
func Tokenize(input string) ([]Token, error) {
	var toks []Token
	for tok, err := range New(input).All() {
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// All restarts the scan and yields tokens up to and including EOF, or up to
// the first error.
func (t *Tokenizer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		t.Reset()
		for {
			tok, err := t.Next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if !yield(tok, nil) || tok.Type == EOF {
				return
			}
		}
	}
}

// Next returns the next token. Once EOF has been returned every further call
// returns EOF again.
func (t *Tokenizer) Next() (Token, error) {
	t.skipWhitespace()
	start := t.position()
	if t.pos >= len(t.input) {
		return Token{Type: EOF, Pos: start}, nil
	}

	r := t.peek()
	switch {
	case r == '\'' || r == '"':
		return t.readString(r)
	case isDigit(r):
		return t.readNumber()
	case isIdentStart(r):
		return t.readIdent(), nil
	}

	t.advance()
	tok := Token{Pos: start}
	switch r {
	case '(':
		tok.Type = LParen
	case ')':
		tok.Type = RParen
	case ',':
		tok.Type = Comma
	case ';':
		tok.Type = Semicolon
	case '*':
		tok.Type = Star
	case '/':
		tok.Type = Slash
	case '+':
		tok.Type = Plus
	case '-':
		tok.Type = Minus
	case '=':
		tok.Type = Eq
	case '>':
		tok.Type = Gt
		if t.match('=') {
			tok.Type = Gte
		}
	case '<':
		tok.Type = Lt
		if t.match('=') {
			tok.Type = Lte
		} else if t.match('>') {
			tok.Type = NotEq
		}
	case '!':
		tok.Type, tok.Text = Invalid, "!"
		if t.match('=') {
			tok.Type, tok.Text = NotEq, ""
		}
	default:
		tok.Type, tok.Text = Invalid, string(r)
	}
	return tok, nil
}

func (t *Tokenizer) readNumber() (Token, error) {
	start := t.position()
	from := t.pos
	for t.pos < len(t.input) && isDigit(t.peek()) {
		t.advance()
	}
	lit := t.input[from:t.pos]
	n, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		return Token{}, sqlerr.New(sqlerr.NumberOutOfRange, start,
			"number %s does not fit in 64 bits", lit)
	}
	return Token{Type: Number, Num: n, Pos: start}, nil
}

func (t *Tokenizer) readIdent() Token {
	start := t.position()
	from := t.pos
	t.advance()
	for t.pos < len(t.input) && isIdentPart(t.peek()) {
		t.advance()
	}
	lit := t.input[from:t.pos]
	if kw, ok := keywords[t.upper.String(lit)]; ok {
		return Token{Type: KeywordTok, Keyword: kw, Pos: start}
	}
	return Token{Type: Ident, Text: lit, Pos: start}
}

func (t *Tokenizer) readString(q rune) (Token, error) {
	start := t.position()
	t.advance()
	var b strings.Builder
	for t.pos < len(t.input) {
		r := t.advance()
		if r == q {
			return Token{Type: String, Text: b.String(), Pos: start}, nil
		}
		b.WriteRune(r)
	}
	return Token{}, &sqlerr.Error{
		Kind:     sqlerr.UnterminatedString,
		Pos:      start,
		Found:    "end of input",
		Expected: []string{string(q)},
		Message:  fmt.Sprintf("unterminated string, no closing %c", q),
	}
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && unicode.IsSpace(t.peek()) {
		t.advance()
	}
}

func (t *Tokenizer) peek() rune {
	r, _ := utf8.DecodeRuneInString(t.input[t.pos:])
	return r
}

// advance consumes one rune and keeps line/column in step.
func (t *Tokenizer) advance() rune {
	r, size := utf8.DecodeRuneInString(t.input[t.pos:])
	t.pos += size
	if r == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
	return r
}

// match consumes the next rune only if it is want.
func (t *Tokenizer) match(want rune) bool {
	if t.pos < len(t.input) && t.peek() == want {
		t.advance()
		return true
	}
	return false
}

func (t *Tokenizer) position() sqlerr.Position {
	return sqlerr.Position{Offset: t.pos, Line: t.line, Column: t.col}
}

// Render joins the textual form of toks so that Tokenize gives them back.
func Render(toks []Token) (string, error) {
	parts := make([]string, 0, len(toks))
	for _, tok := range toks {
		if tok.Type == EOF {
			continue
		}
		if tok.Type == String && strings.ContainsRune(tok.Text, '\'') && strings.ContainsRune(tok.Text, '"') {
			return "", fmt.Errorf("lexer: string %q holds both quote characters", tok.Text)
		}
		parts = append(parts, tok.String())
	}
	return strings.Join(parts, " "), nil
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
