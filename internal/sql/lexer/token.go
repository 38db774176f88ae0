package lexer

import (
	"strconv"
	"strings"

	"github.com/tuannm99/novaparse/internal/sql/sqlerr"
)

// TokenType identifies a lexical token.
type TokenType int

const (
	Invalid TokenType = iota
	EOF
	KeywordTok
	Ident
	String
	Number

	LParen
	RParen
	Gt
	Gte
	Lt
	Lte
	Eq
	NotEq
	Star
	Slash
	Minus
	Plus
	Comma
	Semicolon
)

var tokenTypeNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	KeywordTok: "Keyword",
	Ident:      "Ident",
	String:     "String",
	Number:     "Number",
	LParen:     "LParen",
	RParen:     "RParen",
	Gt:         "Gt",
	Gte:        "Gte",
	Lt:         "Lt",
	Lte:        "Lte",
	Eq:         "Eq",
	NotEq:      "NotEq",
	Star:       "Star",
	Slash:      "Slash",
	Minus:      "Minus",
	Plus:       "Plus",
	Comma:      "Comma",
	Semicolon:  "Semicolon",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

// punctuation spelling, also used when rendering tokens back to text.
var punctText = map[TokenType]string{
	LParen:    "(",
	RParen:    ")",
	Gt:        ">",
	Gte:       ">=",
	Lt:        "<",
	Lte:       "<=",
	Eq:        "=",
	NotEq:     "<>",
	Star:      "*",
	Slash:     "/",
	Minus:     "-",
	Plus:      "+",
	Comma:     ",",
	Semicolon: ";",
}

// Keyword is one of the reserved words of the dialect.
type Keyword int

const (
	NoKeyword Keyword = iota
	Select
	Create
	Table
	Where
	Order
	By
	Asc
	Desc
	From
	And
	Or
	Not
	True
	False
	Primary
	Key
	Check
	Int
	Bool
	Varchar
	Null
)

var keywordNames = [...]string{
	NoKeyword: "",
	Select:    "SELECT",
	Create:    "CREATE",
	Table:     "TABLE",
	Where:     "WHERE",
	Order:     "ORDER",
	By:        "BY",
	Asc:       "ASC",
	Desc:      "DESC",
	From:      "FROM",
	And:       "AND",
	Or:        "OR",
	Not:       "NOT",
	True:      "TRUE",
	False:     "FALSE",
	Primary:   "PRIMARY",
	Key:       "KEY",
	Check:     "CHECK",
	Int:       "INT",
	Bool:      "BOOL",
	Varchar:   "VARCHAR",
	Null:      "NULL",
}

// keywords maps the upper-case spelling to its keyword.
var keywords = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordNames))
	for k, name := range keywordNames {
		if name != "" {
			m[name] = Keyword(k)
		}
	}
	return m
}()

func (k Keyword) String() string {
	if int(k) < len(keywordNames) {
		return keywordNames[k]
	}
	return "Keyword(" + strconv.Itoa(int(k)) + ")"
}

// Token holds a lexed token. Pos is context for diagnostics only.
type Token struct {
	Type    TokenType
	Keyword Keyword
	Text    string // identifier, string value or the invalid character
	Num     uint64
	Pos     sqlerr.Position
}

// Constructors used by tests and by code that builds token streams by hand.

func Kw(k Keyword) Token      { return Token{Type: KeywordTok, Keyword: k} }
func Id(name string) Token    { return Token{Type: Ident, Text: name} }
func Str(s string) Token      { return Token{Type: String, Text: s} }
func Num(n uint64) Token      { return Token{Type: Number, Num: n} }
func Punct(t TokenType) Token { return Token{Type: t} }
func Bad(r rune) Token        { return Token{Type: Invalid, Text: string(r)} }
func EOFToken() Token         { return Token{Type: EOF} }

func (t Token) Is(tt TokenType) bool { return t.Type == tt }

// IsKeyword reports whether t is the keyword k.
func (t Token) IsKeyword(k Keyword) bool {
	return t.Type == KeywordTok && t.Keyword == k
}

// Equal compares tokens ignoring their position.
func (t Token) Equal(o Token) bool {
	return t.Type == o.Type && t.Keyword == o.Keyword && t.Text == o.Text && t.Num == o.Num
}

// String renders the token as source text. Tokenizing the result yields t
// again, except for strings holding both quote characters.
func (t Token) String() string {
	switch t.Type {
	case KeywordTok:
		return t.Keyword.String()
	case Ident, Invalid:
		return t.Text
	case Number:
		return strconv.FormatUint(t.Num, 10)
	case String:
		return quote(t.Text)
	case EOF:
		return ""
	}
	return punctText[t.Type]
}

// Describe names the token for error messages.
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier " + strconv.Quote(t.Text)
	case String:
		return "string " + quote(t.Text)
	case Number:
		return "number " + strconv.FormatUint(t.Num, 10)
	case Invalid:
		return "invalid character " + strconv.Quote(t.Text)
	}
	return t.String()
}

func quote(s string) string {
	if strings.ContainsRune(s, '\'') {
		return `"` + s + `"`
	}
	return "'" + s + "'"
}

// TokenView is the plain-data form of a token used by the shell and the
// parse service.
type TokenView struct {
	Type string          `json:"type" yaml:"type"`
	Text string          `json:"text,omitempty" yaml:"text,omitempty"`
	Pos  sqlerr.Position `json:"pos" yaml:"pos"`
}

func (t Token) View() TokenView {
	return TokenView{Type: t.Type.String(), Text: t.String(), Pos: t.Pos}
}

// Views tokenizes input and converts every token, EOF included.
func Views(input string) ([]TokenView, error) {
	toks, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	out := make([]TokenView, len(toks))
	for i, tok := range toks {
		out[i] = tok.View()
	}
	return out, nil
}
