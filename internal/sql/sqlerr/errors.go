// Package sqlerr is the failure vocabulary shared by the tokenizer, the
// expression parser and the statement parser.
package sqlerr

import (
	"errors"
	"fmt"
	"strings"
)

// Class groups kinds by the stage that produces them.
type Class string

const (
	ClassLexical    Class = "lexical"
	ClassExpression Class = "expression"
	ClassStructural Class = "structural"
)

// Kind identifies a single failure.
type Kind string

const (
	// lexical
	InvalidCharacter   Kind = "invalid_character"
	UnterminatedString Kind = "unterminated_string"
	NumberOutOfRange   Kind = "number_out_of_range"

	// expression
	UnexpectedToken      Kind = "unexpected_token"
	DanglingOperator     Kind = "dangling_operator"
	UnmatchedParenthesis Kind = "unmatched_parenthesis"

	// structural
	MissingKeyword     Kind = "missing_keyword"
	MissingPunctuation Kind = "missing_punctuation"
	MissingClauseBody  Kind = "missing_clause_body"
	EmptyList          Kind = "empty_list"
	TrailingInput      Kind = "trailing_input"
)

// Class returns the stage a kind belongs to.
func (k Kind) Class() Class {
	switch k {
	case InvalidCharacter, UnterminatedString, NumberOutOfRange:
		return ClassLexical
	case UnexpectedToken, DanglingOperator, UnmatchedParenthesis:
		return ClassExpression
	default:
		return ClassStructural
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidCharacter   = &Error{Kind: InvalidCharacter}
	ErrUnterminatedString = &Error{Kind: UnterminatedString}
	ErrNumberOutOfRange   = &Error{Kind: NumberOutOfRange}

	ErrUnexpectedToken      = &Error{Kind: UnexpectedToken}
	ErrDanglingOperator     = &Error{Kind: DanglingOperator}
	ErrUnmatchedParenthesis = &Error{Kind: UnmatchedParenthesis}

	ErrMissingKeyword     = &Error{Kind: MissingKeyword}
	ErrMissingPunctuation = &Error{Kind: MissingPunctuation}
	ErrMissingClauseBody  = &Error{Kind: MissingClauseBody}
	ErrEmptyList          = &Error{Kind: EmptyList}
	ErrTrailingInput      = &Error{Kind: TrailingInput}
)

// Position locates a character in the source. Line and Column are 1-based;
// Column counts runes. The zero Position means "unknown".
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Error is a malformed-input failure. It never carries a partial tree.
type Error struct {
	Kind     Kind     `json:"kind"`
	Message  string   `json:"message"`
	Pos      Position `json:"pos"`
	Found    string   `json:"found,omitempty"`
	Expected []string `json:"expected,omitempty"`
}

func (e *Error) Class() Class { return e.Kind.Class() }

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Pos.IsValid() {
		sb.WriteString(e.Pos.String())
		sb.WriteString(": ")
	}
	sb.WriteString(string(e.Kind.Class()))
	sb.WriteString(" error: ")
	sb.WriteString(e.Message)
	return sb.String()
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an error with a formatted message.
func New(kind Kind, pos Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Expect builds the common "expected X, found Y" error.
func Expect(kind Kind, pos Position, found string, expected ...string) *Error {
	return &Error{
		Kind:     kind,
		Pos:      pos,
		Found:    found,
		Expected: expected,
		Message:  fmt.Sprintf("expected %s, found %s", joinAlternatives(expected), found),
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func joinAlternatives(alts []string) string {
	switch len(alts) {
	case 0:
		return "nothing"
	case 1:
		return alts[0]
	case 2:
		return alts[0] + " or " + alts[1]
	}
	return strings.Join(alts[:len(alts)-1], ", ") + " or " + alts[len(alts)-1]
}
