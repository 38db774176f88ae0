package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Class(t *testing.T) {
	cases := []struct {
		kind Kind
		want Class
	}{
		{InvalidCharacter, ClassLexical},
		{UnterminatedString, ClassLexical},
		{NumberOutOfRange, ClassLexical},
		{UnexpectedToken, ClassExpression},
		{DanglingOperator, ClassExpression},
		{UnmatchedParenthesis, ClassExpression},
		{MissingKeyword, ClassStructural},
		{MissingPunctuation, ClassStructural},
		{MissingClauseBody, ClassStructural},
		{EmptyList, ClassStructural},
		{TrailingInput, ClassStructural},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.kind.Class(), "kind %s", tc.kind)
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := Expect(MissingKeyword, Position{Offset: 14, Line: 1, Column: 15}, "WHERE", "FROM")
	require.ErrorIs(t, err, ErrMissingKeyword)
	assert.NotErrorIs(t, err, ErrMissingPunctuation)

	wrapped := fmt.Errorf("shell: %w", err)
	require.ErrorIs(t, wrapped, ErrMissingKeyword)
	assert.Equal(t, MissingKeyword, KindOf(wrapped))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestError_Message(t *testing.T) {
	err := Expect(MissingKeyword, Position{Line: 1, Column: 15}, "WHERE", "FROM")
	assert.Equal(t, "line 1, column 15: structural error: expected FROM, found WHERE", err.Error())
	assert.Equal(t, []string{"FROM"}, err.Expected)
	assert.Equal(t, "WHERE", err.Found)

	err = Expect(MissingKeyword, Position{}, "end of input", "SELECT", "CREATE")
	assert.Equal(t, "structural error: expected SELECT or CREATE, found end of input", err.Error())

	err = Expect(UnexpectedToken, Position{Line: 2, Column: 1}, "FOO", "PRIMARY", "NOT", "CHECK")
	assert.Contains(t, err.Error(), "expected PRIMARY, NOT or CHECK")
}

func TestNew_FormatsMessage(t *testing.T) {
	err := New(InvalidCharacter, Position{Line: 1, Column: 3}, "invalid character %q", '@')
	assert.Equal(t, "line 1, column 3: lexical error: invalid character '@'", err.Error())
	assert.Equal(t, ClassLexical, err.Class())
}
