package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Statements(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"select a, b from users;", "SELECT a, b FROM users;"},
		{"SELECT * FROM users WHERE age > 18;", "SELECT * FROM users WHERE age > 18;"},
		{
			"SELECT id FROM t WHERE a = 1 AND b != 'x' ORDER BY id DESC, name;",
			"SELECT id FROM t WHERE (a = 1) AND (b <> 'x') ORDER BY id DESC, name;",
		},
		{`SELECT a FROM "my table";`, "SELECT a FROM 'my table';"},
		{
			"CREATE TABLE t(id INT PRIMARY KEY, s VARCHAR(20) NOT NULL, age INT CHECK(age >= 18));",
			"CREATE TABLE t(id INT PRIMARY KEY, s VARCHAR(20) NOT NULL, age INT CHECK(age >= 18));",
		},
	}
	for _, tc := range cases {
		stmt, err := Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, stmt.String(), tc.in)
	}
}

func TestFormat_Expressions(t *testing.T) {
	cases := []struct {
		e    Expr
		want string
	}{
		{bin(num(1), OpPlus, bin(num(2), OpMultiply, num(3))), "1 + (2 * 3)"},
		{un(num(8), UnaryMinus), "-8"},
		{un(id("flag"), UnaryNot), "NOT flag"},
		{un(bin(id("a"), OpAnd, id("b")), UnaryNot), "NOT (a AND b)"},
		{un(id("id"), UnaryDesc), "id DESC"},
		{str("it's"), `"it's"`},
		{boolean(false), "FALSE"},
		{&Wildcard{}, "*"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.e.String())
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		"SELECT name, surname FROM users;",
		`SELECT name, surname FROM users WHERE name = "Voldemort" AND surname = 'Riddle';`,
		"SELECT id, salary FROM users ORDER BY salary - 2 * 10 ASC, id DESC;",
		"SELECT 7 - -8, NOT a = TRUE, (5 - x) < (4 + y) OR name = 'Donna' FROM t;",
		"SELECT * FROM registered_users WHERE password_encryption = TRUE ORDER BY id DESC;",
		`SELECT "it's" FROM t;`,
		"CREATE TABLE complex_table(id INT PRIMARY KEY, email VARCHAR(255) NOT NULL, age INT CHECK(age >= 18) CHECK(age <= 65));",
	}
	for _, in := range inputs {
		first, err := Parse(in)
		require.NoError(t, err, in)

		again, err := Parse(first.String())
		require.NoError(t, err, "reparse of %q", first.String())
		assert.Equal(t, first, again, in)
	}
}

func TestDBType_String(t *testing.T) {
	assert.Equal(t, "INT", IntType().String())
	assert.Equal(t, "BOOL", BoolType().String())
	assert.Equal(t, "VARCHAR(64)", VarcharType(64).String())
}
