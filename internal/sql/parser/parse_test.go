package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novaparse/internal/sql/lexer"
	"github.com/tuannm99/novaparse/internal/sql/sqlerr"
)

func mustSelect(t *testing.T, sql string) *SelectStmt {
	t.Helper()
	stmt, err := Parse(sql)
	require.NoError(t, err, "Parse(%q)", sql)
	s, ok := stmt.(*SelectStmt)
	require.True(t, ok, "want *SelectStmt, got %T", stmt)
	return s
}

func mustCreate(t *testing.T, sql string) *CreateTableStmt {
	t.Helper()
	stmt, err := Parse(sql)
	require.NoError(t, err, "Parse(%q)", sql)
	s, ok := stmt.(*CreateTableStmt)
	require.True(t, ok, "want *CreateTableStmt, got %T", stmt)
	return s
}

func TestParse_RequireSemicolon(t *testing.T) {
	_, err := Parse("SELECT * FROM users")
	require.ErrorIs(t, err, sqlerr.ErrMissingPunctuation)
	require.Contains(t, err.Error(), "expected ;")
}

func TestParse_Select_Simple(t *testing.T) {
	s := mustSelect(t, "SELECT name, surname FROM users;")

	assert.Equal(t, &SelectStmt{
		Columns: []Expr{id("name"), id("surname")},
		From:    "users",
	}, s)
	assert.Nil(t, s.Where)
	assert.Empty(t, s.OrderBy)
}

func TestParse_Select_ExpressionColumns(t *testing.T) {
	s := mustSelect(t, "SELECT age * 5, 'this is a string' FROM users;")
	assert.Equal(t, []Expr{bin(id("age"), OpMultiply, num(5)), str("this is a string")}, s.Columns)
}

func TestParse_Select_Where(t *testing.T) {
	s := mustSelect(t, `SELECT name, surname FROM users WHERE name = "Voldemort" AND surname = 'Riddle';`)

	assert.Equal(t,
		bin(bin(id("name"), OpEqual, str("Voldemort")), OpAnd, bin(id("surname"), OpEqual, str("Riddle"))),
		s.Where)
}

func TestParse_Select_ComplexWhere(t *testing.T) {
	s := mustSelect(t, "SELECT id FROM users WHERE age >= 18 AND (salary > 50000 OR experience >= 5);")

	assert.Equal(t,
		bin(
			bin(id("age"), OpGreaterThanOrEqual, num(18)),
			OpAnd,
			bin(bin(id("salary"), OpGreaterThan, num(50000)), OpOr, bin(id("experience"), OpGreaterThanOrEqual, num(5))),
		),
		s.Where)
}

func TestParse_Select_OrderBy(t *testing.T) {
	s := mustSelect(t, "SELECT id, salary FROM users ORDER BY salary - 2 * 10 ASC, id DESC;")

	assert.Equal(t, []Expr{
		un(bin(id("salary"), OpMinus, bin(num(2), OpMultiply, num(10))), UnaryAsc),
		un(id("id"), UnaryDesc),
	}, s.OrderBy)
}

func TestParse_Select_WhereAndOrderBy(t *testing.T) {
	s := mustSelect(t, "SELECT id FROM registered_users WHERE password_encryption = TRUE ORDER BY id DESC;")

	assert.Equal(t, &SelectStmt{
		Columns: []Expr{id("id")},
		From:    "registered_users",
		Where:   bin(id("password_encryption"), OpEqual, boolean(true)),
		OrderBy: []Expr{un(id("id"), UnaryDesc)},
	}, s)
}

func TestParse_Select_OrderByWithoutDirection(t *testing.T) {
	s := mustSelect(t, "select a from t order by a, b + 1;")
	assert.Equal(t, []Expr{id("a"), bin(id("b"), OpPlus, num(1))}, s.OrderBy)
}

func TestParse_Select_Star(t *testing.T) {
	s := mustSelect(t, "SELECT * FROM users WHERE age > 18;")
	assert.Equal(t, []Expr{&Wildcard{}}, s.Columns)
	assert.Equal(t, bin(id("age"), OpGreaterThan, num(18)), s.Where)

	// * is still multiplication inside a column expression
	s = mustSelect(t, "SELECT age * 2 FROM users;")
	assert.Equal(t, []Expr{bin(id("age"), OpMultiply, num(2))}, s.Columns)
}

func TestParse_Select_StringTableName(t *testing.T) {
	s := mustSelect(t, `SELECT a FROM "my table";`)
	assert.Equal(t, "my table", s.From)
}

func TestParse_CreateTable_Simple(t *testing.T) {
	s := mustCreate(t, `CREATE TABLE simple_table(
	int_col INT,
	string_col VARCHAR(255),
	bool_col BOOL
);`)

	assert.Equal(t, &CreateTableStmt{
		TableName: "simple_table",
		Columns: []ColumnDef{
			{Name: "int_col", Type: IntType()},
			{Name: "string_col", Type: VarcharType(255)},
			{Name: "bool_col", Type: BoolType()},
		},
	}, s)
}

func TestParse_CreateTable_Constraints(t *testing.T) {
	s := mustCreate(t, `CREATE TABLE complex_table(
	id INT PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	is_junior BOOL,
	age INT CHECK(age >= 18) CHECK(age <= 65)
);`)

	require.Len(t, s.Columns, 4)
	assert.Equal(t, "complex_table", s.TableName)
	assert.Equal(t, ColumnDef{Name: "id", Type: IntType(), Constraints: []Constraint{{Kind: PrimaryKey}}}, s.Columns[0])
	assert.Equal(t, ColumnDef{Name: "email", Type: VarcharType(255), Constraints: []Constraint{{Kind: NotNull}}}, s.Columns[1])
	assert.Equal(t, ColumnDef{Name: "is_junior", Type: BoolType()}, s.Columns[2])
	assert.Equal(t, ColumnDef{
		Name: "age",
		Type: IntType(),
		Constraints: []Constraint{
			{Kind: CheckConstraint, Check: bin(id("age"), OpGreaterThanOrEqual, num(18))},
			{Kind: CheckConstraint, Check: bin(id("age"), OpLessThanOrEqual, num(65))},
		},
	}, s.Columns[3])
}

func TestParse_CreateTable_ConstraintOrderPreserved(t *testing.T) {
	s := mustCreate(t, "CREATE TABLE t(id INT NOT NULL CHECK(id > 0) PRIMARY KEY NOT NULL);")
	kinds := make([]ConstraintKind, 0, len(s.Columns[0].Constraints))
	for _, c := range s.Columns[0].Constraints {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []ConstraintKind{NotNull, CheckConstraint, PrimaryKey, NotNull}, kinds)
}

func TestParse_Tokens(t *testing.T) {
	stmt, err := ParseTokens([]lexer.Token{
		lexer.Kw(lexer.Select), lexer.Id("a"), lexer.Kw(lexer.From), lexer.Id("t"), lexer.Punct(lexer.Semicolon),
	})
	require.NoError(t, err)
	assert.Equal(t, &SelectStmt{Columns: []Expr{id("a")}, From: "t"}, stmt)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		sql  string
		want *sqlerr.Error
	}{
		// structural
		{"SELECT salary WHERE salary > 1000;", sqlerr.ErrMissingKeyword},
		{"CREATE TABLE work_hours(num_hours INT)", sqlerr.ErrMissingPunctuation},
		{"SELECT id;", sqlerr.ErrMissingKeyword},
		{"", sqlerr.ErrMissingKeyword},
		{"UPDATE t SET a = 1;", sqlerr.ErrMissingKeyword},
		{"DROP TABLE t;", sqlerr.ErrMissingKeyword},
		{"CREATE users(id INT);", sqlerr.ErrMissingKeyword},
		{"SELECT a FROM t ORDER salary;", sqlerr.ErrMissingKeyword},
		{"CREATE TABLE t(id INT PRIMARY);", sqlerr.ErrMissingKeyword},
		{"CREATE TABLE t(id INT NOT);", sqlerr.ErrMissingKeyword},
		{"CREATE TABLE users(id INT, age INVALID);", sqlerr.ErrMissingKeyword},
		{"CREATE TABLE t(id);", sqlerr.ErrMissingKeyword},
		{"SELECT a FROM;", sqlerr.ErrMissingClauseBody},
		{"SELECT a FROM 5;", sqlerr.ErrMissingClauseBody},
		{"SELECT id FROM users ORDER BY;", sqlerr.ErrMissingClauseBody},
		{"SELECT id FROM users WHERE;", sqlerr.ErrMissingClauseBody},
		{"CREATE TABLE (id INT);", sqlerr.ErrMissingClauseBody},
		{"CREATE TABLE t(5 INT);", sqlerr.ErrMissingClauseBody},
		{"CREATE TABLE t(s VARCHAR());", sqlerr.ErrMissingClauseBody},
		{"CREATE TABLE t(s VARCHAR);", sqlerr.ErrMissingPunctuation},
		{"CREATE TABLE t(s VARCHAR(10);", sqlerr.ErrMissingPunctuation},
		{"CREATE TABLE t id INT;", sqlerr.ErrMissingPunctuation},
		{"CREATE TABLE t(id INT;", sqlerr.ErrMissingPunctuation},
		{"CREATE TABLE t(id INT UNIQUE);", sqlerr.ErrMissingPunctuation},
		{"CREATE TABLE t(a INT CHECK a > 0);", sqlerr.ErrMissingPunctuation},
		{"CREATE TABLE t(a INT CHECK(a > 0);", sqlerr.ErrMissingPunctuation},
		{"SELECT a FROM t WHERE a > 1 b;", sqlerr.ErrMissingPunctuation},
		{"SELECT a FROM t ORDER BY a ASC DESC;", sqlerr.ErrMissingPunctuation},
		{"CREATE TABLE t();", sqlerr.ErrEmptyList},
		{"SELECT FROM t;", sqlerr.ErrEmptyList},
		{"SELECT a FROM t; SELECT b FROM t;", sqlerr.ErrTrailingInput},

		// expression
		{"SELECT 5 * 3 - 4 + c / (13 -) FROM t;", sqlerr.ErrDanglingOperator},
		{"SELECT a, FROM t;", sqlerr.ErrUnexpectedToken},
		{"SELECT a FROM t WHERE (a > 1;", sqlerr.ErrUnmatchedParenthesis},
		{"SELECT a FROM t WHERE a > 1 AND;", sqlerr.ErrDanglingOperator},
		{"SELECT ) FROM t;", sqlerr.ErrUnexpectedToken},

		// lexical
		{"SELECT a FROM t WHERE a = 'unterminated;", sqlerr.ErrUnterminatedString},
		{"SELECT a @ b FROM t;", sqlerr.ErrInvalidCharacter},
		{"SELECT a FROM t WHERE a ! b;", sqlerr.ErrInvalidCharacter},
		{"SELECT a FROM t;#", sqlerr.ErrInvalidCharacter},
		{"#SELECT a FROM t;", sqlerr.ErrInvalidCharacter},
		{"SELECT 99999999999999999999 FROM t;", sqlerr.ErrNumberOutOfRange},
	}
	for _, tc := range cases {
		stmt, err := Parse(tc.sql)
		require.Error(t, err, "Parse(%q)", tc.sql)
		assert.Nil(t, stmt, "no partial statement for %q", tc.sql)
		assert.ErrorIs(t, err, tc.want, "Parse(%q): %v", tc.sql, err)
	}
}

func TestParse_ErrorContext(t *testing.T) {
	_, err := Parse("SELECT salary WHERE salary > 1000;")

	var perr *sqlerr.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, sqlerr.ClassStructural, perr.Class())
	assert.Equal(t, []string{"FROM"}, perr.Expected)
	assert.Equal(t, "WHERE", perr.Found)
	assert.Equal(t, 15, perr.Pos.Column)
	assert.Equal(t, "line 1, column 15: structural error: expected FROM, found WHERE", perr.Error())

	_, err = Parse("INSERT INTO t VALUES (1);")
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"SELECT", "CREATE"}, perr.Expected)
	assert.Equal(t, `identifier "INSERT"`, perr.Found)
}

func TestParse_KeywordsAreNotIdentifiers(t *testing.T) {
	_, err := Parse("SELECT select FROM t;")
	require.ErrorIs(t, err, sqlerr.ErrUnexpectedToken)

	_, err = Parse("CREATE TABLE t(table INT);")
	require.ErrorIs(t, err, sqlerr.ErrMissingClauseBody)
}

func TestParse_Independent(t *testing.T) {
	const sql = "SELECT a FROM t WHERE a > 1;"
	first, err := Parse(sql)
	require.NoError(t, err)
	second, err := Parse(sql)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}
