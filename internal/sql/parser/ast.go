package parser

// Statement is the root interface for all SQL statements.
type Statement interface {
	stmtNode()
	String() string
}

// ----- SELECT -----

// SelectStmt is SELECT <columns> FROM <table> [WHERE <expr>] [ORDER BY <terms>].
// Where is nil when the clause is absent. OrderBy items carry their ASC/DESC
// as a UnaryExpr wrapper.
type SelectStmt struct {
	Columns []Expr
	From    string
	Where   Expr
	OrderBy []Expr
}

func (*SelectStmt) stmtNode() {}

// ----- CREATE TABLE -----

type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeBool
	TypeVarchar
)

// DBType is a column type. Length is only meaningful for VARCHAR.
type DBType struct {
	Kind   TypeKind
	Length uint64
}

func IntType() DBType                  { return DBType{Kind: TypeInt} }
func BoolType() DBType                 { return DBType{Kind: TypeBool} }
func VarcharType(length uint64) DBType { return DBType{Kind: TypeVarchar, Length: length} }

type ConstraintKind int

const (
	NotNull ConstraintKind = iota
	PrimaryKey
	CheckConstraint
)

// Constraint restricts a column. Check is set only for CHECK constraints.
type Constraint struct {
	Kind  ConstraintKind
	Check Expr
}

type ColumnDef struct {
	Name        string
	Type        DBType
	Constraints []Constraint // in source order
}

type CreateTableStmt struct {
	TableName string
	Columns   []ColumnDef
}

func (*CreateTableStmt) stmtNode() {}

// ----- Expressions -----

type Expr interface {
	exprNode()
	String() string
}

type BinaryOperator int

const (
	OpPlus BinaryOperator = iota
	OpMinus
	OpMultiply
	OpDivide
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpEqual
	OpNotEqual
	OpAnd
	OpOr
)

type UnaryOperator int

const (
	UnaryNot UnaryOperator = iota
	UnaryPlus
	UnaryMinus
	UnaryAsc
	UnaryDesc
)

type BinaryExpr struct {
	Left  Expr
	Op    BinaryOperator
	Right Expr
}

func (*BinaryExpr) exprNode() {}

type UnaryExpr struct {
	Operand Expr
	Op      UnaryOperator
}

func (*UnaryExpr) exprNode() {}

type NumberLit struct {
	Value uint64
}

func (*NumberLit) exprNode() {}

type BoolLit struct {
	Value bool
}

func (*BoolLit) exprNode() {}

type Ident struct {
	Name string
}

func (*Ident) exprNode() {}

type StringLit struct {
	Value string
}

func (*StringLit) exprNode() {}

// Wildcard is the lone * of SELECT *.
type Wildcard struct{}

func (*Wildcard) exprNode() {}
