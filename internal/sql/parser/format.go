package parser

import (
	"strconv"
	"strings"

	"github.com/tuannm99/novaparse/internal/sql/lexer"
)

var binaryOpText = [...]string{
	OpPlus:               "+",
	OpMinus:              "-",
	OpMultiply:           "*",
	OpDivide:             "/",
	OpGreaterThan:        ">",
	OpGreaterThanOrEqual: ">=",
	OpLessThan:           "<",
	OpLessThanOrEqual:    "<=",
	OpEqual:              "=",
	OpNotEqual:           "<>",
	OpAnd:                "AND",
	OpOr:                 "OR",
}

func (op BinaryOperator) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "BinaryOperator(" + strconv.Itoa(int(op)) + ")"
}

var unaryOpText = [...]string{
	UnaryNot:   "NOT",
	UnaryPlus:  "+",
	UnaryMinus: "-",
	UnaryAsc:   "ASC",
	UnaryDesc:  "DESC",
}

func (op UnaryOperator) String() string {
	if int(op) < len(unaryOpText) {
		return unaryOpText[op]
	}
	return "UnaryOperator(" + strconv.Itoa(int(op)) + ")"
}

// Postfix reports whether op is written after its operand.
func (op UnaryOperator) Postfix() bool { return op == UnaryAsc || op == UnaryDesc }

func (t DBType) String() string {
	switch t.Kind {
	case TypeInt:
		return "INT"
	case TypeBool:
		return "BOOL"
	case TypeVarchar:
		return "VARCHAR(" + strconv.FormatUint(t.Length, 10) + ")"
	}
	return "TypeKind(" + strconv.Itoa(int(t.Kind)) + ")"
}

func (c Constraint) String() string {
	switch c.Kind {
	case NotNull:
		return "NOT NULL"
	case PrimaryKey:
		return "PRIMARY KEY"
	case CheckConstraint:
		return "CHECK(" + c.Check.String() + ")"
	}
	return "ConstraintKind(" + strconv.Itoa(int(c.Kind)) + ")"
}

func (c ColumnDef) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte(' ')
	sb.WriteString(c.Type.String())
	for _, con := range c.Constraints {
		sb.WriteByte(' ')
		sb.WriteString(con.String())
	}
	return sb.String()
}

// String renders the statement as SQL that parses back to an equal tree.
func (s *SelectStmt) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	writeExprList(&sb, s.Columns)
	sb.WriteString(" FROM ")
	sb.WriteString(tableName(s.From))
	if s.Where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(s.Where.String())
	}
	if len(s.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		writeExprList(&sb, s.OrderBy)
	}
	sb.WriteByte(';')
	return sb.String()
}

func (s *CreateTableStmt) String() string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(s.TableName)
	sb.WriteByte('(')
	for i, col := range s.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col.String())
	}
	sb.WriteString(");")
	return sb.String()
}

// Nested operations are parenthesised, so the output never depends on
// precedence.
func (e *BinaryExpr) String() string {
	return operand(e.Left) + " " + e.Op.String() + " " + operand(e.Right)
}

func (e *UnaryExpr) String() string {
	switch e.Op {
	case UnaryAsc, UnaryDesc:
		return e.Operand.String() + " " + e.Op.String()
	case UnaryNot:
		return "NOT " + operand(e.Operand)
	}
	return e.Op.String() + operand(e.Operand)
}

func (e *NumberLit) String() string { return strconv.FormatUint(e.Value, 10) }

func (e *BoolLit) String() string {
	if e.Value {
		return "TRUE"
	}
	return "FALSE"
}

func (e *Ident) String() string     { return e.Name }
func (e *StringLit) String() string { return lexer.Str(e.Value).String() }
func (*Wildcard) String() string    { return "*" }

func operand(e Expr) string {
	switch e.(type) {
	case *BinaryExpr, *UnaryExpr:
		return "(" + e.String() + ")"
	}
	return e.String()
}

func writeExprList(sb *strings.Builder, list []Expr) {
	for i, e := range list {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
}

// tableName keeps plain identifiers bare and quotes anything else, such as a
// name that came from a string literal.
func tableName(name string) string {
	toks, err := lexer.Tokenize(name)
	if err == nil && len(toks) == 2 && toks[0].Type == lexer.Ident && toks[0].Text == name {
		return name
	}
	return lexer.Str(name).String()
}
