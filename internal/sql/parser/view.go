package parser

import (
	"fmt"
	"strings"
)

// StatementView is a plain-data mirror of a Statement for JSON/YAML output
// and for shipping parse results over the wire.
type StatementView struct {
	Kind string `json:"kind" yaml:"kind"` // "select" or "create_table"

	// SELECT
	Columns []*ExprView `json:"columns,omitempty" yaml:"columns,omitempty"`
	From    string      `json:"from,omitempty" yaml:"from,omitempty"`
	Where   *ExprView   `json:"where,omitempty" yaml:"where,omitempty"`
	OrderBy []*ExprView `json:"order_by,omitempty" yaml:"order_by,omitempty"`

	// CREATE TABLE
	Table      string       `json:"table,omitempty" yaml:"table,omitempty"`
	ColumnDefs []ColumnView `json:"column_defs,omitempty" yaml:"column_defs,omitempty"`
}

type ColumnView struct {
	Name        string           `json:"name" yaml:"name"`
	Type        string           `json:"type" yaml:"type"`
	Constraints []ConstraintView `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

type ConstraintView struct {
	Kind  string    `json:"kind" yaml:"kind"` // "not_null", "primary_key", "check"
	Check *ExprView `json:"check,omitempty" yaml:"check,omitempty"`
}

// ExprView is one expression node. Only the fields of its Kind are set.
type ExprView struct {
	Kind    string    `json:"kind" yaml:"kind"` // binary, unary, number, bool, identifier, string, wildcard
	Op      string    `json:"op,omitempty" yaml:"op,omitempty"`
	Left    *ExprView `json:"left,omitempty" yaml:"left,omitempty"`
	Right   *ExprView `json:"right,omitempty" yaml:"right,omitempty"`
	Operand *ExprView `json:"operand,omitempty" yaml:"operand,omitempty"`
	Number  *uint64   `json:"number,omitempty" yaml:"number,omitempty"`
	Bool    *bool     `json:"bool,omitempty" yaml:"bool,omitempty"`
	Name    string    `json:"name,omitempty" yaml:"name,omitempty"`
	String  *string   `json:"string,omitempty" yaml:"string,omitempty"`
}

// View converts stmt into its plain-data form.
func View(stmt Statement) *StatementView {
	switch s := stmt.(type) {
	case *SelectStmt:
		return &StatementView{
			Kind:    "select",
			Columns: viewList(s.Columns),
			From:    s.From,
			Where:   ViewExpr(s.Where),
			OrderBy: viewList(s.OrderBy),
		}
	case *CreateTableStmt:
		v := &StatementView{Kind: "create_table", Table: s.TableName}
		for _, col := range s.Columns {
			cv := ColumnView{Name: col.Name, Type: col.Type.String()}
			for _, con := range col.Constraints {
				cv.Constraints = append(cv.Constraints, viewConstraint(con))
			}
			v.ColumnDefs = append(v.ColumnDefs, cv)
		}
		return v
	}
	panic(fmt.Sprintf("parser: unknown statement %T", stmt))
}

// ViewExpr converts e; a nil expression gives a nil view.
func ViewExpr(e Expr) *ExprView {
	switch x := e.(type) {
	case nil:
		return nil
	case *BinaryExpr:
		return &ExprView{Kind: "binary", Op: x.Op.String(), Left: ViewExpr(x.Left), Right: ViewExpr(x.Right)}
	case *UnaryExpr:
		return &ExprView{Kind: "unary", Op: x.Op.String(), Operand: ViewExpr(x.Operand)}
	case *NumberLit:
		n := x.Value
		return &ExprView{Kind: "number", Number: &n}
	case *BoolLit:
		b := x.Value
		return &ExprView{Kind: "bool", Bool: &b}
	case *Ident:
		return &ExprView{Kind: "identifier", Name: x.Name}
	case *StringLit:
		s := x.Value
		return &ExprView{Kind: "string", String: &s}
	case *Wildcard:
		return &ExprView{Kind: "wildcard"}
	}
	panic(fmt.Sprintf("parser: unknown expression %T", e))
}

func viewList(list []Expr) []*ExprView {
	if len(list) == 0 {
		return nil
	}
	out := make([]*ExprView, len(list))
	for i, e := range list {
		out[i] = ViewExpr(e)
	}
	return out
}

func viewConstraint(c Constraint) ConstraintView {
	switch c.Kind {
	case NotNull:
		return ConstraintView{Kind: "not_null"}
	case PrimaryKey:
		return ConstraintView{Kind: "primary_key"}
	}
	return ConstraintView{Kind: "check", Check: ViewExpr(c.Check)}
}

// Tree renders the view as an indented outline, one node per line.
func (v *StatementView) Tree() string {
	var sb strings.Builder
	switch v.Kind {
	case "select":
		sb.WriteString("Select\n")
		sb.WriteString("  columns:\n")
		for _, e := range v.Columns {
			writeExprTree(&sb, e, 2)
		}
		fmt.Fprintf(&sb, "  from: %s\n", v.From)
		if v.Where != nil {
			sb.WriteString("  where:\n")
			writeExprTree(&sb, v.Where, 2)
		}
		if len(v.OrderBy) > 0 {
			sb.WriteString("  order by:\n")
			for _, e := range v.OrderBy {
				writeExprTree(&sb, e, 2)
			}
		}
	case "create_table":
		fmt.Fprintf(&sb, "CreateTable %s\n", v.Table)
		for _, col := range v.ColumnDefs {
			fmt.Fprintf(&sb, "  column %s %s\n", col.Name, col.Type)
			for _, con := range col.Constraints {
				switch con.Kind {
				case "check":
					sb.WriteString("    check:\n")
					writeExprTree(&sb, con.Check, 3)
				default:
					fmt.Fprintf(&sb, "    %s\n", strings.ReplaceAll(con.Kind, "_", " "))
				}
			}
		}
	default:
		fmt.Fprintf(&sb, "%s\n", v.Kind)
	}
	return sb.String()
}

func writeExprTree(sb *strings.Builder, e *ExprView, depth int) {
	pad := strings.Repeat("  ", depth)
	switch e.Kind {
	case "binary":
		fmt.Fprintf(sb, "%sBinary %s\n", pad, e.Op)
		writeExprTree(sb, e.Left, depth+1)
		writeExprTree(sb, e.Right, depth+1)
	case "unary":
		fmt.Fprintf(sb, "%sUnary %s\n", pad, e.Op)
		writeExprTree(sb, e.Operand, depth+1)
	case "number":
		fmt.Fprintf(sb, "%sNumber %d\n", pad, *e.Number)
	case "bool":
		fmt.Fprintf(sb, "%sBool %t\n", pad, *e.Bool)
	case "identifier":
		fmt.Fprintf(sb, "%sIdentifier %s\n", pad, e.Name)
	case "string":
		fmt.Fprintf(sb, "%sString %q\n", pad, *e.String)
	case "wildcard":
		fmt.Fprintf(sb, "%sWildcard\n", pad)
	default:
		fmt.Fprintf(sb, "%s%s\n", pad, e.Kind)
	}
}

// Tree renders a single expression the way StatementView.Tree does.
func (e *ExprView) Tree() string {
	var sb strings.Builder
	writeExprTree(&sb, e, 0)
	return sb.String()
}
