package parsewire

import (
	"errors"
	"fmt"

	"github.com/tuannm99/novaparse/internal/sql/lexer"
	"github.com/tuannm99/novaparse/internal/sql/parser"
	"github.com/tuannm99/novaparse/internal/sql/sqlerr"
)

// Op selects what the server does with the request text.
type Op string

const (
	OpStatement  Op = "statement" // full statement, the default
	OpExpression Op = "expression"
	OpTokens     Op = "tokens"
)

// ParseRequest asks the server to parse SQL.
type ParseRequest struct {
	ID  uint64 `json:"id"`
	Op  Op     `json:"op,omitempty"`
	SQL string `json:"sql"`
}

// ParseResponse answers the request with the same ID. Exactly one of
// Statement, Expr, Tokens, Error or Fault is set. Error is a malformed-input
// failure; Fault is a protocol problem such as an unknown Op.
type ParseResponse struct {
	ID        uint64                `json:"id"`
	Statement *parser.StatementView `json:"statement,omitempty"`
	Expr      *parser.ExprView      `json:"expr,omitempty"`
	Tokens    []lexer.TokenView     `json:"tokens,omitempty"`
	SQL       string                `json:"sql,omitempty"` // canonical rendering of Statement or Expr
	Error     *sqlerr.Error         `json:"error,omitempty"`
	Fault     string                `json:"fault,omitempty"`
	Cached    bool                  `json:"cached,omitempty"`
}

// Handle runs req against the parser. It never touches the connection and
// is safe to call concurrently.
func Handle(req ParseRequest) ParseResponse {
	resp := ParseResponse{ID: req.ID}

	switch req.Op {
	case "", OpStatement:
		stmt, err := parser.Parse(req.SQL)
		if err != nil {
			return fail(resp, err)
		}
		resp.Statement = parser.View(stmt)
		resp.SQL = stmt.String()

	case OpExpression:
		e, err := parser.ParseExpr(req.SQL)
		if err != nil {
			return fail(resp, err)
		}
		resp.Expr = parser.ViewExpr(e)
		resp.SQL = e.String()

	case OpTokens:
		toks, err := lexer.Views(req.SQL)
		if err != nil {
			return fail(resp, err)
		}
		resp.Tokens = toks

	default:
		resp.Fault = fmt.Sprintf("parsewire: unknown op %q", req.Op)
	}
	return resp
}

func fail(resp ParseResponse, err error) ParseResponse {
	var perr *sqlerr.Error
	if errors.As(err, &perr) {
		resp.Error = perr
		return resp
	}
	resp.Fault = err.Error()
	return resp
}
