package shell

import (
	"context"

	"github.com/tuannm99/novaparse/internal/sql/lexer"
	"github.com/tuannm99/novaparse/internal/sql/parser"
)

// Backend turns text into parse results. Failures on malformed input are
// *sqlerr.Error values. *sqlclient.Client is the remote implementation.
type Backend interface {
	ParseStatement(ctx context.Context, sql string) (*parser.StatementView, string, error)
	ParseExpression(ctx context.Context, src string) (*parser.ExprView, string, error)
	Tokenize(ctx context.Context, src string) ([]lexer.TokenView, error)
}

// Local parses in process.
type Local struct{}

func (Local) ParseStatement(_ context.Context, sql string) (*parser.StatementView, string, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, "", err
	}
	return parser.View(stmt), stmt.String(), nil
}

func (Local) ParseExpression(_ context.Context, src string) (*parser.ExprView, string, error) {
	e, err := parser.ParseExpr(src)
	if err != nil {
		return nil, "", err
	}
	return parser.ViewExpr(e), e.String(), nil
}

func (Local) Tokenize(_ context.Context, src string) ([]lexer.TokenView, error) {
	return lexer.Views(src)
}
