package shell

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tuannm99/novaparse/internal/sql/lexer"
	"github.com/tuannm99/novaparse/internal/sql/parser"
)

// Format selects how parse results are printed.
type Format string

const (
	FormatTree Format = "tree"
	FormatSQL  Format = "sql"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var formats = []Format{FormatTree, FormatSQL, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("shell: unknown format %q (want tree, sql, json or yaml)", s)
}

func renderStatement(w io.Writer, f Format, v *parser.StatementView, sql string) error {
	switch f {
	case FormatSQL:
		_, err := fmt.Fprintln(w, sql)
		return err
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	}
	_, err := io.WriteString(w, v.Tree())
	return err
}

func renderExpr(w io.Writer, f Format, v *parser.ExprView, sql string) error {
	switch f {
	case FormatSQL:
		_, err := fmt.Fprintln(w, sql)
		return err
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	}
	_, err := io.WriteString(w, v.Tree())
	return err
}

func renderTokens(w io.Writer, f Format, toks []lexer.TokenView) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, toks)
	case FormatYAML:
		return writeYAML(w, toks)
	}
	for _, tok := range toks {
		pos := fmt.Sprintf("%d:%d", tok.Pos.Line, tok.Pos.Column)
		line := fmt.Sprintf("%-8s %-10s %s", pos, tok.Type, tok.Text)
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
