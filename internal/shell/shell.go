// Package shell is the line-oriented front end shared by the interactive
// client and its one-shot mode. It accumulates input until a statement is
// complete, hands it to a Backend once and prints the single result.
package shell

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

const (
	DefaultPrompt      = "novaparse> "
	continuationPrompt = "...> "
)

// Status tells the caller what the shell expects next.
type Status int

const (
	StatusReady   Status = iota // waiting for a new statement
	StatusPending               // statement not terminated yet
	StatusQuit
)

type Shell struct {
	backend Backend
	out     io.Writer
	history *History

	// OnExecute, if set, is called with every statement sent to the backend.
	OnExecute func(stmt string)

	mu     sync.Mutex // format and prompt change on config reload
	format Format
	prompt string

	buf strings.Builder
}

func New(backend Backend, out io.Writer, history *History) *Shell {
	if history == nil {
		history = NewHistory("", 0)
	}
	return &Shell{
		backend: backend,
		out:     out,
		history: history,
		format:  FormatTree,
		prompt:  DefaultPrompt,
	}
}

func (s *Shell) SetFormat(f Format) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.format = f
}

func (s *Shell) Format() Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

func (s *Shell) SetPrompt(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = p
}

// Prompt returns the prompt for the next line: the configured one, or the
// continuation prompt while a statement is pending.
func (s *Shell) Prompt() string {
	if s.buf.Len() > 0 {
		return continuationPrompt
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

// Interrupt drops a pending statement. It reports whether there was one.
func (s *Shell) Interrupt() bool {
	pending := s.buf.Len() > 0
	s.buf.Reset()
	return pending
}

// Feed consumes one input line.
func (s *Shell) Feed(ctx context.Context, line string) Status {
	line = strings.TrimSpace(line)
	if line == "" {
		return s.status()
	}

	if s.buf.Len() == 0 && isMetaCommand(line) {
		return s.meta(ctx, line)
	}

	if s.buf.Len() > 0 {
		s.buf.WriteByte('\n')
	}
	s.buf.WriteString(line)

	if !statementComplete(s.buf.String()) {
		return StatusPending
	}

	stmt := strings.TrimSpace(s.buf.String())
	s.buf.Reset()

	_ = s.history.Append(stmt)
	_ = s.Exec(ctx, stmt)
	return StatusReady
}

// Exec sends stmt to the backend and prints the result or "error: <message>".
// The returned error is the parse failure, if any.
func (s *Shell) Exec(ctx context.Context, stmt string) error {
	if s.OnExecute != nil {
		s.OnExecute(stmt)
	}

	view, sql, err := s.backend.ParseStatement(ctx, stmt)
	if err != nil {
		s.printError(err)
		return err
	}
	if err := renderStatement(s.out, s.Format(), view, sql); err != nil {
		s.printError(err)
		return err
	}
	return nil
}

func (s *Shell) status() Status {
	if s.buf.Len() > 0 {
		return StatusPending
	}
	return StatusReady
}

func (s *Shell) printError(err error) {
	fmt.Fprintf(s.out, "error: %v\n", err)
}

const helpText = `meta commands:
  \q | quit | exit       quit
  \history [n]           print the last n statements (default 50)
  \format [f]            show or set the output format: tree, sql, json, yaml
  \tokens <text>         tokenize text
  \expr <text>           parse text as a single expression
  \help                  show help

sql:
  SELECT ... FROM ... [WHERE ...] [ORDER BY ...];
  CREATE TABLE name(column TYPE [constraints], ...);
  end statement with ';' (multiline input waits until ';')
`

func isMetaCommand(line string) bool {
	return strings.HasPrefix(line, "\\") || line == "quit" || line == "exit"
}

func (s *Shell) meta(ctx context.Context, line string) Status {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "\\q", "quit", "exit":
		return StatusQuit

	case "\\help":
		_, _ = io.WriteString(s.out, helpText)

	case "\\history":
		n := 50
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintf(s.out, "error: bad history count %q\n", arg)
				return StatusReady
			}
			n = v
		}
		s.history.Print(s.out, n)

	case "\\format":
		if arg == "" {
			fmt.Fprintf(s.out, "format: %s\n", s.Format())
			return StatusReady
		}
		f, err := ParseFormat(arg)
		if err != nil {
			s.printError(err)
			return StatusReady
		}
		s.SetFormat(f)
		fmt.Fprintf(s.out, "format: %s\n", f)

	case "\\tokens":
		toks, err := s.backend.Tokenize(ctx, arg)
		if err != nil {
			s.printError(err)
			return StatusReady
		}
		if err := renderTokens(s.out, s.Format(), toks); err != nil {
			s.printError(err)
		}

	case "\\expr":
		view, sql, err := s.backend.ParseExpression(ctx, arg)
		if err != nil {
			s.printError(err)
			return StatusReady
		}
		if err := renderExpr(s.out, s.Format(), view, sql); err != nil {
			s.printError(err)
		}

	default:
		fmt.Fprintf(s.out, "unknown command: %s\n", line)
	}
	return StatusReady
}

// statementComplete reports whether buf holds a ';' outside a string
// literal. Strings open with ' or " and close only on the same quote.
func statementComplete(buf string) bool {
	var quote rune
	for _, r := range buf {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ';':
			return true
		}
	}
	return false
}
