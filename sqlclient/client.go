package sqlclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tuannm99/novaparse/internal/sql/lexer"
	"github.com/tuannm99/novaparse/internal/sql/parser"
	"github.com/tuannm99/novaparse/server/parsewire"
)

// Client is a simple synchronous client for the parse service.
// It locks send/recv so concurrent calls serialize on the connection.
type Client struct {
	conn net.Conn
	mu   sync.Mutex
	id   atomic.Uint64

	// Optional per-request timeout (0 = no timeout).
	rwTimeout time.Duration
}

func Dial(addr string, timeout time.Duration) (*Client, error) {
	return DialContext(context.Background(), addr, timeout)
}

func DialContext(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn}
}

// SetRWTimeout sets a per-request read/write deadline.
func (c *Client) SetRWTimeout(d time.Duration) {
	if c == nil {
		return
	}
	c.rwTimeout = d
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// ParseStatement parses one statement remotely. Malformed input comes back
// as a *sqlerr.Error.
func (c *Client) ParseStatement(ctx context.Context, sql string) (*parser.StatementView, string, error) {
	resp, err := c.Do(ctx, parsewire.OpStatement, sql)
	if err != nil {
		return nil, "", err
	}
	return resp.Statement, resp.SQL, nil
}

func (c *Client) ParseExpression(ctx context.Context, src string) (*parser.ExprView, string, error) {
	resp, err := c.Do(ctx, parsewire.OpExpression, src)
	if err != nil {
		return nil, "", err
	}
	return resp.Expr, resp.SQL, nil
}

func (c *Client) Tokenize(ctx context.Context, src string) ([]lexer.TokenView, error) {
	resp, err := c.Do(ctx, parsewire.OpTokens, src)
	if err != nil {
		return nil, err
	}
	return resp.Tokens, nil
}

// Do sends one request and waits for its response. A parse failure is
// returned as the response's *sqlerr.Error.
func (c *Client) Do(ctx context.Context, op parsewire.Op, sql string) (*parsewire.ParseResponse, error) {
	if c == nil || c.conn == nil {
		return nil, fmt.Errorf("sqlclient: nil client")
	}

	reqID := c.id.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.applyDeadline(ctx); err != nil {
		return nil, err
	}
	defer func() {
		// idle connections must not expire
		_ = c.conn.SetDeadline(time.Time{})
	}()

	req := parsewire.ParseRequest{ID: reqID, Op: op, SQL: sql}
	if err := parsewire.WriteFrame(c.conn, req); err != nil {
		return nil, err
	}

	var resp parsewire.ParseResponse
	if err := parsewire.ReadFrame(c.conn, &resp); err != nil {
		return nil, err
	}

	if resp.ID != reqID {
		return nil, fmt.Errorf("sqlclient: response id mismatch: got=%d want=%d", resp.ID, reqID)
	}
	if resp.Fault != "" {
		return nil, errors.New(resp.Fault)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return &resp, nil
}

func (c *Client) applyDeadline(ctx context.Context) error {
	// Prefer context deadline if present; otherwise use rwTimeout.
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(dl)
	}
	if c.rwTimeout > 0 {
		return c.conn.SetDeadline(time.Now().Add(c.rwTimeout))
	}
	return nil
}
