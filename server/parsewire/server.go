package parsewire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os/signal"
	"sync"
	"syscall"

	"github.com/tuannm99/novaparse/pkg/cache"
)

type ServerConfig struct {
	Addr      string
	CacheSize int // 0 disables the result cache
	Debug     bool
	Logger    *slog.Logger
}

// Server answers parse requests, one goroutine per connection. Results are
// cached by (op, sql) since parsing is deterministic.
type Server struct {
	cache *cache.LRU[string, ParseResponse]
	log   *slog.Logger
	debug bool

	wg sync.WaitGroup
}

func NewServer(sc ServerConfig) *Server {
	logger := sc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cache: cache.NewLRU[string, ParseResponse](sc.CacheSize),
		log:   logger,
		debug: sc.Debug,
	}
}

// Run listens on sc.Addr and serves until SIGINT or SIGTERM.
func Run(sc ServerConfig) error {
	ln, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := NewServer(sc)
	s.log.Info("novaparse tcp server listening", "addr", ln.Addr().String(), "cache_size", sc.CacheSize)
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then waits for open
// connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer func() { _ = ln.Close() }()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				s.wg.Wait()
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			s.log.Warn("accept", "err", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeConn(ctx, conn)
		}()
	}
}

// ServeConn handles requests on conn until the peer closes it, a frame is
// malformed or ctx is done.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	// unblock ReadFrame on shutdown
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	remote := conn.RemoteAddr().String()
	s.log.Debug("connection opened", "remote", remote)

	for {
		var req ParseRequest
		if err := ReadFrame(conn, &req); err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				s.log.Warn("read frame", "remote", remote, "err", err)
			}
			s.log.Debug("connection closed", "remote", remote)
			return
		}

		resp := s.Handle(req)
		if s.debug {
			s.log.Debug("parse",
				"remote", remote, "id", req.ID, "op", req.Op,
				"cached", resp.Cached, "ok", resp.Error == nil && resp.Fault == "")
		}

		if err := WriteFrame(conn, resp); err != nil {
			s.log.Warn("write frame", "remote", remote, "id", req.ID, "err", err)
			return
		}
	}
}

// Handle answers req, consulting the cache first.
func (s *Server) Handle(req ParseRequest) ParseResponse {
	if req.Op == "" {
		req.Op = OpStatement
	}
	key := string(req.Op) + "\x00" + req.SQL

	if resp, ok := s.cache.Get(key); ok {
		resp.ID = req.ID
		resp.Cached = true
		return resp
	}

	resp := Handle(req)
	if resp.Fault == "" {
		s.cache.Add(key, resp)
	}
	return resp
}

// CacheStats reports cache hits and misses.
func (s *Server) CacheStats() (hits, misses uint64) {
	return s.cache.Stats()
}
