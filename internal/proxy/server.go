package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/die-net/getproxy/internal/workerpool"
)

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Server accepts client connections and hands each to a worker pool whose
// size is fixed at construction. It never looks at the bytes it accepts.
type Server struct {
	ctx     context.Context
	handler *Handler
	pool    *workerpool.Pool
	log     *slog.Logger
}

// NewServer starts cfg.Workers workers. Tasks run with ctx.
func NewServer(ctx context.Context, cfg Config, log *slog.Logger) *Server {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		ctx:     ctx,
		handler: NewHandler(cfg, log),
		pool:    workerpool.New(ctx, log, cfg.Workers, cfg.QueueSize),
		log:     log,
	}
}

// Workers returns the worker pool size.
func (s *Server) Workers() int {
	return s.pool.Workers()
}

// Serve accepts on ln until ln is closed. Accept failures are logged and the
// loop carries on; consecutive failures back off up to a second. When the
// worker queue is full, Serve stops accepting until a slot frees.
//
// Serve returns nil if the server's context was canceled, otherwise the
// error that ended the loop.
func (s *Server) Serve(ln net.Listener) error {
	var backoff time.Duration

	for {
		c, err := ln.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accept: %w", err)
			}

			if backoff == 0 {
				backoff = minAcceptBackoff
			} else {
				backoff = min(2*backoff, maxAcceptBackoff)
			}
			s.log.Error("accept failed", slog.Any("err", err), slog.Duration("retry_in", backoff))

			select {
			case <-time.After(backoff):
			case <-s.ctx.Done():
				return nil
			}
			continue
		}
		backoff = 0

		if err := s.pool.Submit(s.ctx, s.task(c)); err != nil {
			_ = c.Close()
			if s.ctx.Err() != nil || errors.Is(err, workerpool.ErrClosed) {
				return nil
			}
			s.log.Error("dispatch failed", slog.String("remote", c.RemoteAddr().String()), slog.Any("err", err))
		}
	}
}

func (s *Server) task(c net.Conn) workerpool.Task {
	return func(ctx context.Context) {
		remote := c.RemoteAddr().String()
		if err := s.handler.Handle(ctx, c); err != nil {
			s.log.Error("connection failed", slog.String("remote", remote), slog.Any("err", err))
			return
		}
		s.log.Debug("connection closed", slog.String("remote", remote))
	}
}

// Close stops dispatching. Connections already handed to a worker run to
// completion; it does not close the listener.
func (s *Server) Close() {
	s.pool.Close()
}

// Wait blocks until every worker has exited after Close.
func (s *Server) Wait() error {
	return s.pool.Wait()
}
