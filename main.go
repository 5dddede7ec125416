package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/die-net/getproxy/internal/config"
	"github.com/die-net/getproxy/internal/dialer"
	"github.com/die-net/getproxy/internal/logger"
	"github.com/die-net/getproxy/internal/proxy"
	"github.com/die-net/getproxy/internal/workerpool"
)

const usage = `usage: %s <port>

Forward HTTP proxy for GET requests. Listens on <port> on all interfaces.

Tuning (environment):
  PROXY_ENVIRONMENT        dev | staging | prod (default dev; prod logs JSON)
  PROXY_LOGGING_LEVEL      debug | info | warn | error (default info)
  PROXY_POOL_MULTIPLIER    workers per CPU (default 4)
  PROXY_POOL_QUEUE_SIZE    accepted connections waiting for a worker (default 1024)
  PROXY_UPSTREAM           direct:// | socks5://host:port | http[s]://[user:pass@]host:port
  PROXY_DIAL_TIMEOUT       origin connect timeout, 0 for none (default 0)
  PROXY_MAX_HEADER_BYTES   request header cap (default 65536)
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
	}
	pflag.Parse()

	port, err := parsePort(pflag.Args())
	if err != nil {
		pflag.Usage()
		return err
	}

	cfg, err := config.Load(port)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Environment)

	keepAlive := net.KeepAliveConfig{Enable: true}

	d, err := dialer.New(dialer.Config{DialTimeout: cfg.DialTimeout, KeepAlive: keepAlive}, cfg.Upstream)
	if err != nil {
		return fmt.Errorf("invalid PROXY_UPSTREAM: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := proxy.Listen(ctx, cfg.Port, keepAlive)
	if err != nil {
		return err
	}

	srv := proxy.NewServer(ctx, proxy.Config{
		Dialer:         d,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
		Workers:        workerpool.Size(cfg.Pool.Multiplier),
		QueueSize:      cfg.Pool.QueueSize,
	}, log)
	context.AfterFunc(ctx, func() {
		_ = ln.Close()
		srv.Close()
	})

	log.Info("proxy listening",
		slog.String("addr", ln.Addr().String()),
		slog.Int("workers", srv.Workers()),
		slog.Int("queue_size", cfg.Pool.QueueSize),
		slog.String("upstream", redactUpstream(cfg.Upstream)))

	err = srv.Serve(ln)

	log.Info("shutting down")
	return err
}

// redactUpstream hides any upstream password from logs.
func redactUpstream(upstream string) string {
	u, err := url.Parse(upstream)
	if err != nil || u.User == nil {
		return upstream
	}
	return u.Redacted()
}

func parsePort(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one argument: the port to listen on")
	}
	port, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", args[0], err)
	}
	return port, nil
}
