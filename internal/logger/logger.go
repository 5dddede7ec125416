package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a logger writing below-error records to stdout and error
// records to stderr.
func New(lvl string, environment string) *slog.Logger {
	return NewWithWriters(lvl, environment, os.Stdout, os.Stderr)
}

// NewWithWriters is New with explicit sinks.
func NewWithWriters(lvl string, environment string, out, errOut io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(lvl),
	}

	h := &splitHandler{
		out: newHandler(out, opts, environment),
		err: newHandler(errOut, opts, environment),
	}

	return slog.New(h).With(
		slog.String("environment", environment),
	)
}

func newHandler(w io.Writer, opts *slog.HandlerOptions, environment string) slog.Handler {
	if strings.ToLower(environment) == "prod" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// splitHandler routes records at or above slog.LevelError to err and
// everything else to out.
type splitHandler struct {
	out slog.Handler
	err slog.Handler
}

func (h *splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.LevelError {
		return h.err.Enabled(ctx, level)
	}
	return h.out.Enabled(ctx, level)
}

func (h *splitHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return h.err.Handle(ctx, r)
	}
	return h.out.Handle(ctx, r)
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{out: h.out.WithAttrs(attrs), err: h.err.WithAttrs(attrs)}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{out: h.out.WithGroup(name), err: h.err.WithGroup(name)}
}
