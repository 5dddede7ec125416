package proxy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/die-net/getproxy/internal/dialer"
)

// notImplemented is the only response the proxy ever writes itself.
const notImplemented = "HTTP/1.0 501 Not Implemented\r\n\r\n"

// ErrMalformedHeader means the header block held fewer than two lines.
var ErrMalformedHeader = errors.New("malformed header: no header lines after request line")

// Handler serves one client connection at a time; it keeps no state between
// connections and is safe for concurrent use.
type Handler struct {
	dialer         dialer.Dialer
	resolver       Resolver
	log            *slog.Logger
	maxHeaderBytes int
	bufs           *bufferPool
}

func NewHandler(cfg Config, log *slog.Logger) *Handler {
	r := cfg.Resolver
	if r == nil {
		r = net.DefaultResolver
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		dialer:         cfg.Dialer,
		resolver:       r,
		log:            log,
		maxHeaderBytes: cfg.MaxHeaderBytes,
		bufs:           newBufferPool(relayBufferSize),
	}
}

// Handle proxies a single request on client and closes it. It also closes
// the origin connection if one was opened. A nil error means the origin's
// response, or a 501, was delivered in full.
func (h *Handler) Handle(ctx context.Context, client net.Conn) error {
	defer client.Close()

	log := h.log.With(slog.String("remote", client.RemoteAddr().String()))

	header, err := ReadHeader(bufio.NewReader(client), h.maxHeaderBytes)
	if err != nil {
		return err
	}

	req := ParseRequest(header)
	log.Info("request received", slog.String("request", req.RequestLine()), slog.String("kind", req.Kind.String()))
	log.Debug("request header", slog.String("header", header))

	switch req.Kind {
	case Malformed:
		return ErrMalformedHeader
	case UnsupportedMethod:
		if _, err := io.WriteString(client, notImplemented); err != nil {
			return fmt.Errorf("write 501: %w", err)
		}
		log.Info("replied 501 not implemented", slog.String("request", req.RequestLine()))
		return nil
	}

	target, err := ResolveTarget(ctx, h.resolver, req.Lines)
	if err != nil {
		return err
	}

	origin, err := h.dialer.DialContext(ctx, "tcp", target.String())
	if err != nil {
		return fmt.Errorf("connect %s (%s): %w", target.Host, target, err)
	}
	defer origin.Close()

	log = log.With(slog.String("host", target.Host), slog.String("target", target.String()))
	log.Info("forwarding request")

	if _, err := origin.Write(req.Outbound); err != nil {
		return fmt.Errorf("send request to %s: %w", target, err)
	}

	buf := h.bufs.Get()
	defer h.bufs.Put(buf)

	n, err := relay(client, origin, *buf)
	if err != nil {
		return fmt.Errorf("relay from %s after %d bytes: %w", target, n, err)
	}

	log.Info("origin closed connection", slog.Int64("bytes", n))
	return nil
}
