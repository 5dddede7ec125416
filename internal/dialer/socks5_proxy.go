package dialer

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/die-net/getproxy/internal/socks5"
)

// SOCKS5ProxyDialer tunnels outbound connections through a SOCKS5 upstream.
type SOCKS5ProxyDialer struct {
	cfg       Config
	proxyAddr string
	auth      socks5.Auth
	direct    Dialer
}

func NewSOCKS5ProxyDialer(cfg Config, proxyAddr, username, password string) *SOCKS5ProxyDialer {
	return &SOCKS5ProxyDialer{
		cfg:       cfg,
		proxyAddr: proxyAddr,
		auth:      socks5.Auth{Username: username, Password: password},
		direct:    NewDirectDialer(cfg),
	}
}

func (d *SOCKS5ProxyDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if !strings.HasPrefix(network, "tcp") {
		return nil, fmt.Errorf("socks5 proxy dial %s %s: unsupported network", network, address)
	}

	c, err := d.direct.DialContext(ctx, network, d.proxyAddr)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy: %w", err)
	}

	// Abort the handshake if ctx ends first.
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	negotiationDeadline(c, d.cfg.DialTimeout)
	if err := socks5.Handshake(c, d.auth, address); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("socks5 proxy dial %s: %w", address, err)
	}
	clearDeadline(c, d.cfg.DialTimeout)

	if !stop() {
		_ = c.Close()
		return nil, fmt.Errorf("socks5 proxy dial %s: %w", address, ctx.Err())
	}
	return c, nil
}
