package dialer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// Dialer mirrors the net.Dialer interface.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// New parses upstream and constructs the matching Dialer.
//
// Supported schemes:
//   - direct://
//   - socks5://[user:pass@]host:port
//   - http://[user:pass@]host:port
//   - https://[user:pass@]host:port
//
// A default port is applied when the upstream host has none.
func New(cfg Config, upstream string) (Dialer, error) {
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}

	u.Scheme = strings.ToLower(u.Scheme)

	if u.Path != "" && u.Path != "/" {
		return nil, errors.New("invalid upstream url: path should be empty")
	}

	switch u.Scheme {
	case "":
		return nil, errors.New("invalid upstream url: missing scheme")
	case "direct":
		return NewDirectDialer(cfg), nil
	case "socks5", "http", "https":
		host := u.Hostname()
		if host == "" {
			return nil, errors.New("invalid upstream url: missing host")
		}
		if u.Port() == "" {
			u.Host = net.JoinHostPort(host, defaultPortForScheme(u.Scheme))
		}

		var user, pass string
		if u.User != nil {
			user = u.User.Username()
			pass, _ = u.User.Password()
		}

		if u.Scheme == "socks5" {
			return NewSOCKS5ProxyDialer(cfg, u.Host, user, pass), nil
		}
		return NewHTTPProxyDialer(cfg, u, user, pass)
	default:
		return nil, fmt.Errorf("invalid upstream url scheme: %q", u.Scheme)
	}
}

func defaultPortForScheme(scheme string) string {
	switch scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	case "socks5":
		return "1080"
	default:
		return ""
	}
}

// negotiationDeadline bounds an upstream handshake by the dial timeout.
func negotiationDeadline(c net.Conn, timeout time.Duration) {
	if timeout > 0 {
		_ = c.SetDeadline(time.Now().Add(timeout))
	}
}

func clearDeadline(c net.Conn, timeout time.Duration) {
	if timeout > 0 {
		_ = c.SetDeadline(time.Time{})
	}
}
