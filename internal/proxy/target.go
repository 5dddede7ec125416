package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// DefaultPort is used when the Host line names no port.
const DefaultPort = 80

const hostPrefix = "Host: "

var (
	// ErrMissingHost means no line starts with "Host: ".
	ErrMissingHost = errors.New("invalid request: no Host line")

	// ErrInvalidHost means the Host line has an empty name or a bad port.
	ErrInvalidHost = errors.New("invalid request: bad Host line")
)

// Resolver is the subset of *net.Resolver used to look up origin names.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// Target is a resolved origin endpoint. It is built once per connection and
// never modified.
type Target struct {
	// Host is the name as written on the Host line.
	Host string
	Addr netip.Addr
	Port uint16
}

// AddrPort returns the endpoint as a netip.AddrPort.
func (t Target) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(t.Addr, t.Port)
}

// String returns the endpoint in dialable ip:port form.
func (t Target) String() string {
	return t.AddrPort().String()
}

// ParseHost finds the first "Host: " line and returns its name and port.
// The value is trimmed and split on ':'; the port defaults to DefaultPort.
func ParseHost(lines []string) (string, uint16, error) {
	for _, line := range lines {
		if !strings.HasPrefix(line, hostPrefix) {
			continue
		}

		parts := strings.Split(strings.TrimSpace(line[len(hostPrefix):]), ":")
		for len(parts) > 1 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}

		host := parts[0]
		if host == "" {
			return "", 0, fmt.Errorf("%w: empty host", ErrInvalidHost)
		}
		if len(parts) == 1 {
			return host, DefaultPort, nil
		}

		if err := is.Port.Validate(parts[1]); err != nil {
			return "", 0, fmt.Errorf("%w: port %q: %v", ErrInvalidHost, parts[1], err)
		}
		port, err := strconv.ParseUint(strings.TrimPrefix(parts[1], "+"), 10, 16)
		if err != nil {
			return "", 0, fmt.Errorf("%w: port %q: %v", ErrInvalidHost, parts[1], err)
		}
		return host, uint16(port), nil
	}

	return "", 0, ErrMissingHost
}

// ResolveTarget parses the Host line out of lines and resolves its name with
// r. The first address returned by r is used.
func ResolveTarget(ctx context.Context, r Resolver, lines []string) (Target, error) {
	host, port, err := ParseHost(lines)
	if err != nil {
		return Target{}, err
	}

	addrs, err := r.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return Target{}, fmt.Errorf("resolve %s: %w", host, err)
	}
	if len(addrs) == 0 {
		return Target{}, fmt.Errorf("resolve %s: no addresses", host)
	}

	return Target{Host: host, Addr: addrs[0].Unmap(), Port: port}, nil
}
