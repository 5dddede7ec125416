package proxy

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// Listen binds the proxy's TCP listener on every interface at port. Accepted
// connections get keepAlive applied.
func Listen(ctx context.Context, port int, keepAlive net.KeepAliveConfig) (net.Listener, error) {
	return listen(ctx, net.JoinHostPort("", strconv.Itoa(port)), keepAlive)
}

func listen(ctx context.Context, addr string, keepAlive net.KeepAliveConfig) (net.Listener, error) {
	lc := net.ListenConfig{KeepAliveConfig: keepAlive}

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen tcp %s: %w", addr, err)
	}
	return ln, nil
}
