// Package testutil provides throwaway TCP servers for tests.
package testutil

import (
	"context"
	"net"
	"sync"
	"testing"
)

// listenLoopback binds an ephemeral IPv4 loopback port.
func listenLoopback(t *testing.T, ctx context.Context) net.Listener {
	t.Helper()

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	return ln
}

// StartSingleAcceptServer hands the first accepted connection to handler and
// closes it once handler returns. The returned stop func closes the listener
// and blocks until handler is done; it is also registered with t.Cleanup, so
// calling it is only needed to sequence assertions.
func StartSingleAcceptServer(t *testing.T, ctx context.Context, handler func(net.Conn)) (net.Listener, func()) {
	t.Helper()

	ln := listenLoopback(t, ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		handler(c)
	}()

	stop := sync.OnceFunc(func() {
		_ = ln.Close()
		<-done
	})
	t.Cleanup(stop)

	return ln, stop
}
