package testutil

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"testing"
)

// Origin is a stub origin server. It reads one request header block per
// connection, records it, writes Response verbatim and closes.
type Origin struct {
	net.Listener
	Response []byte

	mu       sync.Mutex
	requests [][]byte
	wg       sync.WaitGroup
}

// StartOrigin listens on a loopback port and serves response to every
// connection until the test ends.
func StartOrigin(t *testing.T, ctx context.Context, response []byte) *Origin {
	t.Helper()

	ln := listenLoopback(t, ctx)

	o := &Origin{Listener: ln, Response: response}
	o.wg.Go(o.serve)
	t.Cleanup(func() {
		_ = ln.Close()
		o.wg.Wait()
	})

	return o
}

// Port returns the listening TCP port.
func (o *Origin) Port() int {
	return o.Addr().(*net.TCPAddr).Port
}

// Requests returns copies of every request header block received so far.
func (o *Origin) Requests() [][]byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([][]byte, len(o.requests))
	copy(out, o.requests)
	return out
}

func (o *Origin) serve() {
	for {
		c, err := o.Accept()
		if err != nil {
			return
		}
		o.wg.Go(func() { o.handle(c) })
	}
}

func (o *Origin) handle(c net.Conn) {
	defer c.Close()

	var req bytes.Buffer
	br := bufio.NewReader(c)
	for {
		line, err := br.ReadBytes('\n')
		req.Write(line)
		if err != nil {
			return
		}
		if bytes.Equal(line, []byte("\r\n")) {
			break
		}
	}

	o.mu.Lock()
	o.requests = append(o.requests, req.Bytes())
	o.mu.Unlock()

	_, _ = c.Write(o.Response)
}

// StartEchoTCPServer echoes the first read of a single connection.
func StartEchoTCPServer(t *testing.T, ctx context.Context) net.Listener {
	t.Helper()

	ln, _ := StartSingleAcceptServer(t, ctx, func(c net.Conn) {
		buf := make([]byte, 1024)
		n, err := c.Read(buf)
		if err != nil {
			return
		}
		_, _ = c.Write(buf[:n])
	})

	return ln
}

// AssertEcho writes msg to w and expects to read it back from r.
func AssertEcho(t *testing.T, w io.Writer, r io.Reader, msg []byte) {
	t.Helper()

	if _, err := w.Write(msg); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, len(msg))
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, msg) {
		t.Fatalf("expected %q got %q", string(msg), string(buf))
	}
}
