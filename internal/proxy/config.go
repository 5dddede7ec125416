package proxy

import (
	"github.com/die-net/getproxy/internal/dialer"
)

type Config struct {
	// Dialer opens origin connections. Required.
	Dialer dialer.Dialer

	// Resolver looks up the Host name. Nil means net.DefaultResolver.
	Resolver Resolver

	// MaxHeaderBytes caps the request header block. Zero means no cap.
	MaxHeaderBytes int

	// Workers is the fixed number of connections served at once;
	// QueueSize is how many accepted connections may wait for a worker.
	Workers   int
	QueueSize int
}
