// Package proxy implements a GET-only forward HTTP proxy over raw TCP.
//
// A Handler owns one client connection: it reads the request header block,
// resolves the origin from the Host line, forwards the request with its
// version downgraded to HTTP/1.0 and relays the origin's bytes back verbatim
// until the origin closes. A Server accepts connections and dispatches each
// one to a fixed worker pool.
package proxy
