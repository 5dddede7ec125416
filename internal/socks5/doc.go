// Package socks5 holds the SOCKS5 handshake used when the proxy forwards
// through an upstream SOCKS5 server.
//
// It is a thin layer over the wire types in github.com/txthinking/socks5. The
// server half exists so tests can stand up a minimal upstream; it only
// understands CONNECT.
package socks5
