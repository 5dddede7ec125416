// Package dialer opens the proxy's outbound connections.
//
// Dialers implement a small interface (DialContext) and either connect to the
// origin directly or tunnel through an upstream SOCKS5 or HTTP CONNECT proxy.
package dialer
