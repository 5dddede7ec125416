package socks5

import (
	"errors"
	"fmt"
	"net"
	"slices"

	txsocks5 "github.com/txthinking/socks5"
)

// Accept runs the server side of negotiation on conn and reads a CONNECT
// request, returning its destination as host:port. Non-CONNECT commands are
// answered with "command not supported".
func Accept(conn net.Conn, auth Auth) (string, error) {
	neg, err := txsocks5.NewNegotiationRequestFrom(conn)
	if err != nil {
		return "", fmt.Errorf("socks5 read negotiation: %w", err)
	}

	want := byte(txsocks5.MethodNone)
	if auth.Username != "" {
		want = txsocks5.MethodUsernamePassword
	}
	if !slices.Contains(neg.Methods, want) {
		// RFC 1928: 0xFF means no acceptable methods.
		_, _ = txsocks5.NewNegotiationReply(0xff).WriteTo(conn)
		return "", errors.New("socks5: client offered no acceptable method")
	}
	if _, err := txsocks5.NewNegotiationReply(want).WriteTo(conn); err != nil {
		return "", fmt.Errorf("socks5 write negotiation: %w", err)
	}

	if auth.Username != "" {
		urq, err := txsocks5.NewUserPassNegotiationRequestFrom(conn)
		if err != nil {
			return "", fmt.Errorf("socks5 read userpass: %w", err)
		}
		if string(urq.Uname) != auth.Username || string(urq.Passwd) != auth.Password {
			_, _ = txsocks5.NewUserPassNegotiationReply(txsocks5.UserPassStatusFailure).WriteTo(conn)
			return "", ErrAuthFailed
		}
		if _, err := txsocks5.NewUserPassNegotiationReply(txsocks5.UserPassStatusSuccess).WriteTo(conn); err != nil {
			return "", fmt.Errorf("socks5 write userpass: %w", err)
		}
	}

	req, err := txsocks5.NewRequestFrom(conn)
	if err != nil {
		return "", fmt.Errorf("socks5 read request: %w", err)
	}
	if req.Cmd != txsocks5.CmdConnect {
		_, _ = zeroReply(txsocks5.RepCommandNotSupported, req.Atyp).WriteTo(conn)
		return "", fmt.Errorf("socks5: unsupported command %#x", req.Cmd)
	}
	return req.Address(), nil
}

// ReplySuccess tells the client the tunnel is up, bound at local.
func ReplySuccess(conn net.Conn, local net.Addr) error {
	atyp, addr, port, err := txsocks5.ParseAddress(local.String())
	if err != nil {
		return fmt.Errorf("socks5 parse bound address %q: %w", local.String(), err)
	}
	if atyp == txsocks5.ATYPDomain {
		addr = addr[1:]
	}
	if _, err := txsocks5.NewReply(txsocks5.RepSuccess, atyp, addr, port).WriteTo(conn); err != nil {
		return fmt.Errorf("socks5 write success: %w", err)
	}
	return nil
}

// ReplyRefused tells the client the destination refused the connection.
func ReplyRefused(conn net.Conn) {
	_, _ = zeroReply(txsocks5.RepConnectionRefused, txsocks5.ATYPIPv4).WriteTo(conn)
}

func zeroReply(rep, atyp byte) *txsocks5.Reply {
	if atyp == txsocks5.ATYPIPv6 {
		return txsocks5.NewReply(rep, txsocks5.ATYPIPv6, []byte(net.IPv6zero), []byte{0x00, 0x00})
	}
	return txsocks5.NewReply(rep, txsocks5.ATYPIPv4, []byte{0x00, 0x00, 0x00, 0x00}, []byte{0x00, 0x00})
}
