package socks5

import (
	"errors"
	"fmt"
	"net"

	txsocks5 "github.com/txthinking/socks5"
)

// Auth holds optional username/password credentials (RFC 1929).
type Auth struct {
	Username string
	Password string
}

// ErrAuthFailed is returned when the upstream rejects the credentials.
var ErrAuthFailed = errors.New("socks5: authentication failed")

// Handshake negotiates a method on conn and issues CONNECT for address.
// conn is ready to carry the tunneled stream when Handshake returns nil.
func Handshake(conn net.Conn, auth Auth, address string) error {
	if err := negotiate(conn, auth); err != nil {
		return err
	}
	return connect(conn, address)
}

func negotiate(conn net.Conn, auth Auth) error {
	methods := []byte{txsocks5.MethodNone}
	if auth.Username != "" {
		methods = append(methods, txsocks5.MethodUsernamePassword)
	}

	if _, err := txsocks5.NewNegotiationRequest(methods).WriteTo(conn); err != nil {
		return fmt.Errorf("socks5 write negotiation: %w", err)
	}
	rep, err := txsocks5.NewNegotiationReplyFrom(conn)
	if err != nil {
		return fmt.Errorf("socks5 read negotiation: %w", err)
	}

	switch rep.Method {
	case txsocks5.MethodNone:
		return nil
	case txsocks5.MethodUsernamePassword:
		if auth.Username == "" {
			return errors.New("socks5: upstream requires username/password")
		}
		req := txsocks5.NewUserPassNegotiationRequest([]byte(auth.Username), []byte(auth.Password))
		if _, err := req.WriteTo(conn); err != nil {
			return fmt.Errorf("socks5 write userpass: %w", err)
		}
		urep, err := txsocks5.NewUserPassNegotiationReplyFrom(conn)
		if err != nil {
			return fmt.Errorf("socks5 read userpass: %w", err)
		}
		if urep.Status != txsocks5.UserPassStatusSuccess {
			return ErrAuthFailed
		}
		return nil
	default:
		return fmt.Errorf("socks5: no acceptable method (upstream chose %#x)", rep.Method)
	}
}

func connect(conn net.Conn, address string) error {
	atyp, addr, port, err := txsocks5.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("socks5 parse address %q: %w", address, err)
	}
	if atyp == txsocks5.ATYPDomain {
		// ParseAddress prefixes domains with their length; NewRequest adds it again.
		addr = addr[1:]
	}

	if _, err := txsocks5.NewRequest(txsocks5.CmdConnect, atyp, addr, port).WriteTo(conn); err != nil {
		return fmt.Errorf("socks5 write connect: %w", err)
	}
	rep, err := txsocks5.NewReplyFrom(conn)
	if err != nil {
		return fmt.Errorf("socks5 read reply: %w", err)
	}
	if rep.Rep != txsocks5.RepSuccess {
		return fmt.Errorf("socks5 connect %s: reply code %#x", address, rep.Rep)
	}
	return nil
}
