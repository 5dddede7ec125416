package proxy

import (
	"strings"
)

// Kind classifies a parsed header block.
type Kind int

const (
	// Forward is a well-formed GET request.
	Forward Kind = iota
	// UnsupportedMethod is a well-formed request for anything but GET.
	UnsupportedMethod
	// Malformed has no header lines after the request line.
	Malformed
)

func (k Kind) String() string {
	switch k {
	case Forward:
		return "forward"
	case UnsupportedMethod:
		return "unsupported-method"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

const (
	methodGet   = "GET"
	versionFrom = "HTTP/1.1"
	versionTo   = "HTTP/1.0"
)

// Request is the result of parsing a header block.
type Request struct {
	Kind Kind

	// Lines are the header lines without terminators; Lines[0] is the
	// request line.
	Lines []string

	// Outbound is the block to send to the origin. Set only for Forward.
	Outbound []byte
}

// RequestLine returns the first header line, or "" if there is none.
func (r Request) RequestLine() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return r.Lines[0]
}

// ParseRequest classifies header, as returned by ReadHeader.
//
// For Forward requests the first occurrence of "HTTP/1.1" anywhere in the
// block is rewritten to "HTTP/1.0". Normally that is the request line, but a
// header value containing the token earlier in the text would be rewritten
// instead.
func ParseRequest(header string) Request {
	lines := splitLines(header)

	switch {
	case len(lines) <= 1:
		return Request{Kind: Malformed, Lines: lines}
	case !strings.HasPrefix(lines[0], methodGet):
		return Request{Kind: UnsupportedMethod, Lines: lines}
	}

	return Request{
		Kind:     Forward,
		Lines:    lines,
		Outbound: []byte(strings.Replace(header, versionFrom, versionTo, 1)),
	}
}

// splitLines splits on CRLF and drops trailing empty lines.
func splitLines(header string) []string {
	lines := strings.Split(header, crlf)
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
