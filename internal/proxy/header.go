package proxy

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const crlf = "\r\n"

var (
	// ErrIncompleteHeader means the client closed before sending the empty
	// line that ends the header block.
	ErrIncompleteHeader = errors.New("incomplete header: stream ended before empty line")

	// ErrHeaderTooLarge means the header block exceeded MaxHeaderBytes.
	ErrHeaderTooLarge = errors.New("header block too large")
)

// ReadHeader reads a request header block from r one byte at a time.
//
// Carriage returns are dropped and every line feed becomes CRLF, so bare-LF
// and CRLF clients produce identical text. Reading stops at the first empty
// line; the returned block ends with CRLF CRLF. limit caps the block size when
// positive.
func ReadHeader(r io.ByteReader, limit int) (string, error) {
	var (
		sb   strings.Builder
		last byte
	)

	for {
		c, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrIncompleteHeader
			}
			return "", fmt.Errorf("read header: %w", err)
		}

		switch c {
		case '\r':
			continue
		case '\n':
			sb.WriteString(crlf)
			if last == '\n' {
				return sb.String(), nil
			}
		default:
			sb.WriteByte(c)
		}
		last = c

		if limit > 0 && sb.Len() > limit {
			return "", ErrHeaderTooLarge
		}
	}
}
