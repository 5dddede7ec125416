package proxy

import (
	"fmt"
	"io"
)

// relay copies src to dst one buffer-sized chunk at a time, in order, until
// src reports EOF. It returns the number of bytes written to dst.
func relay(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, fmt.Errorf("write client: %w", werr)
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, fmt.Errorf("read origin: %w", rerr)
		}
	}
}
