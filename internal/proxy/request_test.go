package proxy

import (
	"reflect"
	"testing"
)

func TestParseRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		header       string
		wantKind     Kind
		wantLines    []string
		wantOutbound string
	}{
		{
			name:         "get is forwarded and downgraded",
			header:       "GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n",
			wantKind:     Forward,
			wantLines:    []string{"GET /index.html HTTP/1.1", "Host: example.com"},
			wantOutbound: "GET /index.html HTTP/1.0\r\nHost: example.com\r\n\r\n",
		},
		{
			name:         "only first occurrence rewritten",
			header:       "GET / HTTP/1.1\r\nVia: HTTP/1.1 cache\r\nHost: a\r\n\r\n",
			wantKind:     Forward,
			wantLines:    []string{"GET / HTTP/1.1", "Via: HTTP/1.1 cache", "Host: a"},
			wantOutbound: "GET / HTTP/1.0\r\nVia: HTTP/1.1 cache\r\nHost: a\r\n\r\n",
		},
		{
			name:         "first occurrence may be a header value",
			header:       "GET / HTTP/1.0\r\nVia: HTTP/1.1 cache\r\nHost: a\r\n\r\n",
			wantKind:     Forward,
			wantLines:    []string{"GET / HTTP/1.0", "Via: HTTP/1.1 cache", "Host: a"},
			wantOutbound: "GET / HTTP/1.0\r\nVia: HTTP/1.0 cache\r\nHost: a\r\n\r\n",
		},
		{
			name:         "no version token leaves block unchanged",
			header:       "GET / HTTP/1.0\r\nHost: a\r\n\r\n",
			wantKind:     Forward,
			wantLines:    []string{"GET / HTTP/1.0", "Host: a"},
			wantOutbound: "GET / HTTP/1.0\r\nHost: a\r\n\r\n",
		},
		{
			name:      "post is unsupported",
			header:    "POST /x HTTP/1.1\r\nHost: example.com\r\n\r\n",
			wantKind:  UnsupportedMethod,
			wantLines: []string{"POST /x HTTP/1.1", "Host: example.com"},
		},
		{
			name:      "method match is case sensitive",
			header:    "get / HTTP/1.1\r\nHost: a\r\n\r\n",
			wantKind:  UnsupportedMethod,
			wantLines: []string{"get / HTTP/1.1", "Host: a"},
		},
		{
			name:      "connect is unsupported",
			header:    "CONNECT example.com:443 HTTP/1.1\r\nHost: example.com:443\r\n\r\n",
			wantKind:  UnsupportedMethod,
			wantLines: []string{"CONNECT example.com:443 HTTP/1.1", "Host: example.com:443"},
		},
		{
			name:      "request line only is malformed",
			header:    "GET / HTTP/1.1\r\n\r\n",
			wantKind:  Malformed,
			wantLines: []string{"GET / HTTP/1.1"},
		},
		{
			name:      "empty block is malformed",
			header:    "\r\n\r\n",
			wantKind:  Malformed,
			wantLines: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRequest(tt.header)
			if got.Kind != tt.wantKind {
				t.Fatalf("kind %v want %v", got.Kind, tt.wantKind)
			}
			if !reflect.DeepEqual(got.Lines, tt.wantLines) {
				t.Fatalf("lines %q want %q", got.Lines, tt.wantLines)
			}
			if string(got.Outbound) != tt.wantOutbound {
				t.Fatalf("outbound %q want %q", got.Outbound, tt.wantOutbound)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	for k, want := range map[Kind]string{
		Forward:           "forward",
		UnsupportedMethod: "unsupported-method",
		Malformed:         "malformed",
		Kind(42):          "unknown",
	} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String()=%q want %q", int(k), got, want)
		}
	}
}
