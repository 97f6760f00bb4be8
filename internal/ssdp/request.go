package ssdp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"strings"
)

// Request methods carried over HTTPU.
const (
	MethodNotify = "NOTIFY"
	MethodSearch = "M-SEARCH"
)

// Request is a tokenized HTTP-over-UDP request: a request line and a header block.
type Request struct {
	Method     string
	Target     string
	ProtoMajor int
	ProtoMinor int
	Header     Header
}

// ReadRequest reads a single HTTPU request from b. Only "*" is accepted as
// the request target and only NOTIFY and M-SEARCH as methods.
func ReadRequest(b *bufio.Reader) (req *Request, err error) {
	tp := textproto.NewReader(b)

	line, err := tp.ReadLine()
	if err != nil {
		return nil, Malformed("failed to read request line", err)
	}

	f := strings.SplitN(line, " ", 3)
	if len(f) < 3 {
		return nil, Malformed(fmt.Sprintf("malformed request line %q", line), nil)
	}

	req = &Request{Method: f[0], Target: f[1]}
	switch req.Method {
	case MethodNotify, MethodSearch:
	default:
		return nil, Malformed(fmt.Sprintf("wrong HTTP method %q", req.Method), nil)
	}
	if req.Target != "*" {
		return nil, Malformed(fmt.Sprintf("invalid request target %q", req.Target), nil)
	}

	var ok bool
	if req.ProtoMajor, req.ProtoMinor, ok = http.ParseHTTPVersion(strings.TrimSpace(f[2])); !ok {
		return nil, Malformed(fmt.Sprintf("malformed HTTP version %q", f[2]), nil)
	}

	mimeHeader, err := tp.ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, Malformed("failed to read header block", err)
	}
	req.Header = Header(mimeHeader)

	return req, nil
}

// ParseRequest tokenizes a raw datagram. A datagram whose header block is not
// terminated by an empty line is accepted as if it were.
func ParseRequest(datagram []byte) (*Request, error) {
	if len(datagram) == 0 {
		return nil, Malformed("empty datagram", nil)
	}
	return ReadRequest(bufio.NewReader(bytes.NewReader(terminate(datagram))))
}

func terminate(b []byte) []byte {
	switch {
	case bytes.HasSuffix(b, []byte("\r\n\r\n")), bytes.HasSuffix(b, []byte("\n\n")):
		return b
	case bytes.HasSuffix(b, []byte("\r\n")):
		return append(b[:len(b):len(b)], '\r', '\n')
	case bytes.HasSuffix(b, []byte("\n")):
		return append(b[:len(b):len(b)], '\n')
	default:
		return append(b[:len(b):len(b)], '\r', '\n', '\r', '\n')
	}
}

// Bytes renders the request in wire form.
func (r *Request) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s HTTP/%d.%d\r\n", r.Method, r.Target, r.ProtoMajor, r.ProtoMinor)
	_ = r.Header.Write(&buf)
	buf.WriteString("\r\n")
	return buf.Bytes()
}
