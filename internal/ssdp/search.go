package ssdp

import (
	"fmt"
	"strconv"
)

const (
	// SearchAllValue is the ST value that targets every device and service.
	SearchAllValue = "ssdp:all"
	// DiscoverValue is the only valid MAN header value, quotes included.
	DiscoverValue = `"ssdp:discover"`

	// Upper bound on MX from the UPnP device architecture.
	maxMX = 120
)

// ST is a parsed search target header. When All is false, Target holds the
// requested field pair.
type ST struct {
	All    bool
	Target FieldPair
}

// ParseST parses the values of an ST header. Exactly one value is accepted.
func ParseST(values []string) (ST, bool) {
	if len(values) != 1 {
		return ST{}, false
	}
	if values[0] == SearchAllValue {
		return ST{All: true}, true
	}
	pair, ok := ParseFieldPairString(values[0])
	if !ok {
		return ST{}, false
	}
	return ST{Target: pair}, true
}

func (st ST) String() string {
	if st.All {
		return SearchAllValue
	}
	return st.Target.String()
}

// ParseMAN reports whether values hold exactly one, case-sensitive
// "ssdp:discover" extension declaration.
func ParseMAN(values []string) bool {
	return len(values) == 1 && values[0] == DiscoverValue
}

// SearchRequest is an M-SEARCH request seen on the multicast group.
type SearchRequest struct {
	ST     ST
	MX     int // seconds; zero when absent
	Header Header
}

// ParseSearchRequest validates an M-SEARCH request.
func ParseSearchRequest(req *Request) (*SearchRequest, error) {
	if req.Method != MethodSearch {
		return nil, Malformed(fmt.Sprintf("wrong HTTP method %q", req.Method), nil)
	}

	host, err := req.Header.Single(HeaderHost)
	if err != nil {
		return nil, err
	}
	if host != MulticastHost {
		return nil, InvalidHeader(HeaderHost, fmt.Sprintf("expected %s, got %q", MulticastHost, host))
	}

	man, ok := req.Header.Check(HeaderMAN)
	if !ok {
		return nil, MissingHeader(HeaderMAN)
	}
	if !ParseMAN(man) {
		return nil, InvalidHeader(HeaderMAN, "expected \"ssdp:discover\"")
	}

	stValues, ok := req.Header.Check(HeaderST)
	if !ok {
		return nil, MissingHeader(HeaderST)
	}
	st, ok := ParseST(stValues)
	if !ok {
		return nil, InvalidHeader(HeaderST, "invalid search target")
	}

	sr := &SearchRequest{ST: st, Header: req.Header}
	if mx := req.Header.Get(HeaderMX); mx != "" {
		n, err := strconv.Atoi(mx)
		if err != nil || n < 0 {
			return nil, InvalidHeader(HeaderMX, fmt.Sprintf("invalid MX %q", mx))
		}
		sr.MX = n
	}

	return sr, nil
}

// NewSearchRequest builds a multicast M-SEARCH request for st. MX is clamped
// to [1, 120] seconds.
func NewSearchRequest(st ST, mx int) *Request {
	if mx < 1 {
		mx = 1
	}
	if mx > maxMX {
		mx = maxMX
	}

	h := Header{}
	h.Set(HeaderHost, MulticastHost)
	h.Set(HeaderMAN, DiscoverValue)
	h.Set(HeaderMX, strconv.Itoa(mx))
	h.Set(HeaderST, st.String())

	return &Request{
		Method:     MethodSearch,
		Target:     "*",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     h,
	}
}
