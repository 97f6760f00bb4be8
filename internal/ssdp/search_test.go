package ssdp

import (
	"testing"
)

func TestParseST(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		wantOK   bool
		wantAll  bool
		wantKind PairKind
	}{
		{"all", []string{"ssdp:all"}, true, true, 0},
		{"upnp", []string{"upnp:some_identifier"}, true, false, KindUPnP},
		{"urn", []string{"urn:some_identifier"}, true, false, KindURN},
		{"uuid", []string{"uuid:some_identifier"}, true, false, KindUUID},
		{"missing", nil, false, false, 0},
		{"duplicated", []string{"ssdp:all", "ssdp:all"}, false, false, 0},
		{"no colon", []string{"garbage"}, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := ParseST(tt.values)
			if ok != tt.wantOK {
				t.Fatalf("ParseST() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if st.All != tt.wantAll {
				t.Errorf("All = %v, want %v", st.All, tt.wantAll)
			}
			if !st.All && st.Target.Kind != tt.wantKind {
				t.Errorf("Target.Kind = %v, want %v", st.Target.Kind, tt.wantKind)
			}
			if st.String() != tt.values[0] {
				t.Errorf("String() = %q, want %q", st.String(), tt.values[0])
			}
		})
	}
}

func TestParseMAN(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   bool
	}{
		{"valid", []string{`"ssdp:discover"`}, true},
		{"wrong case", []string{`"SSDP:discover"`}, false},
		{"unquoted", []string{"ssdp:discover"}, false},
		{"duplicated", []string{`"ssdp:discover"`, `"ssdp:discover"`}, false},
		{"missing", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMAN(tt.values); got != tt.want {
				t.Errorf("ParseMAN(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestSearchRequestRoundTrip(t *testing.T) {
	st := ST{Target: URN("schemas-upnp-org:device:MediaRenderer:1")}
	req := NewSearchRequest(st, 3)

	parsed, err := ParseRequest(req.Bytes())
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}

	sr, err := ParseSearchRequest(parsed)
	if err != nil {
		t.Fatalf("ParseSearchRequest() error = %v", err)
	}
	if sr.MX != 3 {
		t.Errorf("MX = %d, want 3", sr.MX)
	}
	if sr.ST.All || !sr.ST.Target.Equal(st.Target) {
		t.Errorf("ST = %v, want %v", sr.ST, st)
	}
}

func TestNewSearchRequestClampsMX(t *testing.T) {
	if got := NewSearchRequest(ST{All: true}, 0).Header.Get(HeaderMX); got != "1" {
		t.Errorf("MX = %q, want 1", got)
	}
	if got := NewSearchRequest(ST{All: true}, 500).Header.Get(HeaderMX); got != "120" {
		t.Errorf("MX = %q, want 120", got)
	}
}

func TestParseSearchRequestErrors(t *testing.T) {
	base := func() *Request {
		return NewSearchRequest(ST{All: true}, 2)
	}

	tests := []struct {
		name       string
		mutate     func(r *Request)
		wantType   ErrorType
		wantHeader string
	}{
		{
			name:     "notify method",
			mutate:   func(r *Request) { r.Method = MethodNotify },
			wantType: ErrTypeMalformed,
		},
		{
			name:       "wrong host",
			mutate:     func(r *Request) { r.Header.Set(HeaderHost, "10.0.0.1:1900") },
			wantType:   ErrTypeInvalidHeader,
			wantHeader: HeaderHost,
		},
		{
			name:       "missing MAN",
			mutate:     func(r *Request) { r.Header.Del(HeaderMAN) },
			wantType:   ErrTypeMissingHeader,
			wantHeader: HeaderMAN,
		},
		{
			name:       "bad ST",
			mutate:     func(r *Request) { r.Header.Set(HeaderST, "nonsense") },
			wantType:   ErrTypeInvalidHeader,
			wantHeader: HeaderST,
		},
		{
			name:       "bad MX",
			mutate:     func(r *Request) { r.Header.Set(HeaderMX, "soon") },
			wantType:   ErrTypeInvalidHeader,
			wantHeader: HeaderMX,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(req)

			_, err := ParseSearchRequest(req)
			if !IsType(err, tt.wantType) {
				t.Fatalf("ParseSearchRequest() error = %v, want type %v", err, tt.wantType)
			}
			if HeaderOf(err) != tt.wantHeader {
				t.Errorf("HeaderOf() = %q, want %q", HeaderOf(err), tt.wantHeader)
			}
		})
	}
}
