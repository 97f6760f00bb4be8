package ssdp

import (
	"testing"
)

func TestParseFieldPair(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOK    bool
		wantKind  PairKind
		wantKey   string
		wantValue string
	}{
		{
			name:      "upnp rootdevice",
			input:     "upnp:rootdevice",
			wantOK:    true,
			wantKind:  KindUPnP,
			wantKey:   "upnp",
			wantValue: "rootdevice",
		},
		{
			name:      "uuid",
			input:     "uuid:2fac1234-31f8-11b4-a222-08002b34c003",
			wantOK:    true,
			wantKind:  KindUUID,
			wantKey:   "uuid",
			wantValue: "2fac1234-31f8-11b4-a222-08002b34c003",
		},
		{
			name:      "urn keeps inner colons",
			input:     "urn:schemas-upnp-org:device:Basic:1",
			wantOK:    true,
			wantKind:  KindURN,
			wantKey:   "urn",
			wantValue: "schemas-upnp-org:device:Basic:1",
		},
		{
			name:      "unknown key",
			input:     "vendor:thing",
			wantOK:    true,
			wantKind:  KindUnknown,
			wantKey:   "vendor",
			wantValue: "thing",
		},
		{
			name:      "keys are case sensitive",
			input:     "UUID:abc",
			wantOK:    true,
			wantKind:  KindUnknown,
			wantKey:   "UUID",
			wantValue: "abc",
		},
		{
			name:      "double colon preserved in value",
			input:     "uuid::a984bc8c-aaf0-5dff-b980-00d098bda247",
			wantOK:    true,
			wantKind:  KindUUID,
			wantKey:   "uuid",
			wantValue: ":a984bc8c-aaf0-5dff-b980-00d098bda247",
		},
		{
			name:      "empty value",
			input:     "upnp:",
			wantOK:    true,
			wantKind:  KindUPnP,
			wantKey:   "upnp",
			wantValue: "",
		},
		{name: "empty input", input: "", wantOK: false},
		{name: "no colon", input: "rootdevice", wantOK: false},
		{name: "empty key", input: ":value", wantOK: false},
		{name: "lone colon", input: ":", wantOK: false},
		{name: "double colon only", input: "::", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, ok := ParseFieldPairString(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseFieldPair(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if pair.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", pair.Kind, tt.wantKind)
			}
			if pair.KeyString() != tt.wantKey {
				t.Errorf("KeyString() = %q, want %q", pair.KeyString(), tt.wantKey)
			}
			if string(pair.Value) != tt.wantValue {
				t.Errorf("Value = %q, want %q", pair.Value, tt.wantValue)
			}
		})
	}
}

func TestFieldPairRoundTrip(t *testing.T) {
	inputs := []string{
		"upnp:rootdevice",
		"uuid:2fac1234-31f8-11b4-a222-08002b34c003",
		"uuid::a984bc8c-aaf0-5dff-b980-00d098bda247",
		"urn:schemas-upnp-org:service:ContentDirectory:1",
		"urn:schemas-upnp-org:device:MediaServer:4",
		"vendor:thing:with:colons",
	}

	for _, in := range inputs {
		pair, ok := ParseFieldPairString(in)
		if !ok {
			t.Fatalf("ParseFieldPair(%q) failed", in)
		}
		if got := pair.String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
	}
}

func TestParseFieldPairCopiesInput(t *testing.T) {
	buf := []byte("uuid:abc")
	pair, ok := ParseFieldPair(buf)
	if !ok {
		t.Fatal("ParseFieldPair() failed")
	}
	buf[5] = 'X'
	if string(pair.Value) != "abc" {
		t.Errorf("Value aliased input buffer: %q", pair.Value)
	}
}

func TestFieldPairEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b FieldPair
		want bool
	}{
		{"same urn", URN("schemas-upnp-org:device:Basic:1"), URN("schemas-upnp-org:device:Basic:1"), true},
		{"different value", URN("schemas-upnp-org:device:Basic:1"), URN("schemas-upnp-org:device:Basic:2"), false},
		{"different kind", UPnP("rootdevice"), URN("rootdevice"), false},
		{"unknown same", Unknown("a", "b"), Unknown("a", "b"), true},
		{"unknown different key", Unknown("a", "b"), Unknown("c", "b"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
