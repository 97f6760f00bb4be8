package forum

import (
	"net/url"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input  string
		want   Version
		wantOK bool
	}{
		{"1", V1, true},
		{"2", V2, true},
		{"3", V3, true},
		{"4", V4, true},
		{"5", V5, true},
		{"0", 0, false},
		{"6", 0, false},
		{"256", 0, false},
		{"-1", 0, false},
		{"one", 0, false},
		{"", 0, false},
		{"1.0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseVersion(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestVersionFromByte(t *testing.T) {
	for b := 0; b < 256; b++ {
		v, ok := VersionFromByte(byte(b))
		wantOK := b >= 1 && b <= 5
		if ok != wantOK {
			t.Errorf("VersionFromByte(%d) ok = %v, want %v", b, ok, wantOK)
		}
		if ok && int(v) != b {
			t.Errorf("VersionFromByte(%d) = %d", b, v)
		}
	}
}

func TestQuery(t *testing.T) {
	loc, _ := url.Parse("http://192.168.1.20:49152/desc.xml")
	target := DeviceTarget(NewDeviceType("MediaRenderer", V2))
	q := NewQuery("uuid:4d696e69-444c-164e-9d41-b827eb96c6c2", target, loc)

	if q.UUID() != "4d696e69-444c-164e-9d41-b827eb96c6c2" {
		t.Errorf("UUID() = %q", q.UUID())
	}
	if q.Location().String() != loc.String() {
		t.Errorf("Location() = %v", q.Location())
	}
	if v, ok := q.Version(); !ok || v != V2 {
		t.Errorf("Version() = %v, %v; want 2, true", v, ok)
	}

	parsed, err := q.ParsedUUID()
	if err != nil {
		t.Fatalf("ParsedUUID() error = %v", err)
	}
	if parsed.String() != q.UUID() {
		t.Errorf("ParsedUUID() = %v, want %v", parsed, q.UUID())
	}

	dq, ok := q.Device()
	if !ok {
		t.Fatal("Device() ok = false, want true")
	}
	if dq.Kind() != MediaRenderer {
		t.Errorf("Kind() = %v, want MediaRenderer", dq.Kind())
	}
	if dq.Version() != V2 {
		t.Errorf("Version() = %v, want 2", dq.Version())
	}
}

func TestQueryNonDevice(t *testing.T) {
	q := NewQuery("uuid:not-a-canonical-uuid", Root(), nil)

	if _, ok := q.Device(); ok {
		t.Error("Device() ok = true for root target")
	}
	if _, ok := q.Version(); ok {
		t.Error("Version() ok = true for root target")
	}
	if q.Location() != nil {
		t.Error("Location() should be nil")
	}
	if _, err := q.ParsedUUID(); err == nil {
		t.Error("ParsedUUID() error = nil for non-canonical uuid")
	}
}
