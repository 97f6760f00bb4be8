package ssdp

import (
	"bytes"
	"fmt"
)

// PairKind identifies which variant a FieldPair holds.
type PairKind int

const (
	// KindUPnP is a bare keyword such as "rootdevice"
	KindUPnP PairKind = iota
	// KindUUID carries the textual device UUID
	KindUUID
	// KindURN carries schema:class:type:version
	KindURN
	// KindUnknown carries any other key/value split on the first colon
	KindUnknown
)

// Field keys recognised by ParseFieldPair.
const (
	UPnPKey = "upnp"
	UUIDKey = "uuid"
	URNKey  = "urn"
)

const pairSeparator = ':'

func (k PairKind) String() string {
	switch k {
	case KindUPnP:
		return "upnp"
	case KindUUID:
		return "uuid"
	case KindURN:
		return "urn"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("PairKind(%d)", k)
	}
}

// FieldPair is a colon-delimited header token such as "uuid:<id>" or
// "urn:schemas-upnp-org:device:Basic:1". Only the first colon is significant;
// the value keeps any further colons verbatim.
type FieldPair struct {
	Kind  PairKind
	Key   []byte // only populated for KindUnknown
	Value []byte
}

// ParseFieldPair splits b on its first colon. It returns false for empty
// input, input without a colon, or an empty key.
func ParseFieldPair(b []byte) (FieldPair, bool) {
	idx := bytes.IndexByte(b, pairSeparator)
	if idx <= 0 {
		return FieldPair{}, false
	}

	key, value := b[:idx], cloneBytes(b[idx+1:])

	switch string(key) {
	case UPnPKey:
		return FieldPair{Kind: KindUPnP, Value: value}, true
	case UUIDKey:
		return FieldPair{Kind: KindUUID, Value: value}, true
	case URNKey:
		return FieldPair{Kind: KindURN, Value: value}, true
	default:
		return FieldPair{Kind: KindUnknown, Key: cloneBytes(key), Value: value}, true
	}
}

// ParseFieldPairString is ParseFieldPair for string input.
func ParseFieldPairString(s string) (FieldPair, bool) {
	return ParseFieldPair([]byte(s))
}

// UPnP returns a FieldPair of kind KindUPnP.
func UPnP(value string) FieldPair { return FieldPair{Kind: KindUPnP, Value: []byte(value)} }

// UUID returns a FieldPair of kind KindUUID.
func UUID(value string) FieldPair { return FieldPair{Kind: KindUUID, Value: []byte(value)} }

// URN returns a FieldPair of kind KindURN.
func URN(value string) FieldPair { return FieldPair{Kind: KindURN, Value: []byte(value)} }

// Unknown returns a FieldPair of kind KindUnknown.
func Unknown(key, value string) FieldPair {
	return FieldPair{Kind: KindUnknown, Key: []byte(key), Value: []byte(value)}
}

// KeyString returns the key the pair was parsed from.
func (p FieldPair) KeyString() string {
	switch p.Kind {
	case KindUPnP:
		return UPnPKey
	case KindUUID:
		return UUIDKey
	case KindURN:
		return URNKey
	default:
		return string(p.Key)
	}
}

// String reproduces the wire form "key:value".
func (p FieldPair) String() string {
	return p.KeyString() + string(pairSeparator) + string(p.Value)
}

// Equal reports whether both pairs are the same variant with the same payload.
func (p FieldPair) Equal(o FieldPair) bool {
	if p.Kind != o.Kind {
		return false
	}
	if p.Kind == KindUnknown && !bytes.Equal(p.Key, o.Key) {
		return false
	}
	return bytes.Equal(p.Value, o.Value)
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
