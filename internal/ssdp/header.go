package ssdp

import (
	"bufio"
	"fmt"
	"io"
	"net/textproto"
	"sort"
	"strings"
)

// Multicast rendezvous for all SSDP traffic.
const (
	MulticastAddr = "239.255.255.250"
	MulticastPort = 1900
	MulticastHost = "239.255.255.250:1900"
)

// Header field names used by NOTIFY and M-SEARCH messages.
const (
	HeaderHost           = "HOST"
	HeaderNT             = "NT"
	HeaderNTS            = "NTS"
	HeaderUSN            = "USN"
	HeaderCacheControl   = "CACHE-CONTROL"
	HeaderLocation       = "LOCATION"
	HeaderServer         = "SERVER"
	HeaderBootID         = "BOOTID.UPNP.ORG"
	HeaderConfigID       = "CONFIGID.UPNP.ORG"
	HeaderSearchPort     = "SEARCHPORT.UPNP.ORG"
	HeaderSecureLocation = "SECURELOCATION.UPNP.ORG"
	HeaderST             = "ST"
	HeaderMAN            = "MAN"
	HeaderMX             = "MX"
)

// Header is a case-insensitive, multi-valued header block. Keys are stored
// in canonical MIME form so lookups by any spelling succeed.
type Header map[string][]string

// Add appends a value to the named header.
func (h Header) Add(name, value string) {
	textproto.MIMEHeader(h).Add(name, value)
}

// Set replaces all values of the named header.
func (h Header) Set(name, value string) {
	textproto.MIMEHeader(h).Set(name, value)
}

// Del removes the named header.
func (h Header) Del(name string) {
	textproto.MIMEHeader(h).Del(name)
}

// Get returns the first value of the named header, or "".
func (h Header) Get(name string) string {
	return textproto.MIMEHeader(h).Get(name)
}

// Values returns every value of the named header.
func (h Header) Values(name string) []string {
	return textproto.MIMEHeader(h).Values(name)
}

// Check returns every raw value of the named header and whether it was
// present at all. It is intended for vendor extension headers the typed
// message API does not expose.
func (h Header) Check(name string) ([]string, bool) {
	v, ok := h[textproto.CanonicalMIMEHeaderKey(name)]
	return v, ok
}

// Single returns the only value of the named header. A missing header yields
// a MissingHeader error, more than one value an InvalidHeader error.
func (h Header) Single(name string) (string, error) {
	values, ok := h.Check(name)
	if !ok || len(values) == 0 {
		return "", MissingHeader(name)
	}
	if len(values) != 1 {
		return "", InvalidHeader(name, fmt.Sprintf("%s header does not appear once", name))
	}
	return values[0], nil
}

// Clone returns a deep copy of h.
func (h Header) Clone() Header {
	out := make(Header, len(h))
	for k, v := range h {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Write emits h in wire form, one "NAME: value" line per value, sorted by
// name so output is deterministic. Names are written upper-case as SSDP
// implementations conventionally expect.
func (h Header) Write(w io.Writer) error {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	for _, k := range keys {
		for _, v := range h[k] {
			if _, err := fmt.Fprintf(bw, "%s: %s\r\n", strings.ToUpper(k), v); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
