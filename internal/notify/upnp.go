package notify

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/muurk/ssdpmon/internal/ssdp"
)

// UPnPVersion is the UPnP Device Architecture revision a device speaks.
type UPnPVersion int

const (
	UPnP10 UPnPVersion = iota
	UPnP11
	UPnP20
)

// Product tokens searched for in the SERVER header, in match order.
const (
	upnp10Token = "UPnP/1.0"
	upnp11Token = "UPnP/1.1"
	upnp20Token = "UPnP/2.0"
)

func (v UPnPVersion) String() string {
	switch v {
	case UPnP10:
		return upnp10Token
	case UPnP11:
		return upnp11Token
	case UPnP20:
		return upnp20Token
	default:
		return fmt.Sprintf("UPnPVersion(%d)", v)
	}
}

// VersionInfo is the inferred protocol revision plus the optional headers
// that revision defines. BootID and ConfigID are meaningful from 1.1 on;
// SecureLocation only for 2.0.
type VersionInfo struct {
	Version        UPnPVersion
	BootID         uint32
	ConfigID       uint32
	SearchPort     uint16
	HasSearchPort  bool
	SecureLocation string
}

// Infer reads SERVER and returns the protocol revision along with the
// revision-specific headers. Matching is by substring: the first of
// "UPnP/1.0", "UPnP/1.1", "UPnP/2.0" found wins, so a SERVER value naming
// both 1.0 and 2.0 is treated as 1.0.
func Infer(h ssdp.Header) (VersionInfo, error) {
	server := h.Get(ssdp.HeaderServer)
	if server == "" {
		if _, ok := h.Check(ssdp.HeaderServer); !ok {
			return VersionInfo{}, ssdp.MissingHeader(ssdp.HeaderServer)
		}
	}

	switch {
	case strings.Contains(server, upnp10Token):
		return VersionInfo{Version: UPnP10}, nil

	case strings.Contains(server, upnp11Token):
		info := VersionInfo{Version: UPnP11}
		if err := parseV11Headers(h, &info); err != nil {
			return VersionInfo{}, err
		}
		return info, nil

	case strings.Contains(server, upnp20Token):
		info := VersionInfo{Version: UPnP20}
		if err := parseV11Headers(h, &info); err != nil {
			return VersionInfo{}, err
		}
		if err := parseV20Headers(h, &info); err != nil {
			return VersionInfo{}, err
		}
		return info, nil

	default:
		return VersionInfo{}, ssdp.InvalidHeader(ssdp.HeaderServer, "invalid UPnP version in SERVER header")
	}
}

func parseV11Headers(h ssdp.Header, info *VersionInfo) error {
	raw, err := h.Single(ssdp.HeaderBootID)
	if err != nil {
		return err
	}
	bootID, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return ssdp.InvalidHeaderErr(ssdp.HeaderBootID, err)
	}
	info.BootID = uint32(bootID)

	raw, err = h.Single(ssdp.HeaderConfigID)
	if err != nil {
		return err
	}
	// CONFIGID is a signed 31-bit value on the wire.
	configID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return ssdp.InvalidHeaderErr(ssdp.HeaderConfigID, err)
	}
	if configID < 0 {
		return ssdp.InvalidHeader(ssdp.HeaderConfigID, fmt.Sprintf("negative value %d", configID))
	}
	info.ConfigID = uint32(configID)

	if values, ok := h.Check(ssdp.HeaderSearchPort); ok && len(values) > 0 {
		port, err := strconv.ParseUint(strings.TrimSpace(values[0]), 10, 16)
		if err != nil {
			return ssdp.InvalidHeaderErr(ssdp.HeaderSearchPort, err)
		}
		info.SearchPort = uint16(port)
		info.HasSearchPort = true
	}

	return nil
}

func parseV20Headers(h ssdp.Header, info *VersionInfo) error {
	values, ok := h.Check(ssdp.HeaderSecureLocation)
	if !ok || len(values) == 0 {
		return nil
	}

	loc := values[0]
	if loc == "" {
		return ssdp.InvalidHeader(ssdp.HeaderSecureLocation, "empty value")
	}
	if !utf8.ValidString(loc) {
		return ssdp.InvalidHeader(ssdp.HeaderSecureLocation, "value is not valid UTF-8")
	}
	info.SecureLocation = loc
	return nil
}
