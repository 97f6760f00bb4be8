package notify

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/ssdpmon/internal/forum"
	"github.com/muurk/ssdpmon/internal/ssdp"
)

const (
	usnSeparator     = "::"
	maxAgeDirective  = "max-age"
	directiveDivider = ","
)

// ParseDatagram tokenizes and validates a raw NOTIFY datagram.
func ParseDatagram(datagram []byte) (Message, error) {
	req, err := ssdp.ParseRequest(datagram)
	if err != nil {
		return nil, err
	}
	return ParseRequest(req)
}

// ParseRequest validates a tokenized request as a NOTIFY message.
func ParseRequest(req *ssdp.Request) (Message, error) {
	if req.Method != ssdp.MethodNotify {
		return nil, ssdp.Malformed(fmt.Sprintf("wrong HTTP method %q", req.Method), nil)
	}
	return Parse(req.Header)
}

// Parse validates a header block and builds the message selected by NTS.
// Either a complete message or an error is returned, never both.
func Parse(h ssdp.Header) (Message, error) {
	nts, err := h.Single(ssdp.HeaderNTS)
	if err != nil {
		return nil, err
	}
	kind, ok := ParseNTS(nts)
	if !ok {
		return nil, ssdp.InvalidHeader(ssdp.HeaderNTS, fmt.Sprintf("unrecognized notification sub type %q", nts))
	}

	n, err := parseNotification(h)
	if err != nil {
		return nil, err
	}

	if kind == ByeBye {
		return &ByeByeMessage{Notification: n}, nil
	}

	a, err := parseAnnouncement(h, n)
	if err != nil {
		return nil, err
	}
	if kind == Update {
		return &UpdateMessage{Announcement: a}, nil
	}
	return &AliveMessage{Announcement: a}, nil
}

// parseNotification runs the validation shared by all sub types: HOST,
// NT/USN consistency and target resolution.
func parseNotification(h ssdp.Header) (Notification, error) {
	host, err := h.Single(ssdp.HeaderHost)
	if err != nil {
		return Notification{}, err
	}
	if host != ssdp.MulticastHost {
		return Notification{}, ssdp.InvalidHeader(ssdp.HeaderHost,
			fmt.Sprintf("expected %s, got %q", ssdp.MulticastHost, host))
	}

	ntRaw, err := h.Single(ssdp.HeaderNT)
	if err != nil {
		return Notification{}, err
	}
	usnRaw, err := h.Single(ssdp.HeaderUSN)
	if err != nil {
		return Notification{}, err
	}

	nt, ok := ssdp.ParseFieldPairString(ntRaw)
	if !ok {
		return Notification{}, ssdp.InvalidHeader(ssdp.HeaderNT, fmt.Sprintf("invalid field pair %q", ntRaw))
	}

	device, suffix, err := splitUSN(usnRaw)
	if err != nil {
		return Notification{}, err
	}

	if err := checkNTAgainstUSN(nt, device, suffix); err != nil {
		return Notification{}, err
	}

	if _, err := forum.Resolve(device); err != nil {
		return Notification{}, ssdp.InvalidHeaderErr(ssdp.HeaderUSN, err)
	}

	target, err := forum.Resolve(nt)
	if err != nil {
		if forum.IsUnsupported(err) {
			return Notification{}, ssdp.Unsupported(ssdp.HeaderNT, err)
		}
		return Notification{}, ssdp.InvalidHeaderErr(ssdp.HeaderNT, err)
	}

	udn := forum.UDNPrefix + string(device.Value)

	return Notification{
		header:  h,
		created: time.Now(),
		usn:     usnRaw,
		query:   forum.NewQuery(udn, target, nil),
	}, nil
}

// splitUSN separates "uuid:<id>[::<target>]". The separator is searched
// for after the "uuid:" key so an id that itself begins with a colon is
// kept intact.
func splitUSN(usn string) (ssdp.FieldPair, *ssdp.FieldPair, error) {
	if !strings.HasPrefix(usn, forum.UDNPrefix) {
		return ssdp.FieldPair{}, nil, ssdp.InvalidHeader(ssdp.HeaderUSN, "USN does not begin with a uuid field")
	}

	head, tail := usn, ""
	hasTail := false
	if idx := strings.Index(usn[len(forum.UDNPrefix):], usnSeparator); idx >= 0 {
		cut := len(forum.UDNPrefix) + idx
		head, tail, hasTail = usn[:cut], usn[cut+len(usnSeparator):], true
	}

	device, ok := ssdp.ParseFieldPairString(head)
	if !ok || device.Kind != ssdp.KindUUID {
		return ssdp.FieldPair{}, nil, ssdp.InvalidHeader(ssdp.HeaderUSN, "USN does not begin with a uuid field")
	}
	if !hasTail {
		return device, nil, nil
	}

	second, ok := ssdp.ParseFieldPairString(tail)
	if !ok {
		return ssdp.FieldPair{}, nil, ssdp.InvalidHeader(ssdp.HeaderUSN, fmt.Sprintf("invalid USN target %q", tail))
	}
	return device, &second, nil
}

func checkNTAgainstUSN(nt, device ssdp.FieldPair, suffix *ssdp.FieldPair) error {
	switch nt.Kind {
	case ssdp.KindUUID:
		if !nt.Equal(device) {
			return ssdp.InvalidHeader(ssdp.HeaderUSN, "USN uuid does not match NT")
		}
		if suffix != nil {
			return ssdp.InvalidHeader(ssdp.HeaderUSN, "USN must not carry a target when NT is a uuid")
		}
		return nil

	case ssdp.KindUPnP, ssdp.KindURN:
		if suffix == nil {
			return ssdp.InvalidHeader(ssdp.HeaderUSN, "USN is missing the NT target")
		}
		if !suffix.Equal(nt) {
			return ssdp.InvalidHeader(ssdp.HeaderUSN, "USN target does not match NT")
		}
		return nil

	default:
		return ssdp.InvalidHeader(ssdp.HeaderNT, fmt.Sprintf("unknown field key %q", nt.Key))
	}
}

func parseAnnouncement(h ssdp.Header, n Notification) (Announcement, error) {
	maxAge, err := parseMaxAge(h)
	if err != nil {
		return Announcement{}, err
	}

	location, err := parseLocation(h)
	if err != nil {
		return Announcement{}, err
	}

	info, err := Infer(h)
	if err != nil {
		return Announcement{}, err
	}

	n.query = forum.NewQuery(n.query.UDN(), n.query.Target(), location)
	return Announcement{Notification: n, maxAge: maxAge, version: info}, nil
}

// parseMaxAge finds the first max-age directive across every CACHE-CONTROL
// value.
func parseMaxAge(h ssdp.Header) (time.Duration, error) {
	values, ok := h.Check(ssdp.HeaderCacheControl)
	if !ok || len(values) == 0 {
		return 0, ssdp.MissingHeader(ssdp.HeaderCacheControl)
	}

	for _, value := range values {
		for _, directive := range strings.Split(value, directiveDivider) {
			name, arg, hasArg := strings.Cut(strings.TrimSpace(directive), "=")
			if !strings.EqualFold(strings.TrimSpace(name), maxAgeDirective) {
				continue
			}
			if !hasArg {
				return 0, ssdp.InvalidHeader(ssdp.HeaderCacheControl, "max-age has no value")
			}
			seconds, err := strconv.ParseUint(strings.Trim(strings.TrimSpace(arg), `"`), 10, 32)
			if err != nil {
				return 0, ssdp.InvalidHeaderErr(ssdp.HeaderCacheControl, err)
			}
			return time.Duration(seconds) * time.Second, nil
		}
	}

	return 0, ssdp.InvalidHeader(ssdp.HeaderCacheControl, "no max-age directive")
}

func parseLocation(h ssdp.Header) (*url.URL, error) {
	raw, err := h.Single(ssdp.HeaderLocation)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ssdp.InvalidHeaderErr(ssdp.HeaderLocation, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, ssdp.InvalidHeader(ssdp.HeaderLocation, fmt.Sprintf("not an absolute URL %q", raw))
	}
	return u, nil
}
