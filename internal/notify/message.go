package notify

import (
	"fmt"
	"net/url"
	"time"

	"github.com/muurk/ssdpmon/internal/forum"
	"github.com/muurk/ssdpmon/internal/ssdp"
)

// NotifyType is the NTS sub type of a notification.
type NotifyType int

const (
	Alive NotifyType = iota
	Update
	ByeBye
)

// NTS header values.
const (
	NTSAlive  = "ssdp:alive"
	NTSUpdate = "ssdp:update"
	NTSByeBye = "ssdp:byebye"
)

// ParseNTS maps an NTS header value to a NotifyType.
func ParseNTS(value string) (NotifyType, bool) {
	switch value {
	case NTSAlive:
		return Alive, true
	case NTSUpdate:
		return Update, true
	case NTSByeBye:
		return ByeBye, true
	default:
		return 0, false
	}
}

func (t NotifyType) String() string {
	switch t {
	case Alive:
		return NTSAlive
	case Update:
		return NTSUpdate
	case ByeBye:
		return NTSByeBye
	default:
		return fmt.Sprintf("NotifyType(%d)", t)
	}
}

// Message is a fully validated NOTIFY message. Concrete values are
// *AliveMessage, *UpdateMessage and *ByeByeMessage.
type Message interface {
	Type() NotifyType
	String() string

	// Query identifies the announced device and target.
	Query() forum.Query
	// USN returns the raw Unique Service Name.
	USN() string
	// Created returns when the message was constructed.
	Created() time.Time
	// Header returns a copy of the full header block as received.
	Header() ssdp.Header
	// CheckHeader looks up any header, including vendor extensions.
	CheckHeader(name string) ([]string, bool)
}

// Notification holds what every notify sub type carries.
type Notification struct {
	header  ssdp.Header
	created time.Time
	usn     string
	query   forum.Query
}

func (n *Notification) Query() forum.Query { return n.query }
func (n *Notification) USN() string { return n.usn }
func (n *Notification) Created() time.Time { return n.created }
func (n *Notification) Header() ssdp.Header { return n.header.Clone() }
func (n *Notification) CheckHeader(name string) ([]string, bool) {
	return n.header.Check(name)
}

// Announcement is the shared body of alive and update messages: the
// advertised lifetime, location and protocol revision.
type Announcement struct {
	Notification
	maxAge  time.Duration
	version VersionInfo
}

// MaxAge returns the advertised validity duration.
func (a *Announcement) MaxAge() time.Duration { return a.maxAge }

// Location returns the device description URL.
func (a *Announcement) Location() *url.URL { return a.query.Location() }

// Server returns the SERVER header.
func (a *Announcement) Server() string { return a.header.Get(ssdp.HeaderServer) }

// VersionInfo returns the inferred UPnP revision and its optional headers.
func (a *Announcement) VersionInfo() VersionInfo { return a.version }

// ExpiresAt returns when the announcement lapses without renewal.
func (a *Announcement) ExpiresAt() time.Time { return a.created.Add(a.maxAge) }

// IsExpired reports whether more than max-age has elapsed since the message
// was constructed. It reads the monotonic clock.
func (a *Announcement) IsExpired() bool {
	return time.Since(a.created) > a.maxAge
}

// AliveMessage announces a device or service joining the network.
type AliveMessage struct {
	Announcement
}

func (m *AliveMessage) Type() NotifyType { return Alive }

func (m *AliveMessage) String() string {
	return fmt.Sprintf("%s %s %s max-age=%s location=%s", Alive, m.query.Target(), m.query.UDN(), m.maxAge, m.Location())
}

// UpdateMessage announces a change in boot or configuration state.
type UpdateMessage struct {
	Announcement
}

func (m *UpdateMessage) Type() NotifyType { return Update }

func (m *UpdateMessage) String() string {
	return fmt.Sprintf("%s %s %s max-age=%s location=%s", Update, m.query.Target(), m.query.UDN(), m.maxAge, m.Location())
}

// ByeByeMessage announces a device or service leaving the network. It has
// no lifetime or location.
type ByeByeMessage struct {
	Notification
}

func (m *ByeByeMessage) Type() NotifyType { return ByeBye }

func (m *ByeByeMessage) String() string {
	return fmt.Sprintf("%s %s %s", ByeBye, m.query.Target(), m.query.UDN())
}
