package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/ssdpmon/internal/logging"
	"github.com/muurk/ssdpmon/internal/notify"
)

// ChangeKind describes what Apply did to the table.
type ChangeKind int

const (
	Added ChangeKind = iota
	Refreshed
	Removed
	Expired
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Refreshed:
		return "refreshed"
	case Removed:
		return "removed"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Entry is one live announcement, keyed by USN. URN is set for device and
// service targets; Unregistered marks device types missing from the forum
// registry.
type Entry struct {
	USN          string    `json:"usn"`
	UDN          string    `json:"udn"`
	UUID         uuid.UUID `json:"uuid"`
	Target       string    `json:"target"`
	URN          string    `json:"urn,omitempty"`
	Unregistered bool      `json:"unregistered,omitempty"`
	Location     string    `json:"location,omitempty"`
	Server       string    `json:"server,omitempty"`
	UPnP         string    `json:"upnp,omitempty"`
	BootID       uint32    `json:"boot_id,omitempty"`
	ConfigID     uint32    `json:"config_id,omitempty"`
	FirstSeen    time.Time `json:"first_seen"`
	LastSeen     time.Time `json:"last_seen"`
	ExpiresAt    time.Time `json:"expires_at"`
	Seen         int       `json:"seen"`
}

// Expired reports whether the entry's lifetime has passed at now.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Change is the result of applying a notification or sweeping.
type Change struct {
	Kind  ChangeKind
	Entry Entry
}

// announcement is the part of Alive and Update messages the tracker reads.
type announcement interface {
	notify.Message
	Server() string
	VersionInfo() notify.VersionInfo
	ExpiresAt() time.Time
}

// Tracker keeps the set of currently announced devices and services in
// memory. It is safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{entries: make(map[string]*Entry)}
}

// Apply folds msg into the table. Alive and update notifications insert or
// refresh the entry for their USN; byebye removes it. ok is false when msg
// changed nothing, which happens for a byebye of an unknown USN.
func (t *Tracker) Apply(msg notify.Message) (change Change, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	usn := msg.USN()

	if msg.Type() == notify.ByeBye {
		e, found := t.entries[usn]
		if !found {
			return Change{}, false
		}
		delete(t.entries, usn)
		logging.Debug("Tracker entry removed", zap.String("usn", usn))
		return Change{Kind: Removed, Entry: *e}, true
	}

	a, isAnnouncement := msg.(announcement)
	if !isAnnouncement {
		return Change{}, false
	}

	e, found := t.entries[usn]
	kind := Refreshed
	if !found {
		q := msg.Query()
		e = &Entry{
			USN:       usn,
			UDN:       q.UDN(),
			Target:    q.Target().String(),
			FirstSeen: msg.Created(),
		}
		e.URN, _ = q.Target().URN()
		if d, ok := q.Device(); ok {
			e.Unregistered = !d.Type().Implemented()
		}
		if id, err := q.ParsedUUID(); err == nil {
			e.UUID = id
		}
		t.entries[usn] = e
		kind = Added
	}

	info := a.VersionInfo()
	if loc := msg.Query().Location(); loc != nil {
		e.Location = loc.String()
	}
	e.Server = a.Server()
	e.UPnP = info.Version.String()
	e.BootID = info.BootID
	e.ConfigID = info.ConfigID
	e.LastSeen = msg.Created()
	e.ExpiresAt = a.ExpiresAt()
	e.Seen++

	return Change{Kind: kind, Entry: *e}, true
}

// Sweep drops every entry that has expired at now and returns them.
func (t *Tracker) Sweep(now time.Time) []Change {
	t.mu.Lock()
	defer t.mu.Unlock()

	var changes []Change
	for usn, e := range t.entries {
		if e.Expired(now) {
			delete(t.entries, usn)
			changes = append(changes, Change{Kind: Expired, Entry: *e})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Entry.USN < changes[j].Entry.USN })
	return changes
}

// Snapshot returns a copy of the table ordered by UDN, then USN.
func (t *Tracker) Snapshot() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UDN != out[j].UDN {
			return out[i].UDN < out[j].UDN
		}
		return out[i].USN < out[j].USN
	})
	return out
}

// Devices returns the number of distinct devices in the table. Devices are
// told apart by UUID, or by UDN when the id is not an RFC 4122 UUID.
func (t *Tracker) Devices() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{})
	other := make(map[string]struct{})
	for _, e := range t.entries {
		if e.UUID == uuid.Nil {
			other[e.UDN] = struct{}{}
			continue
		}
		seen[e.UUID] = struct{}{}
	}
	return len(seen) + len(other)
}

// Len returns the number of live entries.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Clear empties the table.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]*Entry)
}
