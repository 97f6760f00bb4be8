package server

import (
	"time"

	"github.com/muurk/ssdpmon/internal/tracker"
)

// Event is the JSON document pushed to feed clients for every change to the
// announcement table.
type Event struct {
	Change string        `json:"change"`
	Time   time.Time     `json:"time"`
	Entry  tracker.Entry `json:"entry"`
}

// NewEvent wraps a tracker change for the feed.
func NewEvent(c tracker.Change) Event {
	return Event{
		Change: c.Kind.String(),
		Time:   time.Now().UTC(),
		Entry:  c.Entry,
	}
}
