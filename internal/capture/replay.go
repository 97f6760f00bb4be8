package capture

import (
	"errors"
	"io"

	"github.com/muurk/ssdpmon/internal/logging"
	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/ssdp"
)

// Stats summarises a replay.
type Stats struct {
	Records  int
	Parsed   int
	Searches int
	Dropped  int
	// Rejected counts dropped records by the header that failed
	// validation; framing errors are counted under "".
	Rejected map[string]int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Records += o.Records
	s.Parsed += o.Parsed
	s.Searches += o.Searches
	s.Dropped += o.Dropped
	for h, n := range o.Rejected {
		s.reject(h, n)
	}
}

func (s *Stats) reject(header string, n int) {
	if s.Rejected == nil {
		s.Rejected = make(map[string]int)
	}
	s.Rejected[header] += n
}

// Replay runs every record from r through the parser and routes it the way
// the listener does: valid M-SEARCH requests are counted as searches, valid
// notifications are handed to handler, everything else is logged and counted
// as dropped. Replay stops at the end of the sequence or at the first
// decoding error.
func Replay(r *Reader, handler func(Record, notify.Message)) (Stats, error) {
	var stats Stats
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		stats.Records++

		msg, err := replayOne(rec)
		if err != nil {
			stats.Dropped++
			stats.reject(ssdp.HeaderOf(err), 1)
			logging.LogDropped(rec.Source, rec.Payload, err)
			continue
		}
		if msg == nil {
			stats.Searches++
			continue
		}
		stats.Parsed++
		handler(rec, msg)
	}
}

// replayOne returns a nil message for a valid search request.
func replayOne(rec Record) (notify.Message, error) {
	req, err := ssdp.ParseRequest(rec.Payload)
	if err != nil {
		return nil, err
	}
	if req.Method == ssdp.MethodSearch {
		_, err := ssdp.ParseSearchRequest(req)
		return nil, err
	}
	return notify.ParseRequest(req)
}
