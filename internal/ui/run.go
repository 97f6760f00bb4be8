package ui

import (
	"fmt"
	"net"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ssdpmon/internal/discovery"
	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/ssdp"
	"github.com/muurk/ssdpmon/internal/tracker"
)

// RunWatch starts a listener with opts and runs the dashboard until the user
// quits. Any OnSearch callback in opts is replaced.
func RunWatch(opts discovery.Options, params ...Param) error {
	model := NewWatchModel(tracker.New(), params...)
	p := tea.NewProgram(model, tea.WithAltScreen())

	opts.OnSearch = func(req *ssdp.SearchRequest, from net.Addr) {
		p.Send(SearchMsg{Source: addrString(from), Request: req})
	}

	// OnDatagram and the handler both run on the listener's worker, so
	// lastSource needs no locking.
	var lastSource string
	datagramHook := opts.OnDatagram
	opts.OnDatagram = func(d discovery.Datagram) {
		lastSource = addrString(d.Source)
		if datagramHook != nil {
			datagramHook(d)
		}
	}

	l, err := discovery.New(func(msg notify.Message) {
		p.Send(NotificationMsg{Source: lastSource, Message: msg})
	}, opts)
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}
	defer l.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
