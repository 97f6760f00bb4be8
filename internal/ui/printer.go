package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/ssdp"
)

// Printer writes one line per notification for the non-interactive
// commands. Colour is used only when the output is a terminal.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	color := false
	if w == nil {
		w = os.Stdout
		color = IsTerminal()
	}
	return &Printer{out: w, color: color}
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Notification prints msg as a single line.
func (p *Printer) Notification(source string, msg notify.Message) {
	p.Println(p.style(msg.Type()).Render(FormatNotification(source, msg)))
}

// Search prints an observed M-SEARCH.
func (p *Printer) Search(source string, req *ssdp.SearchRequest) {
	line := fmt.Sprintf("%s  %-12s %-21s ST=%s MX=%d",
		time.Now().Format("15:04:05"), "m-search", source, req.ST, req.MX)
	if p.color {
		line = SearchStyle.Render(line)
	}
	p.Println(line)
}

func (p *Printer) style(t notify.NotifyType) lipgloss.Style {
	if !p.color {
		return lipgloss.NewStyle()
	}
	return StyleFor(t)
}

// StyleFor returns the log style for a notification type.
func StyleFor(t notify.NotifyType) lipgloss.Style {
	switch t {
	case notify.Alive:
		return AliveStyle
	case notify.Update:
		return UpdateStyle
	default:
		return ByeByeStyle
	}
}

// FormatNotification renders msg as "time nts source target udn [location]".
// Device types missing from the forum registry are flagged.
func FormatNotification(source string, msg notify.Message) string {
	q := msg.Query()
	line := fmt.Sprintf("%s  %-12s %-21s %-40s %s",
		msg.Created().Format("15:04:05"), msg.Type(), source, q.Target(), q.UDN())
	if loc := q.Location(); loc != nil {
		line += "  " + loc.String()
	}
	if d, ok := q.Device(); ok && !d.Type().Implemented() {
		line += "  [unregistered type]"
	}
	return line
}
