package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/ssdp"
	"github.com/muurk/ssdpmon/internal/tracker"
	"github.com/muurk/ssdpmon/internal/version"
)

const (
	sweepInterval = time.Second
	maxLogLines   = 8
)

// NotificationMsg carries a parsed notification from the listener into the
// Bubble Tea program.
type NotificationMsg struct {
	Source  string
	Message notify.Message
}

// SearchMsg carries an observed M-SEARCH.
type SearchMsg struct {
	Source  string
	Request *ssdp.SearchRequest
}

type sweepMsg time.Time

// watchKeyMap defines key bindings for the dashboard
type watchKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Clear     key.Binding
	ToggleLog key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Clear, k.ToggleLog, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Clear, k.ToggleLog},
		{k.Help, k.Quit},
	}
}

func newWatchKeyMap() watchKeyMap {
	return watchKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear table"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "toggle event log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// WatchModel is the live dashboard: a table of current announcements with
// an optional log of byebyes, expiries and searches underneath.
type WatchModel struct {
	tracker *tracker.Tracker
	header  *Header

	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    watchKeyMap

	log      []string
	showLog  bool
	received int
	width    int
	height   int
}

// NewWatchModel builds the dashboard over t. params are shown in the header.
func NewWatchModel(t *tracker.Tracker, params ...Param) WatchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	width, height := GetTerminalSize()

	tbl := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MutedColor).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(TextColor).
		Background(PrimaryColor)
	tbl.SetStyles(styles)

	return WatchModel{
		tracker: t,
		header:  NewHeader("SSDP Watch", version.Product(), params...).SetWidth(width),
		table:   tbl,
		spinner: s,
		help:    help.New(),
		keys:    newWatchKeyMap(),
		showLog: true,
		width:   width,
		height:  height,
	}
}

// columns splits the width between the table columns. UDN and location get
// whatever is left after the fixed-size ones.
func columns(width int) []table.Column {
	fixed := 9 + 9 + 8 // upnp, expires, seen
	flex := width - fixed - 12
	if flex < 30 {
		flex = 30
	}
	return []table.Column{
		{Title: "Target", Width: flex * 3 / 10},
		{Title: "UDN", Width: flex * 4 / 10},
		{Title: "Location", Width: flex * 3 / 10},
		{Title: "UPnP", Width: 9},
		{Title: "Expires", Width: 9},
		{Title: "Seen", Width: 8},
	}
}

func tableHeight(height int) int {
	h := height - 8 - maxLogLines - 2
	if h < 5 {
		h = 5
	}
	return h
}

func sweepTick() tea.Cmd {
	return tea.Tick(sweepInterval, func(t time.Time) tea.Msg { return sweepMsg(t) })
}

// Init implements tea.Model
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, sweepTick())
}

// Update implements tea.Model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.tracker.Clear()
			m.log = nil
			m.refresh(time.Now())
			return m, nil
		case key.Matches(msg, m.keys.ToggleLog):
			m.showLog = !m.showLog
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = clampWidth(msg.Width)
		m.height = msg.Height
		m.header.SetWidth(m.width)
		m.help.Width = m.width
		m.table.SetColumns(columns(m.width))
		m.table.SetHeight(tableHeight(m.height))
		return m, nil

	case NotificationMsg:
		m.received++
		change, ok := m.tracker.Apply(msg.Message)
		if ok && change.Kind == tracker.Removed {
			m.appendLog(ByeByeStyle, "byebye  %s from %s", change.Entry.USN, msg.Source)
		}
		if ok && change.Kind == tracker.Added {
			m.appendLog(StyleFor(msg.Message.Type()), "%-7s %s", "new", change.Entry.USN)
		}
		m.refresh(time.Now())
		return m, nil

	case SearchMsg:
		m.appendLog(SearchStyle, "search  %s from %s", msg.Request.ST, msg.Source)
		return m, nil

	case sweepMsg:
		now := time.Time(msg)
		for _, change := range m.tracker.Sweep(now) {
			m.appendLog(ExpiredStyle, "expired %s", change.Entry.USN)
		}
		m.refresh(now)
		return m, sweepTick()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *WatchModel) appendLog(style lipgloss.Style, format string, args ...any) {
	line := time.Now().Format("15:04:05") + " " + fmt.Sprintf(format, args...)
	m.log = append(m.log, style.Render(line))
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// refresh rebuilds the table rows from the tracker.
func (m *WatchModel) refresh(now time.Time) {
	entries := m.tracker.Snapshot()
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			e.Target,
			e.UDN,
			e.Location,
			e.UPnP,
			formatRemaining(e.ExpiresAt.Sub(now)),
			fmt.Sprintf("%d", e.Seen),
		}
	}
	m.table.SetRows(rows)
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	return d.Round(time.Second).String()
}

// View implements tea.Model
func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(m.header.Render())
	b.WriteString("\n")

	if m.tracker.Len() == 0 {
		b.WriteString(WaitingStyle.Render(m.spinner.View() + " Waiting for announcements..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	b.WriteString(StatusStyle.Render(fmt.Sprintf("%d entries from %d devices, %d notifications received",
		m.tracker.Len(), m.tracker.Devices(), m.received)))
	b.WriteString("\n")

	if m.showLog && len(m.log) > 0 {
		b.WriteString(LogBoxStyle(m.width).Render(strings.Join(m.log, "\n")))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}
