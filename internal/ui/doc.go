// Package ui provides terminal output for the ssdpmon CLI.
//
// There are two modes. The line printer used by `ssdpmon listen` and
// `ssdpmon replay` writes one line per notification and colours it only
// when stdout is a terminal. The `ssdpmon watch` dashboard is a Bubble Tea
// program built around a table of live announcements.
//
// # Dashboard
//
// WatchModel owns a tracker.Tracker. Notifications arrive as NotificationMsg
// values sent from the listener goroutine with tea.Program.Send; a one second
// tick sweeps expired entries. Byebyes, expiries and observed searches are
// kept in a short event log under the table.
//
// Keys:
//   - ↑/↓ or k/j: move the selection
//   - c: clear the table
//   - l: toggle the event log
//   - ?: show all keys
//   - q: quit
//
// # Logging Integration
//
// The dashboard owns the terminal, so zap output should be sent to stderr
// or a file (see logging.InitializeWithOutput) while it runs.
package ui
