package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Summary is a boxed block of labelled values printed when a command
// finishes, such as the counters at the end of a replay.
type Summary struct {
	Title   string
	Details []Param
	Width   int
}

// NewSummary creates a summary box sized to the terminal.
func NewSummary(title string, details ...Param) *Summary {
	return &Summary{Title: title, Details: details, Width: GetTerminalWidth()}
}

// Render returns the styled summary box
func (s *Summary) Render() string {
	width := clampWidth(s.Width)

	lines := []string{SuccessTitleStyle.Render(s.Title)}
	if len(s.Details) > 0 {
		lines = append(lines, "")
	}
	for _, d := range s.Details {
		lines = append(lines, SummaryKeyStyle.Render(d.Key+":")+SummaryValueStyle.Render(d.Value))
	}

	return SuccessBoxStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n")))
}

// String implements fmt.Stringer
func (s *Summary) String() string {
	return s.Render()
}
