package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cplan/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// the key/connection status on the right.
func RenderStatusBar(width int, keyStatus string, keyOK bool, busy string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [a]sk  [k]ey  [q]uit"

	statusColor := t.Orange
	if keyOK {
		statusColor = t.Green
	}
	right := lipgloss.NewStyle().Foreground(statusColor).Background(t.Surface).Render(keyStatus) +
		lipgloss.NewStyle().Background(t.Surface).Render(" ")
	if busy != "" {
		right = lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(busy+"  ") + right
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", padding))

	return style.Render(left + fill + right)
}
