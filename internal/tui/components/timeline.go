package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

// NoBillsText is shown when there is nothing due.
const NoBillsText = "No upcoming bills for this period."

// BillTimeline renders bills in the given order, one per line, with the
// amount right-aligned and a relative due date.
func BillTimeline(bills []model.Bill, now time.Time, width int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if len(bills) == 0 {
		return dim.Render(NoBillsText)
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	bg := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(bills))
	for _, b := range bills {
		marker, markerColor := "○", t.Accent
		dueColor := t.TextMuted
		if b.IsPaid {
			marker, markerColor = "●", t.Green
		} else if billOverdue(b, now) {
			markerColor, dueColor = t.Red, t.Red
		}

		left := lipgloss.NewStyle().Foreground(markerColor).Background(t.Surface).Render(marker) +
			bg.Render(" ") + nameStyle.Render(b.Name)
		right := lipgloss.NewStyle().Foreground(dueColor).Background(t.Surface).
			Render(fmt.Sprintf("%s (%s)  ", cli.FormatDate(b.DueDate), cli.FormatDue(b.DueDate, now))) +
			amountStyle.Render(cli.FormatMoney(b.Amount))

		gap := width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 1 {
			gap = 1
		}
		lines = append(lines, left+bg.Render(strings.Repeat(" ", gap))+right)
	}
	return strings.Join(lines, "\n")
}

// billOverdue reports whether an unpaid bill's due day has passed. A bill due
// today is not overdue at any hour of that day.
func billOverdue(b model.Bill, now time.Time) bool {
	return !b.IsPaid && cli.DaysUntil(b.DueDate, now) < 0
}
