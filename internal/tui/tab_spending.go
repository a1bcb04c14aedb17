package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
	"github.com/theirongolddev/cplan/internal/tui/components"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

const (
	spendChartDays   = 30
	spendChartHeight = 8
	maxSpendingRows  = 12
)

func (a App) renderSpendingTab(cw int) string {
	t := theme.Active
	now := a.now()
	history := a.st.Card.SpendingHistory

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -(spendChartDays - 1))
	until := today.AddDate(0, 0, 1)

	var chartBody string
	if pipeline.TotalSpend(pipeline.FilterByTime(history, since, until)).IsZero() {
		chartBody = components.SpendChart(nil, 0, 0)
	} else {
		days := pipeline.AggregateDailySpend(history, since, until)
		chartBody = components.SpendChart(days, components.CardInnerWidth(cw), spendChartHeight)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	totalStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	// Newest first; history itself stays in insertion order
	entries := slices.Clone(history)
	slices.SortStableFunc(entries, func(x, y model.SpendingEntry) int {
		return y.Date.Compare(x.Date)
	})

	innerW := components.CardInnerWidth(cw)
	descW := max(innerW-14-12-2, 10)

	var list strings.Builder
	if len(entries) == 0 {
		list.WriteString(mutedStyle.Render("No purchases recorded."))
	} else {
		list.WriteString(headerStyle.Render(fmt.Sprintf("%-14s%-*s%12s", "Date", descW, "Description", "Amount")))
		list.WriteString("\n")
		for i, e := range entries {
			if i == maxSpendingRows {
				list.WriteString(mutedStyle.Render(fmt.Sprintf("... and %d more", len(entries)-maxSpendingRows)))
				list.WriteString("\n")
				break
			}
			desc := e.Description
			if desc == "" {
				desc = "N/A"
			}
			if r := []rune(desc); len(r) > descW-1 {
				desc = string(r[:descW-2]) + "…"
			}
			list.WriteString(rowStyle.Render(fmt.Sprintf("%-14s%-*s%12s",
				cli.FormatDate(e.Date), descW, desc, cli.FormatMoney(e.Amount))))
			list.WriteString("\n")
		}
		list.WriteString("\n")
		list.WriteString(mutedStyle.Render(fmt.Sprintf("%s purchases, total ", cli.FormatCount(len(entries)))))
		list.WriteString(totalStyle.Render(cli.FormatMoney(pipeline.TotalSpend(entries))))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(fmt.Sprintf("Daily Spending (last %d days)", spendChartDays), chartBody, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Purchases", list.String(), cw))
	return b.String()
}
