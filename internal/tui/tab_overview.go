package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/pipeline"
	"github.com/theirongolddev/cplan/internal/session"
	"github.com/theirongolddev/cplan/internal/tui/components"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

// recentDays is the window shown by the overview sparkline.
const recentDays = 14

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	now := a.now()
	card := a.st.Card
	sum := session.Summarize(a.st, a.th)

	var availColor lipgloss.Color
	if sum.Available.IsNegative() {
		availColor = t.Red
	}

	metrics := []components.Metric{
		{Label: "Balance", Value: cli.FormatMoney(card.CurrentBalance), Note: "of " + cli.FormatMoney(card.CreditLimit) + " limit"},
		{Label: "Available Credit", Value: cli.FormatMoney(sum.Available), Color: availColor},
		{Label: "Minimum Payment", Value: cli.FormatMoney(card.MinPaymentDue), Note: "due " + cli.FormatDue(card.PaymentDueDate, now)},
		{Label: "Credit Score", Value: strconv.Itoa(int(a.st.Score)), Note: "estimated", Color: t.ForScore(a.st.Score)},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	var gaugeW, billsW int
	if a.isCompactLayout() {
		gaugeW, billsW = cw, cw
	} else {
		halves := components.LayoutRow(cw, 2)
		gaugeW, billsW = halves[0], halves[1]
	}

	barW := max(components.CardInnerWidth(gaugeW)-16, 10)
	gaugeBody := components.UtilizationGauge(sum.Percent, sum.Level, barW) + "\n\n" +
		components.ThresholdLegend(a.th.Safe, a.th.Warning)
	gaugeCard := components.ContentCard("Credit Utilization", gaugeBody, gaugeW)

	billsCard := components.ContentCard("Upcoming Bills",
		components.BillTimeline(sum.Bills, now, components.CardInnerWidth(billsW)), billsW)

	if a.isCompactLayout() {
		b.WriteString(gaugeCard)
		b.WriteString("\n")
		b.WriteString(billsCard)
	} else {
		b.WriteString(components.CardRow([]string{gaugeCard, billsCard}))
	}
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Recent Spending", a.recentSpendingBody(now), cw))
	return b.String()
}

func (a App) recentSpendingBody(now time.Time) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -(recentDays - 1))
	until := today.AddDate(0, 0, 1)

	total := pipeline.TotalSpend(pipeline.FilterByTime(a.st.Card.SpendingHistory, since, until))
	if total.IsZero() {
		return mutedStyle.Render("No spending in the last " + strconv.Itoa(recentDays) + " days.")
	}

	days := pipeline.AggregateDailySpend(a.st.Card.SpendingHistory, since, until)
	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = d.Total.InexactFloat64()
	}

	return components.Sparkline(values, t.Accent) +
		mutedStyle.Render("  last "+strconv.Itoa(recentDays)+" days  ") +
		valueStyle.Render(cli.FormatMoney(total))
}
