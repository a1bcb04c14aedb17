package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cplan/internal/advisor"
	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/session"
	"github.com/theirongolddev/cplan/internal/tui/components"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

func (a App) renderGuidanceTab(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	questionStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(innerW)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Width(innerW)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)

	var body strings.Builder
	body.WriteString(mutedStyle.Render("Question  "))
	body.WriteString(questionStyle.Render(fmt.Sprintf("%q", advisor.Question)))
	body.WriteString("\n\n")

	switch {
	case a.st.Loading:
		body.WriteString(a.spinner.View())
		body.WriteString(mutedStyle.Render(" Getting guidance..."))
	case a.st.Error != "":
		body.WriteString(errStyle.Render(a.st.Error))
		if !a.st.CredentialSelected {
			body.WriteString("\n\n")
			body.WriteString(mutedStyle.Render("Press ") + keyStyle.Render("k") + mutedStyle.Render(" to select your API key."))
		}
	case a.st.Guidance != "":
		body.WriteString(bodyStyle.Render(a.st.Guidance))
	case !a.st.CredentialSelected:
		body.WriteString(mutedStyle.Render(session.MsgSelectKeyFirst))
		body.WriteString("\n\n")
		body.WriteString(mutedStyle.Render("Press ") + keyStyle.Render("k") + mutedStyle.Render(" to select your API key."))
	default:
		body.WriteString(mutedStyle.Render("Press ") + keyStyle.Render("a") + mutedStyle.Render(" or ") +
			keyStyle.Render("Enter") + mutedStyle.Render(" to ask."))
	}

	// What the model will see
	req := session.GuidanceRequest(a.st)
	sum := session.Summarize(a.st, a.th)
	fields := []struct{ label, value string }{
		{"Limit", cli.FormatMoney(req.CreditLimit)},
		{"Balance", cli.FormatMoney(req.CurrentBalance)},
		{"Utilization", cli.FormatPercent(sum.Utilization) + " (" + sum.Level.Label() + ")"},
		{"Minimum due", cli.FormatMoney(req.MinPaymentDue) + " on " + req.PaymentDueDate},
		{"Score", fmt.Sprintf("%d", req.CreditScore)},
		{"Purchases", cli.FormatCount(len(req.RecentSpending))},
	}
	var snap strings.Builder
	for i, f := range fields {
		snap.WriteString(mutedStyle.Render(fmt.Sprintf("%-13s", f.label)))
		snap.WriteString(dimStyle.Render(f.value))
		if i < len(fields)-1 {
			snap.WriteString("\n")
		}
	}

	var b strings.Builder
	b.WriteString(components.FocusCard("Guidance", body.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Shared with Gemini", snap.String(), cw))
	return b.String()
}
