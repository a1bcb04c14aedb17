package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
	"github.com/theirongolddev/cplan/internal/session"
	"github.com/theirongolddev/cplan/internal/tui/components"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

// simState tracks the score simulator tab.
type simState struct {
	action  model.ScoreAction
	input   textinput.Model
	editing bool
	amount  decimal.Decimal // last simulated amount
	err     string
}

func newSimState() simState {
	ti := textinput.New()
	ti.Prompt = "$ "
	ti.Placeholder = "100.00"
	ti.CharLimit = 12
	ti.Width = 14
	return simState{action: model.ActionPayment, input: ti}
}

func toggleAction(a model.ScoreAction) model.ScoreAction {
	if a == model.ActionPayment {
		return model.ActionSpending
	}
	return model.ActionPayment
}

// parseAmount accepts "100", "100.50", "$1,250.00".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, errors.New("enter an amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("amount must not be negative")
	}
	return d, nil
}

// simulatorKey handles simulator bindings outside of editing.
func (a App) simulatorKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "enter", "e":
		a.sim.editing = true
		a.sim.err = ""
		cmd := a.sim.input.Focus()
		return a, cmd, true
	case "t", "tab":
		a.sim.action = toggleAction(a.sim.action)
		return a, nil, true
	}
	return a, nil, false
}

func (a App) updateSimInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return a.runSimulation(), nil
	case "tab":
		a.sim.action = toggleAction(a.sim.action)
		return a, nil
	case "esc":
		a.sim.editing = false
		a.sim.input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.sim.input, cmd = a.sim.input.Update(msg)
	return a, cmd
}

func (a App) runSimulation() App {
	amount, err := parseAmount(a.sim.input.Value())
	if err != nil {
		a.sim.err = err.Error()
		return a
	}
	a.sim.err = ""
	a.sim.amount = amount
	a.sim.editing = false
	a.sim.input.Blur()
	a.st = session.Simulate(a.st, a.sim.action, amount)
	return a
}

func (a App) renderSimulatorTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	activeStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Accent).Bold(true).Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.SurfaceHover).Padding(0, 1)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	actionToggle := func(act model.ScoreAction, label string) string {
		if a.sim.action == act {
			return activeStyle.Render(label)
		}
		return inactiveStyle.Render(label)
	}

	var form strings.Builder
	form.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", "Current score")))
	form.WriteString(lipgloss.NewStyle().Foreground(t.ForScore(a.st.Score)).Background(t.Surface).Bold(true).
		Render(fmt.Sprintf("%d", a.st.Score)))
	form.WriteString("\n\n")
	form.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", "Action")))
	form.WriteString(actionToggle(model.ActionPayment, "Payment") + space + actionToggle(model.ActionSpending, "Spending"))
	form.WriteString("\n\n")
	form.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", "Amount")))
	if a.sim.editing {
		form.WriteString(a.sim.input.View())
	} else if v := a.sim.input.Value(); v != "" {
		form.WriteString(valueStyle.Render("$ " + v))
	} else {
		form.WriteString(dimStyle.Render("(press Enter to type an amount)"))
	}
	if a.sim.err != "" {
		form.WriteString("\n")
		form.WriteString(errStyle.Render(a.sim.err))
	}
	form.WriteString("\n\n")
	form.WriteString(dimStyle.Render("[e/Enter] amount  [t/Tab] payment/spending  [Esc] cancel"))

	var result strings.Builder
	if a.st.Simulated == nil {
		result.WriteString(dimStyle.Render("Run a simulation to see how a payment or purchase\nwould move your estimated score."))
	} else {
		sim := *a.st.Simulated
		delta := int(sim) - int(a.st.Score)
		deltaColor := t.TextMuted
		switch {
		case delta > 0:
			deltaColor = t.Green
		case delta < 0:
			deltaColor = t.Red
		}
		result.WriteString(labelStyle.Render("Simulated score  "))
		result.WriteString(lipgloss.NewStyle().Foreground(t.ForScore(sim)).Background(t.Surface).Bold(true).
			Render(fmt.Sprintf("%d", sim)))
		result.WriteString(space)
		result.WriteString(lipgloss.NewStyle().Foreground(deltaColor).Background(t.Surface).
			Render("(" + cli.FormatScoreDelta(delta) + ")"))
		result.WriteString("\n")
		result.WriteString(labelStyle.Render(fmt.Sprintf("after a %s of %s", a.sim.action, cli.FormatMoney(a.sim.amount))))
		if sim == model.MaxCreditScore || sim == model.MinCreditScore {
			result.WriteString("\n")
			result.WriteString(dimStyle.Render(fmt.Sprintf("Scores are bounded to %d-%d.", model.MinCreditScore, model.MaxCreditScore)))
		}
	}
	result.WriteString("\n\n")
	result.WriteString(dimStyle.Render(fmt.Sprintf("+1 point per $%d paid, -1 point per $%d spent.\nSimulations never change your current score.",
		pipeline.PaymentStep, pipeline.SpendingStep)))

	var b strings.Builder
	if a.isCompactLayout() {
		b.WriteString(components.FocusCard("Score Simulator", form.String(), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Result", result.String(), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.FocusCard("Score Simulator", form.String(), halves[0]),
			components.ContentCard("Result", result.String(), halves[1]),
		}))
	}
	return b.String()
}
