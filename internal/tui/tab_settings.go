package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cplan/internal/config"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/tui/components"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

const (
	settingsFieldAPIKey = iota
	settingsFieldModel
	settingsFieldTheme
	settingsFieldScore
	settingsFieldSafe
	settingsFieldWarning
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message
	saveErr error // non-nil if last save or validation failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

// settingsKey handles navigation outside of editing.
func (a App) settingsKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return a, nil, true
	case "enter", "e":
		if a.settings.cursor == settingsFieldAPIKey {
			a.settings.saved = false
			a.settings.saveErr = nil
			return a, selectKeyCmd(a.selector), true
		}
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldModel:
		ti.Placeholder = "gemini-2.5-flash"
		ti.SetValue(cfg.Gemini.Model)
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldScore:
		ti.Placeholder = fmt.Sprintf("%d-%d", model.MinCreditScore, model.MaxCreditScore)
		ti.SetValue(strconv.Itoa(int(cfg.General.Score())))
	case settingsFieldSafe:
		ti.Placeholder = "30 (percent)"
		ti.SetValue(percentValue(a.th.Safe))
	case settingsFieldWarning:
		ti.Placeholder = "60 (percent)"
		ti.SetValue(percentValue(a.th.Warning))
	}

	cmd := ti.Focus()
	a.settings.input = ti
	return a, cmd
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// percentValue renders a ratio as an editable percentage without float noise.
func percentValue(ratio float64) string {
	return strconv.FormatFloat(math.Round(ratio*10000)/100, 'f', -1, 64)
}

func parsePercent(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v / 100, nil
}

func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldModel:
		if val == "" {
			a.settings.saveErr = errors.New("model name is required")
			return
		}
		cfg.Gemini.Model = val
	case settingsFieldTheme:
		if !theme.Valid(val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldScore:
		n, err := strconv.Atoi(val)
		if err != nil || n < int(model.MinCreditScore) || n > int(model.MaxCreditScore) {
			a.settings.saveErr = fmt.Errorf("score must be between %d and %d", model.MinCreditScore, model.MaxCreditScore)
			return
		}
		cfg.General.InitialScore = n
	case settingsFieldSafe, settingsFieldWarning:
		v, err := parsePercent(val)
		if err != nil {
			a.settings.saveErr = err
			return
		}
		next := a.th
		if a.settings.cursor == settingsFieldSafe {
			next.Safe = v
		} else {
			next.Warning = v
		}
		if next.Normalize() != next {
			a.settings.saveErr = errors.New("thresholds must satisfy 0 < safe <= warning <= 100")
			return
		}
		a.th = next
		cfg.Thresholds = config.ThresholdsConfig{Safe: next.Safe, Warning: next.Warning}
	}

	a.settings.saveErr = config.Save(cfg)
}

// currentKey returns the key guidance requests will use and where it came
// from. A key picked this run wins over env and config.
func (a App) currentKey(cfg config.Config) (key, source string) {
	if k := a.keys.Get(); k != "" {
		return k, "selected this session"
	}
	return config.GetAPIKey(cfg), config.APIKeySource(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	keyDisplay := "(not set)"
	if key, src := a.currentKey(cfg); key != "" {
		keyDisplay = config.MaskKey(key)
		if src != "config" {
			keyDisplay += "  (" + src + ")"
		}
	}

	fields := []struct{ label, value string }{
		{"Gemini API Key", keyDisplay},
		{"Model", cfg.Gemini.Model},
		{"Theme", cfg.Appearance.Theme},
		{"Initial Score", strconv.Itoa(int(cfg.General.Score()))},
		{"Safe Below", fmt.Sprintf("%.0f%%", a.th.Safe*100)},
		{"Danger From", fmt.Sprintf("%.0f%%", a.th.Warning*100)},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := innerW - used; pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.ConfigPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Card:         ") + valueStyle.Render(a.st.Card.Name) + "\n")
	infoBody.WriteString(labelStyle.Render("Model and initial score apply the next time cplan starts."))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
