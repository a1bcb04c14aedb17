// Package tui provides the interactive Bubble Tea dashboard for cplan.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cplan/internal/config"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
	"github.com/theirongolddev/cplan/internal/session"
	"github.com/theirongolddev/cplan/internal/tui/components"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

// GuidanceMsg carries the result of a guidance request.
type GuidanceMsg struct {
	Text string
	Err  error
}

// KeySelectedMsg carries the result of running the key picker.
type KeySelectedMsg struct {
	Err error
}

// Advisor requests guidance for a snapshot. *advisor.Service satisfies it.
type Advisor interface {
	RequestGuidance(ctx context.Context, req model.GuidanceRequest) (string, error)
}

// Options configures the dashboard.
type Options struct {
	State      session.State
	Thresholds pipeline.Thresholds
	Advisor    Advisor
	Selector   session.KeySelector // nil assumes a key is available
	Keys       *session.ChosenKey  // key picked this run, shown in settings
	Now        func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	st       session.State
	th       pipeline.Thresholds
	advisor  Advisor
	selector session.KeySelector
	keys     *session.ChosenKey
	now      func() time.Time

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	sim      simState
	settings settingsState

	spinner spinner.Model
}

const (
	tabOverview = iota
	tabSimulator
	tabGuidance
	tabSpending
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5
)

// loadConfigOrDefault loads config, returning defaults on error.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates the dashboard model and checks for a selected key.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	st := session.CheckCredential(context.Background(), opts.State, opts.Selector)

	return App{
		st:       st,
		th:       opts.Thresholds.Normalize(),
		advisor:  opts.Advisor,
		selector: opts.Selector,
		keys:     opts.Keys,
		now:      opts.Now,
		sim:      newSimState(),
		spinner:  sp,
	}
}

// State returns the current session state.
func (a App) State() session.State { return a.st }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		if a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case GuidanceMsg:
		a.st = session.FinishGuidance(a.st, msg.Text, msg.Err)
		return a, nil

	case KeySelectedMsg:
		a.st = session.FinishSelection(a.st, msg.Err)
		return a, nil

	case spinner.TickMsg:
		if a.st.Loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward everything else (cursor blinks etc.) to whatever has focus
	if a.sim.editing {
		var cmd tea.Cmd
		a.sim.input, cmd = a.sim.input.Update(msg)
		return a, cmd
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Text inputs intercept all keys while editing
	if a.activeTab == tabSimulator && a.sim.editing {
		return a.updateSimInput(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// Tab-local bindings take precedence over global ones
	switch a.activeTab {
	case tabSimulator:
		if m, cmd, ok := a.simulatorKey(key); ok {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, ok := a.settingsKey(key); ok {
			return m, cmd
		}
	case tabGuidance:
		if key == "enter" {
			return a.askGuidance()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "a":
		return a.askGuidance()
	case "k":
		return a, selectKeyCmd(a.selector)
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

// askGuidance starts a request unless one is in flight or no key is selected.
func (a App) askGuidance() (tea.Model, tea.Cmd) {
	a.activeTab = tabGuidance
	if a.advisor == nil {
		return a, nil
	}
	st, ok := session.BeginGuidance(a.st)
	a.st = st
	if !ok {
		return a, nil
	}
	return a, tea.Batch(a.spinner.Tick, requestGuidanceCmd(a.advisor, session.GuidanceRequest(a.st)))
}

// requestGuidanceCmd runs one guidance request off the UI goroutine.
func requestGuidanceCmd(adv Advisor, req model.GuidanceRequest) tea.Cmd {
	return func() tea.Msg {
		text, err := adv.RequestGuidance(context.Background(), req)
		return GuidanceMsg{Text: text, Err: err}
	}
}

// keyPicker runs a selector's picker while the dashboard is suspended and
// the picker owns the terminal.
type keyPicker struct {
	sel session.KeySelector
}

func (p keyPicker) Run() error { return session.Resolve(p.sel).OpenSelectKey(context.Background()) }

func (keyPicker) SetStdin(io.Reader)  {}
func (keyPicker) SetStdout(io.Writer) {}
func (keyPicker) SetStderr(io.Writer) {}

func keySelected(err error) tea.Msg { return KeySelectedMsg{Err: err} }

// selectKeyCmd hands the terminal to the selector's picker.
func selectKeyCmd(sel session.KeySelector) tea.Cmd {
	return tea.Exec(keyPicker{sel: sel}, keySelected)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cplan needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o s g p x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move in settings"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"a", "Ask for guidance (Pay same day?)"},
			{"k", "Select Gemini API key"},
			{"e / Enter", "Edit amount or setting"},
			{"t / Tab", "Switch payment / spending"},
			{"Esc", "Cancel editing"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + card pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	pill := pillStyle.Render(" ") + pillAccent.Render(a.st.Card.Name) +
		pillStyle.Render(" │ score ") +
		lipgloss.NewStyle().Foreground(t.ForScore(a.st.Score)).Background(t.Surface).Bold(true).
			Render(fmt.Sprintf("%d", a.st.Score))
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)

	// 2. Status bar
	keyStatus := "key: not selected"
	if a.st.CredentialSelected {
		keyStatus = "key: selected"
	}
	busy := ""
	if a.st.Loading {
		busy = a.spinner.View() + " asking Gemini..."
	}
	statusBar := components.RenderStatusBar(w, keyStatus, a.st.CredentialSelected, busy)

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabSimulator:
		content = a.renderSimulatorTab(cw)
	case tabGuidance:
		content = a.renderGuidanceTab(cw)
	case tabSpending:
		content = a.renderSpendingTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same widths as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // one-column separator
	}
	return -1
}
