package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/session"
	"github.com/theirongolddev/cplan/internal/tui"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// stderr would corrupt the alt screen; log only to a configured file
	rt, err := loadRuntime(io.Discard)
	if err != nil {
		return err
	}
	defer func() { _ = rt.closeLog() }()

	theme.SetActive(rt.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		State:      rt.state,
		Thresholds: rt.thresholds,
		Advisor:    rt.advisor(),
		Selector:   rt.interactiveSelector(promptKey),
		Keys:       rt.chosen,
	})
	rt.log.Info("tui started", "card_id", rt.state.Card.ID)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// promptKey asks for a key with the huh key form. The dashboard is suspended
// while it runs.
func promptKey(ctx context.Context) (string, error) {
	var vals tui.SetupValues
	if err := tui.NewKeyForm(&vals).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", session.ErrSelectionCancelled
		}
		return "", err
	}
	return vals.APIKey, nil
}
