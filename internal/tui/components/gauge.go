package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

// UtilizationGauge renders a bar for a 0-100 percentage colored by level,
// followed by the rounded percentage and the level label.
func UtilizationGauge(percent float64, level model.UtilizationLevel, barWidth int) string {
	t := theme.Active
	color := t.ForLevel(level)

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if barWidth < 4 {
		barWidth = 4
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return bar.ViewAs(percent/100) + space +
		pctStyle.Render(fmt.Sprintf("%3d%%", int(math.Round(percent)))) + space +
		labelStyle.Render(level.Label())
}

// ThresholdLegend renders the level boundaries under a gauge.
func ThresholdLegend(safe, warning float64) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	swatch := func(l model.UtilizationLevel) string {
		return lipgloss.NewStyle().Foreground(t.ForLevel(l)).Background(t.Surface).Render("■")
	}
	return swatch(model.LevelSafe) + dim.Render(fmt.Sprintf(" <%.0f%%  ", safe*100)) +
		swatch(model.LevelWarning) + dim.Render(fmt.Sprintf(" <%.0f%%  ", warning*100)) +
		swatch(model.LevelDanger) + dim.Render(fmt.Sprintf(" ≥%.0f%%", warning*100))
}
