package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// SpendChart renders daily spending as vertical bars with a dollar y-axis
// and first/last date labels. When there are more days than fit, the most
// recent ones are kept.
func SpendChart(days []model.DailySpend, width, height int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if len(days) == 0 {
		return dim.Render("No spending recorded.")
	}
	if height < 3 {
		height = 3
	}

	values := make([]float64, len(days))
	peak := 0.0
	for i, d := range days {
		values[i] = d.Total.InexactFloat64()
		peak = math.Max(peak, values[i])
	}
	ceiling := niceCeiling(peak)

	top := moneyLabel(ceiling)
	axisW := max(len(top), 2) + 1
	chartW := max(width-axisW-1, 3)

	barW := 1
	if n := len(values); n > 0 {
		barW = max(1, min(3, (chartW+1)/n-1))
	}
	fit := max(1, (chartW+1)/(barW+1))
	if len(values) > fit {
		values = values[len(values)-fit:]
		days = days[len(days)-fit:]
	}

	bar := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	peakBar := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	bg := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(height)
		rowBottom := ceiling * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = top
		}
		b.WriteString(dim.Render(fmt.Sprintf("%*s", axisW, label) + "│"))

		for i, v := range values {
			if i > 0 {
				b.WriteString(bg.Render(" "))
			}
			style := bar
			if v == peak && v > 0 {
				style = peakBar
			}
			switch {
			case v >= rowTop:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * float64(len(blocks)))
				idx = max(0, min(idx, len(blocks)-1))
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(bg.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := len(values)*(barW+1) - 1
	b.WriteString(dim.Render(fmt.Sprintf("%*s", axisW, "$0") + "└" + strings.Repeat("─", axisLen)))
	b.WriteString("\n")

	first := days[0].Date.Format("Jan 2")
	last := days[len(days)-1].Date.Format("Jan 2")
	labels := first
	if len(days) > 1 {
		gap := axisLen - len(first) - len(last)
		if gap >= 1 {
			labels = first + strings.Repeat(" ", gap) + last
		}
	}
	b.WriteString(dim.Render(strings.Repeat(" ", axisW+1) + labels))
	return b.String()
}

// niceCeiling rounds v up to 1, 2, or 5 times a power of ten.
func niceCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	base := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*base {
			return m * base
		}
	}
	return 10 * base
}

func moneyLabel(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("$%.1fk", v/1000)
	}
	return fmt.Sprintf("$%.0f", v)
}
