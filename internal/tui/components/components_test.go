package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, total := range []int{80, 81, 119, 180} {
		sum := 0
		for _, w := range LayoutRow(total, 3) {
			sum += w
		}
		assert.Equal(t, total, sum)
	}
	assert.Nil(t, LayoutRow(80, 0))
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)
	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	require.Less(t, shortLines, tallLines)

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	assert.Len(t, lines, tallLines)

	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		assert.Equal(t, width, lipgloss.Width(line), "line %d width", i)
		if i >= shortLines {
			assert.Contains(t, line, "\x1b[", "padding line %d should be styled", i)
		}
	}
}

func TestTabBarMatchesVisualWidths(t *testing.T) {
	for active := range Tabs {
		want := len(Tabs) - 1
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		assert.Equal(t, want, lipgloss.Width(RenderTabBar(active, 0)), "active=%d", active)
	}
}

func TestTabIdxByKey(t *testing.T) {
	assert.Equal(t, 0, TabIdxByKey('o'))
	assert.Equal(t, 3, TabIdxByKey('p'))
	assert.Equal(t, 4, TabIdxByKey('x'))
	assert.Equal(t, -1, TabIdxByKey('z'))
}

func TestUtilizationGauge(t *testing.T) {
	out := UtilizationGauge(30, model.LevelWarning, 20)
	assert.Contains(t, out, " 30%")
	assert.Contains(t, out, "Careful!")

	assert.Contains(t, UtilizationGauge(250, model.LevelDanger, 20), "100%")
	assert.Contains(t, UtilizationGauge(5, model.LevelSafe, 20), "Great!")
}

func TestBillTimeline(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	assert.Contains(t, BillTimeline(nil, now, 60), NoBillsText)

	out := BillTimeline([]model.Bill{{
		ID:      "cc-payment",
		Name:    "Student Discover IT Minimum Payment",
		Amount:  decimal.NewFromInt(35),
		DueDate: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	}}, now, 80)
	assert.Contains(t, out, "Student Discover IT Minimum Payment")
	assert.Contains(t, out, "$35.00")
	assert.Contains(t, out, "in 10 days")
	assert.Equal(t, 80, lipgloss.Width(out))
}

func TestBillOverdueByCalendarDay(t *testing.T) {
	due := time.Date(2025, 6, 11, 0, 0, 0, 0, time.Local)
	bill := model.Bill{ID: "cc-payment", Amount: decimal.NewFromInt(35), DueDate: due}

	assert.False(t, billOverdue(bill, due.Add(-time.Hour)))
	assert.False(t, billOverdue(bill, due.Add(9*time.Hour)), "due today")
	assert.False(t, billOverdue(bill, due.Add(23*time.Hour+59*time.Minute)))
	assert.True(t, billOverdue(bill, due.AddDate(0, 0, 1)))

	bill.IsPaid = true
	assert.False(t, billOverdue(bill, due.AddDate(0, 0, 3)))

	bill.IsPaid = false
	assert.Contains(t, BillTimeline([]model.Bill{bill}, due.Add(9*time.Hour), 80), "today")
}

func TestSpendChart(t *testing.T) {
	assert.Contains(t, SpendChart(nil, 40, 6), "No spending recorded.")

	days := []model.DailySpend{
		{Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(40), Count: 1},
		{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Total: decimal.Zero},
		{Date: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(150), Count: 2},
	}
	out := SpendChart(days, 40, 6)
	assert.Contains(t, out, "$200")
	assert.Contains(t, out, "$0")
	assert.Contains(t, out, "Jun 1")
	assert.Contains(t, out, "Jun 3")
	assert.Equal(t, 6+2, lipgloss.Height(out))
}

func TestNiceCeiling(t *testing.T) {
	assert.InDelta(t, 1.0, niceCeiling(0), 1e-9)
	assert.InDelta(t, 200.0, niceCeiling(150), 1e-9)
	assert.InDelta(t, 50.0, niceCeiling(40), 1e-9)
	assert.InDelta(t, 1000.0, niceCeiling(1000), 1e-9)
}
