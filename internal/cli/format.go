// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatMoney formats a dollar amount with separators and two decimals.
// e.g., 1234.5 -> "$1,234.50", -12 -> "-$12.00"
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}

// FormatPercent formats a 0-1 ratio as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatWholePercent formats a 0-100 value with no decimals.
func FormatWholePercent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}

// FormatDate formats a calendar date, e.g. "Jun 11, 2025".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatDue describes a due date relative to now in calendar days.
// e.g., "today", "tomorrow", "in 10 days", "3 days overdue"
func FormatDue(due, now time.Time) string {
	days := calendarDays(now, due)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "1 day overdue"
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days < 14:
		return fmt.Sprintf("in %d days", days)
	}
	return humanize.RelTime(due, now, "ago", "from now")
}

// FormatScoreDelta formats a score change with its sign, e.g. "+20", "-3", "0".
func FormatScoreDelta(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%d", delta)
	}
	return fmt.Sprintf("%d", delta)
}

// FormatCount formats an integer with comma separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// DaysUntil returns how many calendar days due is after now. It is 0 on the
// due day itself and negative once the day has passed.
func DaysUntil(due, now time.Time) int {
	return calendarDays(now, due)
}

func calendarDays(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
