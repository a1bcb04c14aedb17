package pipeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/model"
)

// FilterByTime returns entries whose date falls within [since, until).
// A zero since or until leaves that side open.
func FilterByTime(entries []model.SpendingEntry, since, until time.Time) []model.SpendingEntry {
	var out []model.SpendingEntry
	for _, e := range entries {
		if !since.IsZero() && e.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !e.Date.Before(until) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// TotalSpend sums entry amounts.
func TotalSpend(entries []model.SpendingEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// AggregateDailySpend buckets entries by local calendar day within
// [since, until). Days with no spending are included so charts have an even
// x-axis. Result is sorted oldest first.
func AggregateDailySpend(entries []model.SpendingEntry, since, until time.Time) []model.DailySpend {
	filtered := FilterByTime(entries, since, until)

	dayMap := make(map[string]*model.DailySpend)
	for _, e := range filtered {
		key := e.Date.Local().Format("2006-01-02")
		ds, ok := dayMap[key]
		if !ok {
			ds = &model.DailySpend{Date: startOfDay(e.Date), Total: decimal.Zero}
			dayMap[key] = ds
		}
		ds.Total = ds.Total.Add(e.Amount)
		ds.Count++
	}

	// Fill gaps
	if !since.IsZero() && !until.IsZero() {
		for d := startOfDay(since); d.Before(until); d = d.AddDate(0, 0, 1) {
			key := d.Format("2006-01-02")
			if _, ok := dayMap[key]; !ok {
				dayMap[key] = &model.DailySpend{Date: d, Total: decimal.Zero}
			}
		}
	}

	days := make([]model.DailySpend, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

func startOfDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
