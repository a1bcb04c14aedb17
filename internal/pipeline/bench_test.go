package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/model"
)

func BenchmarkAggregateDailySpend(b *testing.B) {
	now := time.Now()
	entries := make([]model.SpendingEntry, 0, 5000)
	for i := 0; i < cap(entries); i++ {
		entries = append(entries, model.SpendingEntry{
			Date:   now.Add(-time.Duration(i) * time.Hour),
			Amount: decimal.NewFromFloat(float64(i%200) + 0.99),
		})
	}
	since := now.AddDate(0, 0, -90)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = AggregateDailySpend(entries, since, now)
	}
}

func BenchmarkSimulateScore(b *testing.B) {
	amount := decimal.NewFromInt(1234)
	for i := 0; i < b.N; i++ {
		_ = SimulateScore(model.InitialCreditScore, model.ActionPayment, amount)
	}
}
