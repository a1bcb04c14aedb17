package session

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
)

// Summary is the derived view of a State shared by every front end.
type Summary struct {
	Utilization float64
	Percent     float64
	Level       model.UtilizationLevel
	Available   decimal.Decimal
	Bills       []model.Bill
	TotalSpend  decimal.Decimal
}

// Summarize computes the derived metrics for st.
func Summarize(st State, th pipeline.Thresholds) Summary {
	u := pipeline.CardUtilization(st.Card)
	return Summary{
		Utilization: u,
		Percent:     pipeline.DisplayPercent(u),
		Level:       th.Normalize().Classify(u),
		Available:   st.Card.AvailableCredit(),
		Bills:       pipeline.UpcomingBills(st.Card),
		TotalSpend:  pipeline.TotalSpend(st.Card.SpendingHistory),
	}
}
