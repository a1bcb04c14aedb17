package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/model"
)

// Dollar amounts worth one score point.
const (
	PaymentStep  = 50
	SpendingStep = 100
)

var (
	paymentPointDivisor  = decimal.NewFromInt(PaymentStep)
	spendingPointDivisor = decimal.NewFromInt(SpendingStep)
)

// ScoreDelta returns the point change for an action: +1 per whole $50 paid,
// -1 per whole $100 spent. Negative amounts count as zero.
func ScoreDelta(action model.ScoreAction, amount decimal.Decimal) int {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	switch action {
	case model.ActionPayment:
		return int(amount.Div(paymentPointDivisor).Floor().IntPart())
	case model.ActionSpending:
		return -int(amount.Div(spendingPointDivisor).Floor().IntPart())
	}
	return 0
}

// SimulateScore applies ScoreDelta to score and clamps the result.
// It has no side effects; callers decide whether to keep the result.
func SimulateScore(score model.CreditScore, action model.ScoreAction, amount decimal.Decimal) model.CreditScore {
	return model.ClampScore(score + model.CreditScore(ScoreDelta(action, amount)))
}
