// Package pipeline computes derived card metrics: utilization, score
// simulation, bills, and spending aggregates. Everything here is pure.
package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/model"
)

// Default utilization thresholds (fraction of the credit limit).
const (
	DefaultSafeThreshold    = 0.3
	DefaultWarningThreshold = 0.6
)

// Thresholds are the utilization boundaries used by Classify.
// Safe is where "warning" starts, Warning is where "danger" starts.
type Thresholds struct {
	Safe    float64
	Warning float64
}

// DefaultThresholds returns the standard 30%/60% boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Safe: DefaultSafeThreshold, Warning: DefaultWarningThreshold}
}

// Normalize replaces out-of-range values with defaults.
func (t Thresholds) Normalize() Thresholds {
	d := DefaultThresholds()
	if t.Safe <= 0 || t.Safe >= 1 {
		t.Safe = d.Safe
	}
	if t.Warning <= 0 || t.Warning > 1 {
		t.Warning = d.Warning
	}
	if t.Warning < t.Safe {
		return d
	}
	return t
}

// Classify maps a utilization ratio to a level. Boundaries are inclusive:
// exactly Safe is a warning, exactly Warning is danger.
func (t Thresholds) Classify(utilization float64) model.UtilizationLevel {
	switch {
	case utilization >= t.Warning:
		return model.LevelDanger
	case utilization >= t.Safe:
		return model.LevelWarning
	default:
		return model.LevelSafe
	}
}

// Utilization returns balance/limit, or 0 when the limit is not positive.
// The ratio is unbounded above; use DisplayPercent for gauges.
func Utilization(balance, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	return balance.Div(limit).InexactFloat64()
}

// DisplayPercent converts a ratio to a percentage clamped to [0, 100].
func DisplayPercent(utilization float64) float64 {
	pct := utilization * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// CardUtilization is Utilization for a card's balance and limit.
func CardUtilization(card model.CardAccount) float64 {
	return Utilization(card.CurrentBalance, card.CreditLimit)
}
