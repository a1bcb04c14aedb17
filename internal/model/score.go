package model

import (
	"fmt"
	"strings"
)

// Credit score bounds.
const (
	MinCreditScore     CreditScore = 300
	MaxCreditScore     CreditScore = 850
	InitialCreditScore CreditScore = 720
)

// CreditScore is an estimated FICO-style score.
type CreditScore int

// ClampScore bounds s to [MinCreditScore, MaxCreditScore].
func ClampScore(s CreditScore) CreditScore {
	if s < MinCreditScore {
		return MinCreditScore
	}
	if s > MaxCreditScore {
		return MaxCreditScore
	}
	return s
}

// ScoreAction is the kind of event fed to the score simulator.
type ScoreAction string

const (
	ActionPayment  ScoreAction = "payment"
	ActionSpending ScoreAction = "spending"
)

// ParseScoreAction accepts "payment" or "spending" (case-insensitive).
func ParseScoreAction(s string) (ScoreAction, error) {
	switch ScoreAction(strings.ToLower(strings.TrimSpace(s))) {
	case ActionPayment:
		return ActionPayment, nil
	case ActionSpending:
		return ActionSpending, nil
	}
	return "", fmt.Errorf("unknown score action %q (want payment or spending)", s)
}

// UtilizationLevel classifies a utilization ratio.
type UtilizationLevel int

const (
	LevelSafe UtilizationLevel = iota
	LevelWarning
	LevelDanger
)

func (l UtilizationLevel) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelDanger:
		return "danger"
	default:
		return "safe"
	}
}

// Label is the short gauge caption for the level.
func (l UtilizationLevel) Label() string {
	switch l {
	case LevelWarning:
		return "Careful!"
	case LevelDanger:
		return "High Usage!"
	default:
		return "Great!"
	}
}
