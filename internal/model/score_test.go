package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampScore(t *testing.T) {
	assert.Equal(t, MinCreditScore, ClampScore(120))
	assert.Equal(t, MaxCreditScore, ClampScore(870))
	assert.Equal(t, CreditScore(720), ClampScore(720))
	assert.Equal(t, MinCreditScore, ClampScore(MinCreditScore))
	assert.Equal(t, MaxCreditScore, ClampScore(MaxCreditScore))
}

func TestParseScoreAction(t *testing.T) {
	a, err := ParseScoreAction(" Payment ")
	require.NoError(t, err)
	assert.Equal(t, ActionPayment, a)

	a, err = ParseScoreAction("spending")
	require.NoError(t, err)
	assert.Equal(t, ActionSpending, a)

	_, err = ParseScoreAction("refund")
	require.Error(t, err)
}

func TestUtilizationLevelLabels(t *testing.T) {
	assert.Equal(t, "safe", LevelSafe.String())
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "danger", LevelDanger.String())
	assert.Equal(t, "Great!", LevelSafe.Label())
	assert.Equal(t, "Careful!", LevelWarning.Label())
	assert.Equal(t, "High Usage!", LevelDanger.Label())
}

func TestAvailableCreditAndAppend(t *testing.T) {
	card := CardAccount{
		CreditLimit:    decimal.NewFromInt(1500),
		CurrentBalance: decimal.NewFromInt(1600),
	}
	assert.True(t, card.AvailableCredit().Equal(decimal.NewFromInt(-100)))

	card.AppendSpending(SpendingEntry{Amount: decimal.NewFromInt(5), Description: "a"})
	card.AppendSpending(SpendingEntry{Amount: decimal.NewFromInt(7), Description: "b"})
	require.Len(t, card.SpendingHistory, 2)
	assert.Equal(t, "a", card.SpendingHistory[0].Description)
	assert.Equal(t, "b", card.SpendingHistory[1].Description)
}
