package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cplan/internal/model"
)

func openLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 12, 0, 0, 0, time.UTC)
}

func testCard() model.CardAccount {
	return model.CardAccount{
		ID:             "card-123",
		Name:           "Student Discover IT",
		CreditLimit:    decimal.NewFromInt(1500),
		CurrentBalance: decimal.RequireFromString("450.25"),
		MinPaymentDue:  decimal.NewFromInt(35),
		PaymentDueDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		SpendingHistory: []model.SpendingEntry{
			{Date: day(3), Amount: decimal.RequireFromString("75.00"), Description: "Groceries"},
			{Date: day(1), Amount: decimal.RequireFromString("25.50"), Description: "Coffee"},
			{Date: day(3), Amount: decimal.RequireFromString("4.50")},
		},
	}
}

func TestSaveAndLoadCard(t *testing.T) {
	l := openLedger(t)
	card := testCard()
	require.NoError(t, l.SaveCard(card))

	got, err := l.LoadCard(card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.Name, got.Name)
	assert.True(t, got.CurrentBalance.Equal(card.CurrentBalance))
	assert.True(t, got.PaymentDueDate.Equal(card.PaymentDueDate))
	require.Len(t, got.SpendingHistory, 3)
	assert.Equal(t, "Groceries", got.SpendingHistory[0].Description, "insertion order kept")
	assert.Equal(t, "", got.SpendingHistory[2].Description)
}

func TestSaveCardReplacesHistory(t *testing.T) {
	l := openLedger(t)
	card := testCard()
	require.NoError(t, l.SaveCard(card))

	card.SpendingHistory = card.SpendingHistory[:1]
	require.NoError(t, l.SaveCard(card))

	n, err := l.SpendingCount(card.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAppendSpending(t *testing.T) {
	l := openLedger(t)
	require.NoError(t, l.SaveCard(testCard()))

	id, err := l.AppendSpending("card-123", model.SpendingEntry{Date: day(5), Amount: decimal.NewFromInt(9)})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	n, err := l.SpendingCount("card-123")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = l.AppendSpending("missing", model.SpendingEntry{Date: day(5)})
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestLoadCardNotFound(t *testing.T) {
	_, err := openLedger(t).LoadCard("nope")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestDailySpend(t *testing.T) {
	l := openLedger(t)
	require.NoError(t, l.SaveCard(testCard()))

	days, err := l.DailySpend("card-123", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 2, days[0].Count)
	assert.Equal(t, "79.50", days[0].Total.StringFixed(2))

	all, err := l.DailySpend("card-123", time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].Date.Day())
}

func TestLedgersAreIsolated(t *testing.T) {
	a := openLedger(t)
	b := openLedger(t)
	require.NoError(t, a.SaveCard(testCard()))

	_, err := b.LoadCard("card-123")
	assert.ErrorIs(t, err, ErrCardNotFound)
}
