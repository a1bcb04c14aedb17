// Package model defines domain types for cplan card state and guidance.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardAccount is the single credit card tracked by a session.
type CardAccount struct {
	ID             string
	Name           string
	CreditLimit    decimal.Decimal
	CurrentBalance decimal.Decimal // may exceed CreditLimit
	MinPaymentDue  decimal.Decimal
	PaymentDueDate time.Time // calendar date, time of day ignored

	SpendingHistory []SpendingEntry // insertion order
}

// AvailableCredit returns limit minus balance. Negative when over the limit.
func (c CardAccount) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.CurrentBalance)
}

// AppendSpending adds an entry to the end of the history.
// The history is append-only; existing entries are never rewritten.
func (c *CardAccount) AppendSpending(e SpendingEntry) {
	c.SpendingHistory = append(c.SpendingHistory, e)
}

// SpendingEntry is one purchase on the card.
type SpendingEntry struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"` // empty when absent
}

// Bill is an upcoming payment derived from the card for display.
type Bill struct {
	ID      string
	Name    string
	Amount  decimal.Decimal
	DueDate time.Time
	IsPaid  bool
}

// DailySpend holds spending totals for one calendar day.
type DailySpend struct {
	Date  time.Time
	Total decimal.Decimal
	Count int
}
