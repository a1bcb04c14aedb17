// Package source loads card state: the built-in demo account, TOML card
// files, and spending CSV exports.
package source

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/model"
)

// SampleCardID identifies the built-in demo account.
const SampleCardID = "card-123"

// SampleCard returns the demo account with dates relative to now.
func SampleCard(now time.Time) model.CardAccount {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysAgo := func(n int) time.Time { return today.AddDate(0, 0, -n) }

	return model.CardAccount{
		ID:             SampleCardID,
		Name:           "Student Discover IT",
		CreditLimit:    decimal.NewFromInt(1500),
		CurrentBalance: decimal.NewFromInt(450),
		MinPaymentDue:  decimal.NewFromInt(35),
		PaymentDueDate: today.AddDate(0, 0, 10),
		SpendingHistory: []model.SpendingEntry{
			{Date: daysAgo(1), Amount: decimal.RequireFromString("25.50"), Description: "Coffee"},
			{Date: daysAgo(3), Amount: decimal.RequireFromString("75.00"), Description: "Groceries"},
			{Date: daysAgo(7), Amount: decimal.RequireFromString("40.00"), Description: "Bookstore"},
			{Date: daysAgo(10), Amount: decimal.RequireFromString("150.00"), Description: "Dining out"},
		},
	}
}
