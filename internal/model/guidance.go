package model

import "github.com/shopspring/decimal"

// GuidanceRequest is the snapshot of card state sent to the advisor.
// It is built fresh for every request and never mutated afterwards.
type GuidanceRequest struct {
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	MinPaymentDue  decimal.Decimal `json:"min_payment_due"`
	PaymentDueDate string          `json:"payment_due_date"` // YYYY-MM-DD
	RecentSpending []SpendingEntry `json:"recent_spending"`
	CreditScore    CreditScore     `json:"credit_score"`
}
