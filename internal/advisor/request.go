// Package advisor turns card state into a guidance prompt, sends it to a
// text generator, and normalizes the outcome.
package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/cplan/internal/model"
)

const (
	// SystemInstruction frames the model for every request.
	SystemInstruction = "You are a friendly and helpful financial advisor for college students."

	// Question is the fixed question the guidance answers.
	Question = "Pay same day?"

	noSpendingLine = "- No recent spending data available."
	spendingDate   = "1/2/2006"
)

// BuildRequest snapshots card state and score. Spending entries are copied
// as-is (no date filtering); the due date becomes a YYYY-MM-DD string in the
// card's own location.
func BuildRequest(card model.CardAccount, score model.CreditScore) model.GuidanceRequest {
	spending := make([]model.SpendingEntry, len(card.SpendingHistory))
	copy(spending, card.SpendingHistory)

	return model.GuidanceRequest{
		CurrentBalance: card.CurrentBalance,
		CreditLimit:    card.CreditLimit,
		MinPaymentDue:  card.MinPaymentDue,
		PaymentDueDate: card.PaymentDueDate.Format(time.DateOnly),
		RecentSpending: spending,
		CreditScore:    score,
	}
}

// SpendingSummary renders one bullet per entry, or a placeholder line when
// there are none.
func SpendingSummary(entries []model.SpendingEntry) string {
	if len(entries) == 0 {
		return noSpendingLine
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = "N/A"
		}
		lines[i] = fmt.Sprintf("- %s: $%s (%s)", e.Date.Format(spendingDate), e.Amount.StringFixed(2), desc)
	}
	return strings.Join(lines, "\n")
}

// Prompt builds the deterministic user prompt for req.
func Prompt(req model.GuidanceRequest) string {
	var b strings.Builder

	b.WriteString(SystemInstruction + "\n")
	b.WriteString("Your goal is to provide smart, actionable guidance on credit card management, especially regarding timely payments and safe spending habits.\n")
	fmt.Fprintf(&b, "The student is asking for advice, specifically on the question %q.\n\n", Question)

	b.WriteString("Here's the student's current credit card situation:\n")
	fmt.Fprintf(&b, "- Credit Limit: $%s\n", req.CreditLimit.StringFixed(2))
	fmt.Fprintf(&b, "- Current Balance: $%s\n", req.CurrentBalance.StringFixed(2))
	fmt.Fprintf(&b, "- Minimum Payment Due: $%s\n", req.MinPaymentDue.StringFixed(2))
	fmt.Fprintf(&b, "- Payment Due Date: %s\n", req.PaymentDueDate)
	fmt.Fprintf(&b, "- Current Estimated Credit Score: %d\n", req.CreditScore)
	b.WriteString("- Recent Spending Habits (last few entries):\n")
	b.WriteString(SpendingSummary(req.RecentSpending))
	b.WriteString("\n\n")

	b.WriteString("Based on this information, provide clear guidance.\n")
	fmt.Fprintf(&b, "Specifically address the %q question.\n", Question)
	b.WriteString("Consider:\n")
	b.WriteString("1. Their current credit utilization (Current Balance / Credit Limit).\n")
	b.WriteString("2. The proximity of the payment due date.\n")
	b.WriteString("3. The impact on their credit score.\n")
	b.WriteString("4. General best practices for students (e.g., paying more than minimum, avoiding high utilization).\n")
	b.WriteString("5. Keep the advice concise and encouraging, tailored for a student audience.\n")
	b.WriteString("Do not ask for more information. Provide direct advice.\n")

	return b.String()
}
