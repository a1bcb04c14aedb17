package pipeline

import (
	"sort"

	"github.com/theirongolddev/cplan/internal/model"
)

// MinimumPaymentBillID identifies the bill synthesized from a card.
const MinimumPaymentBillID = "cc-payment"

// UpcomingBills derives the bill list shown on the timeline, sorted by due date.
// A card produces exactly one unpaid bill for its minimum payment.
func UpcomingBills(card model.CardAccount) []model.Bill {
	bills := []model.Bill{
		{
			ID:      MinimumPaymentBillID,
			Name:    card.Name + " Minimum Payment",
			Amount:  card.MinPaymentDue,
			DueDate: card.PaymentDueDate,
			IsPaid:  false,
		},
	}
	SortBillsByDue(bills)
	return bills
}

// SortBillsByDue orders bills ascending by due date. Ties keep their order.
func SortBillsByDue(bills []model.Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].DueDate.Before(bills[j].DueDate)
	})
}
