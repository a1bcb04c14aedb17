package source

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/model"
)

// DateLayout is the calendar date format used in card files and CSVs.
const DateLayout = "2006-01-02"

// cardFile is the on-disk TOML shape of a card. Amounts are decimal text;
// quoted values and integers are exact, bare floats keep six places.
//
//	name = "Student Discover IT"
//	credit_limit = 1500
//	current_balance = "450.00"
//	min_payment_due = 35
//	payment_due_date = "2025-07-01"
//
//	[[spending]]
//	date = "2025-06-20"
//	amount = "25.50"
//	description = "Coffee"
type cardFile struct {
	ID             string          `toml:"id"`
	Name           string          `toml:"name"`
	CreditLimit    decimal.Decimal `toml:"credit_limit"`
	CurrentBalance decimal.Decimal `toml:"current_balance"`
	MinPaymentDue  decimal.Decimal `toml:"min_payment_due"`
	PaymentDueDate string          `toml:"payment_due_date"`
	Spending       []spendingEntry `toml:"spending"`
}

type spendingEntry struct {
	Date        string          `toml:"date"`
	Amount      decimal.Decimal `toml:"amount"`
	Description string          `toml:"description"`
}

// LoadCardFile reads a card from a TOML file. A missing id gets a random one.
func LoadCardFile(path string) (model.CardAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CardAccount{}, fmt.Errorf("reading card file: %w", err)
	}
	return ParseCard(string(data))
}

// ParseCard decodes a card from TOML text.
func ParseCard(data string) (model.CardAccount, error) {
	var raw cardFile
	if _, err := toml.Decode(data, &raw); err != nil {
		return model.CardAccount{}, fmt.Errorf("parsing card file: %w", err)
	}

	if raw.CreditLimit.IsNegative() || raw.CurrentBalance.IsNegative() || raw.MinPaymentDue.IsNegative() {
		return model.CardAccount{}, errors.New("parsing card file: amounts must not be negative")
	}

	due, err := ParseDate(raw.PaymentDueDate)
	if err != nil {
		return model.CardAccount{}, fmt.Errorf("parsing card file: payment_due_date: %w", err)
	}

	card := model.CardAccount{
		ID:             strings.TrimSpace(raw.ID),
		Name:           strings.TrimSpace(raw.Name),
		CreditLimit:    raw.CreditLimit,
		CurrentBalance: raw.CurrentBalance,
		MinPaymentDue:  raw.MinPaymentDue,
		PaymentDueDate: due,
	}
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if card.Name == "" {
		card.Name = "Credit Card"
	}

	for i, s := range raw.Spending {
		d, err := ParseDate(s.Date)
		if err != nil {
			return model.CardAccount{}, fmt.Errorf("parsing card file: spending[%d].date: %w", i, err)
		}
		if s.Amount.IsNegative() {
			return model.CardAccount{}, fmt.Errorf("parsing card file: spending[%d].amount is negative", i)
		}
		card.AppendSpending(model.SpendingEntry{
			Date:        d,
			Amount:      s.Amount,
			Description: strings.TrimSpace(s.Description),
		})
	}

	return card, nil
}

// ParseDate accepts YYYY-MM-DD (local calendar date) or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}
