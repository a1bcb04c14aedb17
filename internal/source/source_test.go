package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSampleCard(t *testing.T) {
	now := time.Date(2025, 3, 20, 14, 45, 0, 0, time.UTC)
	card := SampleCard(now)

	if card.ID != SampleCardID || card.Name != "Student Discover IT" {
		t.Errorf("identity = %q/%q", card.ID, card.Name)
	}
	if !card.CreditLimit.Equal(decimal.NewFromInt(1500)) || !card.CurrentBalance.Equal(decimal.NewFromInt(450)) {
		t.Errorf("limit/balance = %s/%s", card.CreditLimit, card.CurrentBalance)
	}
	if want := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC); !card.PaymentDueDate.Equal(want) {
		t.Errorf("PaymentDueDate = %v, want %v", card.PaymentDueDate, want)
	}
	if len(card.SpendingHistory) != 4 {
		t.Fatalf("spending entries = %d, want 4", len(card.SpendingHistory))
	}
	first := card.SpendingHistory[0]
	if first.Description != "Coffee" || first.Amount.StringFixed(2) != "25.50" {
		t.Errorf("first entry = %+v", first)
	}
	if want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC); !card.SpendingHistory[3].Date.Equal(want) {
		t.Errorf("last entry date = %v, want %v", card.SpendingHistory[3].Date, want)
	}
}

func TestLoadCardFile(t *testing.T) {
	path := writeFile(t, "card.toml", `
id = "visa-1"
name = "Campus Visa"
credit_limit = 2000
current_balance = 612.40
min_payment_due = 25
payment_due_date = "2025-07-01"

[[spending]]
date = "2025-06-20"
amount = 25.50
description = "Coffee"

[[spending]]
date = "2025-06-21"
amount = 8
`)

	card, err := LoadCardFile(path)
	if err != nil {
		t.Fatalf("LoadCardFile: %v", err)
	}
	if card.ID != "visa-1" || card.Name != "Campus Visa" {
		t.Errorf("identity = %q/%q", card.ID, card.Name)
	}
	if card.CurrentBalance.StringFixed(2) != "612.40" {
		t.Errorf("CurrentBalance = %s", card.CurrentBalance)
	}
	if got := card.PaymentDueDate.Format(DateLayout); got != "2025-07-01" {
		t.Errorf("PaymentDueDate = %s", got)
	}
	if len(card.SpendingHistory) != 2 {
		t.Fatalf("spending = %d, want 2", len(card.SpendingHistory))
	}
	if card.SpendingHistory[1].Description != "" {
		t.Errorf("missing description should stay empty, got %q", card.SpendingHistory[1].Description)
	}
}

func TestParseCardDefaults(t *testing.T) {
	card, err := ParseCard(`credit_limit = 500
payment_due_date = "2025-01-05"`)
	if err != nil {
		t.Fatal(err)
	}
	if card.ID == "" {
		t.Error("expected generated id")
	}
	if card.Name != "Credit Card" {
		t.Errorf("Name = %q", card.Name)
	}
}

func TestParseCardAmountsAreExact(t *testing.T) {
	card, err := ParseCard(`credit_limit = "12345678901234567.89"
current_balance = 612
min_payment_due = 25.5
payment_due_date = "2025-07-01"

[[spending]]
date = "2025-06-20"
amount = "0.10"

[[spending]]
date = "2025-06-21"
amount = "0.20"
`)
	if err != nil {
		t.Fatal(err)
	}
	if got := card.CreditLimit.String(); got != "12345678901234567.89" {
		t.Errorf("CreditLimit = %s", got)
	}
	if got := card.CurrentBalance.StringFixed(2); got != "612.00" {
		t.Errorf("CurrentBalance = %s", got)
	}
	if got := card.MinPaymentDue.StringFixed(2); got != "25.50" {
		t.Errorf("MinPaymentDue = %s", got)
	}
	sum := card.SpendingHistory[0].Amount.Add(card.SpendingHistory[1].Amount)
	if got := sum.String(); got != "0.3" {
		t.Errorf("spending sum = %s, want 0.3", got)
	}
}

func TestParseCardErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"negative limit", `credit_limit = -1` + "\n" + `payment_due_date = "2025-01-05"`, "negative"},
		{"missing due date", `credit_limit = 100`, "payment_due_date"},
		{"bad spending date", "payment_due_date = \"2025-01-05\"\n[[spending]]\ndate = \"yesterday\"\namount = 1", "spending[0].date"},
		{"bad toml", `credit_limit = = 1`, "parsing card file"},
		{"bad amount", `credit_limit = "lots"` + "\n" + `payment_due_date = "2025-01-05"`, "parsing card file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCard(tt.body)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestReadSpendingCSV(t *testing.T) {
	in := strings.Join([]string{
		"date,amount,description",
		"2025-06-01,12.34,Lunch",
		"2025-06-02,$5,",
		"# comment row",
		"not-a-date,1,skip",
		"2025-06-03,abc,skip",
		"2025-06-04,-3,refund",
		"2025-06-05,40",
	}, "\n")

	res, err := ReadSpendingCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadSpendingCSV: %v", err)
	}
	if len(res.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(res.Entries))
	}
	if res.ParseErrors != 3 {
		t.Errorf("ParseErrors = %d, want 3", res.ParseErrors)
	}
	if res.Entries[0].Description != "Lunch" || res.Entries[0].Amount.StringFixed(2) != "12.34" {
		t.Errorf("first = %+v", res.Entries[0])
	}
	if !res.Entries[1].Amount.Equal(decimal.NewFromInt(5)) {
		t.Errorf("dollar prefix not stripped: %s", res.Entries[1].Amount)
	}
}

func TestLoadAppendsCSV(t *testing.T) {
	csvPath := writeFile(t, "spend.csv", "2025-06-01,10,Snacks\nbad,row\n")
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	card, skipped, err := Load(Options{SpendingCSV: csvPath, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	if card.ID != SampleCardID {
		t.Errorf("expected sample card, got %q", card.ID)
	}
	if len(card.SpendingHistory) != 5 {
		t.Errorf("spending = %d, want 5", len(card.SpendingHistory))
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if last := card.SpendingHistory[4]; last.Description != "Snacks" {
		t.Errorf("appended entry = %+v", last)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(Options{CardFile: filepath.Join(t.TempDir(), "nope.toml")}); err == nil {
		t.Error("expected error for missing card file")
	}
}
