package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/model"
)

// CSVResult holds the entries read from a spending CSV.
type CSVResult struct {
	Entries     []model.SpendingEntry
	ParseErrors int // rows skipped for a bad date or amount
}

// ReadSpendingCSV reads date,amount,description rows. A leading header row
// is skipped, as are rows that fail to parse. The description column is
// optional.
func ReadSpendingCSV(r io.Reader) (CSVResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var res CSVResult
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("reading spending csv: %w", err)
		}

		isHeader := first && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "date")
		first = false
		if isHeader {
			continue
		}

		entry, ok := parseSpendingRecord(rec)
		if !ok {
			res.ParseErrors++
			continue
		}
		res.Entries = append(res.Entries, entry)
	}
	return res, nil
}

// ReadSpendingFile opens path and reads it with ReadSpendingCSV.
func ReadSpendingFile(path string) (CSVResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return CSVResult{}, fmt.Errorf("opening spending csv: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadSpendingCSV(f)
}

func parseSpendingRecord(rec []string) (model.SpendingEntry, bool) {
	if len(rec) < 2 {
		return model.SpendingEntry{}, false
	}
	date, err := ParseDate(rec[0])
	if err != nil {
		return model.SpendingEntry{}, false
	}
	amount, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(rec[1]), "$"))
	if err != nil || amount.IsNegative() {
		return model.SpendingEntry{}, false
	}
	var desc string
	if len(rec) > 2 {
		desc = strings.TrimSpace(rec[2])
	}
	return model.SpendingEntry{Date: date, Amount: amount, Description: desc}, true
}
