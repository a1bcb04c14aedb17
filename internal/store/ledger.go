// Package store keeps the session's card and spending in an in-memory
// SQLite database. Nothing is written to disk; the data lives exactly as
// long as the Ledger.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrCardNotFound is returned when no card with the given id was saved.
var ErrCardNotFound = errors.New("store: card not found")

const dayLayout = "2006-01-02"

// Ledger is an in-memory, append-only record of one session's card.
type Ledger struct {
	db *sql.DB
}

// Open creates a fresh in-memory ledger. Each call gets its own database.
func Open() (*Ledger, error) {
	dsn := fmt.Sprintf("file:cplan-%s?mode=memory&cache=shared&_pragma=foreign_keys(on)", uuid.NewString())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}
	// A memory database vanishes with its last connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database and everything in it.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// SaveCard stores card and replaces its spending history.
func (l *Ledger) SaveCard(card model.CardAccount) error {
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT OR REPLACE INTO cards
		(card_id, name, credit_limit, current_balance, min_payment_due, payment_due_date, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.Name,
		card.CreditLimit.String(), card.CurrentBalance.String(), card.MinPaymentDue.String(),
		card.PaymentDueDate.Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving card: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM spending WHERE card_id = ?", card.ID); err != nil {
		return fmt.Errorf("clearing spending: %w", err)
	}
	for _, e := range card.SpendingHistory {
		if _, err := insertSpending(tx, card.ID, e); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AppendSpending records one entry for cardID and returns its row id.
func (l *Ledger) AppendSpending(cardID string, e model.SpendingEntry) (string, error) {
	var exists int
	err := l.db.QueryRow("SELECT 1 FROM cards WHERE card_id = ?", cardID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrCardNotFound
	}
	if err != nil {
		return "", err
	}
	return insertSpending(l.db, cardID, e)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertSpending(db execer, cardID string, e model.SpendingEntry) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`INSERT INTO spending (entry_id, card_id, spent_at, day, amount, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, cardID,
		e.Date.Format(time.RFC3339Nano),
		e.Date.Format(dayLayout),
		e.Amount.String(),
		nullableString(e.Description),
	)
	if err != nil {
		return "", fmt.Errorf("inserting spending: %w", err)
	}
	return id, nil
}

// LoadCard returns the saved card with its history in insertion order.
func (l *Ledger) LoadCard(cardID string) (model.CardAccount, error) {
	var (
		card                   model.CardAccount
		limit, balance, minDue string
		due                    string
	)
	err := l.db.QueryRow(`SELECT card_id, name, credit_limit, current_balance, min_payment_due, payment_due_date
		FROM cards WHERE card_id = ?`, cardID).
		Scan(&card.ID, &card.Name, &limit, &balance, &minDue, &due)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CardAccount{}, ErrCardNotFound
	}
	if err != nil {
		return model.CardAccount{}, fmt.Errorf("loading card: %w", err)
	}

	if card.CreditLimit, err = decimal.NewFromString(limit); err != nil {
		return model.CardAccount{}, fmt.Errorf("decoding credit_limit: %w", err)
	}
	if card.CurrentBalance, err = decimal.NewFromString(balance); err != nil {
		return model.CardAccount{}, fmt.Errorf("decoding current_balance: %w", err)
	}
	if card.MinPaymentDue, err = decimal.NewFromString(minDue); err != nil {
		return model.CardAccount{}, fmt.Errorf("decoding min_payment_due: %w", err)
	}
	if card.PaymentDueDate, err = time.Parse(time.RFC3339Nano, due); err != nil {
		return model.CardAccount{}, fmt.Errorf("decoding payment_due_date: %w", err)
	}

	rows, err := l.db.Query(`SELECT spent_at, amount, COALESCE(description, '')
		FROM spending WHERE card_id = ? ORDER BY seq`, cardID)
	if err != nil {
		return model.CardAccount{}, fmt.Errorf("loading spending: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var at, amount string
		var e model.SpendingEntry
		if err := rows.Scan(&at, &amount, &e.Description); err != nil {
			return model.CardAccount{}, err
		}
		if e.Date, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return model.CardAccount{}, fmt.Errorf("decoding spent_at: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return model.CardAccount{}, fmt.Errorf("decoding amount: %w", err)
		}
		card.SpendingHistory = append(card.SpendingHistory, e)
	}
	return card, rows.Err()
}

// DailySpend sums spending per calendar day on or after since, oldest
// first. Days without spending are omitted.
func (l *Ledger) DailySpend(cardID string, since time.Time) ([]model.DailySpend, error) {
	rows, err := l.db.Query(`SELECT day, amount FROM spending
		WHERE card_id = ? AND day >= ? ORDER BY day, seq`,
		cardID, since.Format(dayLayout))
	if err != nil {
		return nil, fmt.Errorf("querying daily spend: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// Amounts are decimal text, so sum in Go rather than with SUM().
	var out []model.DailySpend
	for rows.Next() {
		var day, amount string
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, err
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("decoding amount: %w", err)
		}
		d, err := time.ParseInLocation(dayLayout, day, since.Location())
		if err != nil {
			return nil, fmt.Errorf("decoding day: %w", err)
		}
		if n := len(out); n > 0 && out[n-1].Date.Equal(d) {
			out[n-1].Total = out[n-1].Total.Add(amt)
			out[n-1].Count++
			continue
		}
		out = append(out, model.DailySpend{Date: d, Total: amt, Count: 1})
	}
	return out, rows.Err()
}

// SpendingCount returns how many entries are recorded for cardID.
func (l *Ledger) SpendingCount(cardID string) (int, error) {
	var n int
	err := l.db.QueryRow("SELECT COUNT(*) FROM spending WHERE card_id = ?", cardID).Scan(&n)
	return n, err
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
