package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cards (
    card_id              TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    credit_limit         TEXT NOT NULL,
    current_balance      TEXT NOT NULL,
    min_payment_due      TEXT NOT NULL,
    payment_due_date     TEXT NOT NULL,
    saved_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS spending (
    seq                  INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_id             TEXT NOT NULL UNIQUE,
    card_id              TEXT NOT NULL REFERENCES cards(card_id) ON DELETE CASCADE,
    spent_at             TEXT NOT NULL,
    day                  TEXT NOT NULL,
    amount               TEXT NOT NULL,
    description          TEXT
);

CREATE INDEX IF NOT EXISTS idx_spending_card_day ON spending(card_id, day);
`
