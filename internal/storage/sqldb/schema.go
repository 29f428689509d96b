package sqldb

// postgresSchema creates the ledger table. seq keeps natural insertion order
// and never leaves the store.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
    seq             BIGSERIAL PRIMARY KEY,
    id              TEXT NOT NULL UNIQUE,
    account_name    TEXT NOT NULL,
    amount_due      NUMERIC NOT NULL DEFAULT 0,
    amount_received NUMERIC NOT NULL DEFAULT 0,
    reference       TEXT NOT NULL DEFAULT '',
    entry_date      DATE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_account
    ON ledger_entries(account_name);
`

// sqliteSchema stores amounts as TEXT so no precision is lost to REAL.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
    seq             INTEGER PRIMARY KEY AUTOINCREMENT,
    id              TEXT NOT NULL UNIQUE,
    account_name    TEXT NOT NULL,
    amount_due      TEXT NOT NULL DEFAULT '0',
    amount_received TEXT NOT NULL DEFAULT '0',
    reference       TEXT NOT NULL DEFAULT '',
    entry_date      TEXT,
    created_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_account
    ON ledger_entries(account_name);
`
