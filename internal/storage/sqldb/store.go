// Package sqldb implements the ledger store over sqlx for Postgres (lib/pq)
// and SQLite (go-sqlite3).
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

const entryColumns = `id, account_name, amount_due, amount_received, reference, entry_date`

// entryRow is the scanned shape of one ledger_entries row.
type entryRow struct {
	ID             string          `db:"id"`
	AccountName    string          `db:"account_name"`
	AmountDue      decimal.Decimal `db:"amount_due"`
	AmountReceived decimal.Decimal `db:"amount_received"`
	Reference      string          `db:"reference"`
	Date           models.Date     `db:"entry_date"`
}

func (r entryRow) entry() models.LedgerEntry {
	return models.LedgerEntry{
		ID:             r.ID,
		AccountName:    r.AccountName,
		AmountDue:      r.AmountDue,
		AmountReceived: r.AmountReceived,
		Reference:      r.Reference,
		Date:           r.Date,
	}
}

// SQLLedgerStore writes queries with ? placeholders; sqlx rebinds them for
// the driver in use.
type SQLLedgerStore struct {
	db *sqlx.DB
}

func newStore(ctx context.Context, db *sqlx.DB, schema string) (*SQLLedgerStore, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", db.DriverName(), err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLLedgerStore{db: db}, nil
}

func (p *SQLLedgerStore) Close() error {
	return p.db.Close()
}

func (p *SQLLedgerStore) Create(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	if err := p.insert(ctx, p.db, entry); err != nil {
		return models.LedgerEntry{}, err
	}
	return entry, nil
}

func (p *SQLLedgerStore) Update(ctx context.Context, id string, entry models.LedgerEntry) (models.LedgerEntry, error) {
	const query = `UPDATE ledger_entries
	SET account_name = ?, amount_due = ?, amount_received = ?, reference = ?, entry_date = ?
	WHERE id = ?`

	res, err := p.db.ExecContext(ctx, p.db.Rebind(query),
		entry.AccountName, entry.AmountDue, entry.AmountReceived, entry.Reference, entry.Date, id)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if n == 0 {
		return models.LedgerEntry{}, interfaces.ErrNotFound
	}

	entry.ID = id
	return entry, nil
}

func (p *SQLLedgerStore) Get(ctx context.Context, id string) (models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE id = ?`

	var row entryRow
	err := p.db.GetContext(ctx, &row, p.db.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LedgerEntry{}, interfaces.ErrNotFound
	}
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return row.entry(), nil
}

func (p *SQLLedgerStore) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries ORDER BY seq`
	return p.query(ctx, query)
}

func (p *SQLLedgerStore) ListByAccount(ctx context.Context, accountName string) ([]models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE account_name = ? ORDER BY seq`
	return p.query(ctx, p.db.Rebind(query), accountName)
}

// CreateBulk inserts the batch inside one transaction.
func (p *SQLLedgerStore) CreateBulk(ctx context.Context, entries []models.LedgerEntry) (n int, err error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, e := range entries {
		if err = p.insert(ctx, tx, e); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(entries), nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (p *SQLLedgerStore) insert(ctx context.Context, db execer, entry models.LedgerEntry) error {
	const query = `INSERT INTO ledger_entries (` + entryColumns + `)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err := db.ExecContext(ctx, p.db.Rebind(query),
		entry.ID, entry.AccountName, entry.AmountDue, entry.AmountReceived, entry.Reference, entry.Date)
	return err
}

func (p *SQLLedgerStore) query(ctx context.Context, query string, args ...any) ([]models.LedgerEntry, error) {
	var rows []entryRow
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	entries := make([]models.LedgerEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

var _ interfaces.LedgerStore = (*SQLLedgerStore)(nil)
