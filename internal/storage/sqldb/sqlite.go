package sqldb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// OpenSQLite opens the database file with foreign keys and WAL enabled.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLLedgerStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := sqlx.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time keeps bulk transactions from hitting SQLITE_BUSY
	db.SetMaxOpenConns(1)

	return newStore(ctx, db, sqliteSchema)
}
