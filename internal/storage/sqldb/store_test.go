package sqldb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/storage/storetest"
)

func TestRebindPerDriver(t *testing.T) {
	q := `UPDATE t SET a = ?, b = ? WHERE id = ?`

	pg := sqlx.NewDb(nil, "postgres")
	assert.Equal(t, `UPDATE t SET a = $1, b = $2 WHERE id = $3`, pg.Rebind(q))

	lite := sqlx.NewDb(nil, "sqlite3")
	assert.Equal(t, q, lite.Rebind(q))
}

func TestSQLiteLedgerStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "ledger.sqlite"))
		require.NoError(t, err)
		return s
	})
}

// Postgres tests are opt-in. Set LEDGER_TEST_POSTGRES_DSN to run them.
func TestPostgresLedgerStore(t *testing.T) {
	dsn := os.Getenv("LEDGER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("postgres tests are disabled; set LEDGER_TEST_POSTGRES_DSN to enable")
	}

	storetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		s, err := OpenPostgres(context.Background(), dsn)
		require.NoError(t, err)
		_, err = s.db.Exec(`TRUNCATE ledger_entries`)
		require.NoError(t, err)
		return s
	})
}
