package interfaces

import (
	"context"
	"errors"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

// ErrNotFound is returned when no entry carries the requested id.
var ErrNotFound = errors.New("ledger entry not found")

// LedgerStore persists ledger entries in a single collection keyed by id.
type LedgerStore interface {
	Create(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error)
	// Update replaces every field of the entry at id. Returns ErrNotFound if absent.
	Update(ctx context.Context, id string, entry models.LedgerEntry) (models.LedgerEntry, error)
	Get(ctx context.Context, id string) (models.LedgerEntry, error)
	ListAll(ctx context.Context) ([]models.LedgerEntry, error)
	// ListByAccount matches accountName exactly and returns an empty slice when nothing matches.
	ListByAccount(ctx context.Context, accountName string) ([]models.LedgerEntry, error)
	// CreateBulk stores all entries or none of them.
	CreateBulk(ctx context.Context, entries []models.LedgerEntry) (int, error)
	Close() error
}
