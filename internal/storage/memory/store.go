package memory

import (
	"context" // request-scoped context, unused in memory but part of the store contract
	"sync"    // concurrency primitives like RWMutex

	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces" // interface LedgerStore
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"                // domain models: LedgerEntry
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// It keeps entries in insertion order and is safe for concurrent use.
type MemoryLedgerStore struct {
	mu      sync.RWMutex         // protects entries and index
	entries []models.LedgerEntry // slice that holds all ledger entries, in insertion order
	index   map[string]int       // entry id -> position in entries
}

// NewMemoryLedgerStore creates and returns a new MemoryLedgerStore instance
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		entries: make([]models.LedgerEntry, 0),
		index:   make(map[string]int),
	}
}

// Create appends the entry. The caller assigns the id.
func (m *MemoryLedgerStore) Create(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	m.mu.Lock()         // lock the mutex to prevent concurrent writes
	defer m.mu.Unlock() // unlock automatically when function exits

	m.index[entry.ID] = len(m.entries)
	m.entries = append(m.entries, entry)
	return entry, nil // always succeeds in memory
}

func (m *MemoryLedgerStore) Update(ctx context.Context, id string, entry models.LedgerEntry) (models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[id]
	if !ok {
		return models.LedgerEntry{}, interfaces.ErrNotFound
	}
	entry.ID = id
	m.entries[pos] = entry
	return entry, nil
}

func (m *MemoryLedgerStore) Get(ctx context.Context, id string) (models.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pos, ok := m.index[id]
	if !ok {
		return models.LedgerEntry{}, interfaces.ErrNotFound
	}
	return m.entries[pos], nil
}

// ListAll returns a copy of all ledger entries stored in memory.
func (m *MemoryLedgerStore) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	m.mu.RLock()         // lock to prevent concurrent modification while reading
	defer m.mu.RUnlock() // unlock automatically at the end

	copied := make([]models.LedgerEntry, len(m.entries))
	copy(copied, m.entries) // return a copy so external code can't modify internal state
	return copied, nil
}

func (m *MemoryLedgerStore) ListByAccount(ctx context.Context, accountName string) ([]models.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.LedgerEntry, 0)
	for _, e := range m.entries {
		if e.AccountName == accountName {
			result = append(result, e)
		}
	}
	return result, nil
}

// CreateBulk appends every entry under a single lock, so readers see all or none.
func (m *MemoryLedgerStore) CreateBulk(ctx context.Context, entries []models.LedgerEntry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		_, dup := m.index[e.ID]
		_, again := seen[e.ID]
		if e.ID == "" || dup || again {
			return 0, models.ErrInvalidEntry
		}
		seen[e.ID] = struct{}{}
	}
	for _, e := range entries {
		m.index[e.ID] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return len(entries), nil
}

func (m *MemoryLedgerStore) Close() error { return nil }

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
