package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models/events"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/storage/memory"
)

// --- test doubles ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.EntryEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.EntryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type failingStore struct {
	*memory.MemoryLedgerStore
}

var errStoreDown = errors.New("store unavailable")

func (failingStore) ListByAccount(context.Context, string) ([]models.LedgerEntry, error) {
	return nil, errStoreDown
}

func entry(account, due, received, ref, date string) models.LedgerEntry {
	return models.LedgerEntry{
		AccountName:    account,
		AmountDue:      decimal.RequireFromString(due),
		AmountReceived: decimal.RequireFromString(received),
		Reference:      ref,
		Date:           models.MustParseDate(date),
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// --- tests ---

func TestCreateEntryAssignsID(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewMemoryLedgerStore(), WithIDGenerator(sequentialIDs()))

	in := entry("Acme", "1000", "400", "INV1", "2024-01-01")
	in.ID = "client-chosen"

	saved, err := l.CreateEntry(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "id-1", saved.ID)

	all, err := l.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, saved, all[0])
}

func TestCreateEntryRejectsMissingFields(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewMemoryLedgerStore())

	_, err := l.CreateEntry(ctx, entry("  ", "1", "0", "", "2024-01-01"))
	assert.ErrorIs(t, err, models.ErrInvalidEntry)

	noDate := entry("Acme", "1", "0", "", "2024-01-01")
	noDate.Date = models.Date{}
	_, err = l.CreateEntry(ctx, noDate)
	assert.ErrorIs(t, err, models.ErrInvalidEntry)

	all, err := l.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateEntryFullReplace(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewMemoryLedgerStore())

	saved, err := l.CreateEntry(ctx, entry("Acme", "1000", "400", "INV1", "2024-01-01"))
	require.NoError(t, err)

	next := entry("Acme", "900", "0", "", "2024-01-05")
	updated, err := l.UpdateEntry(ctx, saved.ID, next)
	require.NoError(t, err)
	assert.Equal(t, next.WithID(saved.ID), updated)

	got, err := l.GetEntry(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, next.WithID(saved.ID), got)
}

func TestUpdateEntryNotFound(t *testing.T) {
	l := NewLedger(memory.NewMemoryLedgerStore())

	_, err := l.UpdateEntry(context.Background(), "missing", entry("Acme", "1", "0", "", "2024-01-01"))
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestSummarizeAcmeScenario(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewMemoryLedgerStore())

	_, err := l.CreateEntry(ctx, entry("Acme", "1000", "400", "INV1", "2024-01-01"))
	require.NoError(t, err)
	_, err = l.CreateEntry(ctx, entry("Acme", "500", "500", "INV2", "2024-02-01"))
	require.NoError(t, err)
	_, err = l.CreateEntry(ctx, entry("Globex", "99", "1", "", "2024-02-01"))
	require.NoError(t, err)

	s, err := l.Summarize(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", s.AccountName)
	assert.True(t, s.TotalDue.Equal(decimal.NewFromInt(1500)), "totalDue %s", s.TotalDue)
	assert.True(t, s.TotalReceived.Equal(decimal.NewFromInt(900)), "totalReceived %s", s.TotalReceived)
	assert.True(t, s.Balance.Equal(decimal.NewFromInt(600)), "balance %s", s.Balance)
}

func TestSummarizeUnknownAccountIsZero(t *testing.T) {
	l := NewLedger(memory.NewMemoryLedgerStore())

	s, err := l.Summarize(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Equal(t, "Nobody", s.AccountName)
	assert.True(t, s.TotalDue.IsZero())
	assert.True(t, s.TotalReceived.IsZero())
	assert.True(t, s.Balance.IsZero())
}

func TestSummarizeIsRepeatable(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewMemoryLedgerStore())
	_, err := l.CreateEntry(ctx, entry("Acme", "10.10", "3.03", "", "2024-01-01"))
	require.NoError(t, err)

	first, err := l.Summarize(ctx, "Acme")
	require.NoError(t, err)
	second, err := l.Summarize(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, first.Balance.String(), second.Balance.String())
}

func TestSummarizeStoreError(t *testing.T) {
	l := NewLedger(failingStore{memory.NewMemoryLedgerStore()})

	_, err := l.Summarize(context.Background(), "Acme")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestAggregateIsExact(t *testing.T) {
	var entries []models.LedgerEntry
	for i := 0; i < 10; i++ {
		entries = append(entries, entry("Acme", "0.1", "0.2", "", "2024-01-01"))
	}

	s := Aggregate("Acme", entries)
	assert.Equal(t, "1", s.TotalDue.String())
	assert.Equal(t, "2", s.TotalReceived.String())
	assert.Equal(t, "-1", s.Balance.String())
}

func TestAggregateMatchesPerEntrySums(t *testing.T) {
	entries := []models.LedgerEntry{
		entry("Acme", "1000", "400", "", "2024-01-01"),
		entry("Acme", "-250.5", "0", "", "2024-01-02"),
		entry("Acme", "0", "125.25", "", "2024-01-03"),
	}

	s := Aggregate("Acme", entries)

	wantDue, wantReceived := decimal.Zero, decimal.Zero
	for _, e := range entries {
		wantDue = wantDue.Add(e.AmountDue)
		wantReceived = wantReceived.Add(e.AmountReceived)
	}
	assert.True(t, s.TotalDue.Equal(wantDue))
	assert.True(t, s.TotalReceived.Equal(wantReceived))
	assert.True(t, s.Balance.Equal(wantDue.Sub(wantReceived)))
}

func TestCreateEntriesBulk(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewMemoryLedgerStore())

	n, err := l.CreateEntries(ctx, []models.LedgerEntry{
		entry("Acme", "1000", "400", "INV1", "2024-01-01"),
		entry("Acme", "500", "500", "INV2", "2024-02-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := l.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotEqual(t, all[0].ID, all[1].ID)
}

func TestCreateEntriesRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewMemoryLedgerStore())

	_, err := l.CreateEntries(ctx, []models.LedgerEntry{
		entry("Acme", "1000", "400", "INV1", "2024-01-01"),
		entry("", "500", "500", "INV2", "2024-02-01"),
	})
	require.ErrorIs(t, err, models.ErrInvalidEntry)
	assert.Contains(t, err.Error(), "entry 1")

	all, err := l.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEventsArePublished(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	l := NewLedger(memory.NewMemoryLedgerStore(), WithPublisher(pub), WithIDGenerator(sequentialIDs()))

	saved, err := l.CreateEntry(ctx, entry("Acme", "1000", "400", "INV1", "2024-01-01"))
	require.NoError(t, err)
	_, err = l.UpdateEntry(ctx, saved.ID, entry("Acme", "1000", "1000", "INV1", "2024-01-01"))
	require.NoError(t, err)
	_, err = l.CreateEntries(ctx, []models.LedgerEntry{entry("Globex", "1", "0", "", "2024-01-01")})
	require.NoError(t, err)

	require.Len(t, pub.events, 3)
	assert.Equal(t, events.TypeEntryCreated, pub.events[0].Type)
	assert.Equal(t, "id-1", pub.events[0].EntryID)
	assert.Equal(t, "Acme", pub.events[0].AccountName)
	assert.Equal(t, events.TypeEntryUpdated, pub.events[1].Type)
	assert.Equal(t, events.TypeEntriesImported, pub.events[2].Type)
	assert.Equal(t, 1, pub.events[2].Count)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	l := NewLedger(memory.NewMemoryLedgerStore(), WithPublisher(pub))

	_, err := l.CreateEntry(ctx, entry("Acme", "1", "0", "", "2024-01-01"))
	require.NoError(t, err)

	all, err := l.ListEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNoEventOnFailedWrite(t *testing.T) {
	pub := &recordingPublisher{}
	l := NewLedger(memory.NewMemoryLedgerStore(), WithPublisher(pub))

	_, err := l.UpdateEntry(context.Background(), "missing", entry("Acme", "1", "0", "", "2024-01-01"))
	require.Error(t, err)
	assert.Empty(t, pub.events)
}
