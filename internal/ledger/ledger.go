package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	eventspkg "github.com/sheikh-saqib/bookkeeping-ledger/internal/events"
	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models/events"
)

// Ledger is the main struct representing our ledger system.
// It validates entries, assigns ids and delegates persistence to the store.
// Writes are not serialized here: concurrent updates of one entry are
// last-writer-wins at the store.
type Ledger struct {
	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

type Option func(*Ledger)

// WithPublisher sends an event after every successful write.
func WithPublisher(p interfaces.EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithIDGenerator replaces uuid.New for entry ids.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// NewLedger creates a Ledger over any storage implementation (memory, bolt, SQL, mongo).
func NewLedger(store interfaces.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		publisher: eventspkg.Nop{},
		logger:    zap.NewNop(),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	return l
}

// CreateEntry validates the entry, assigns a new id and stores it.
func (l *Ledger) CreateEntry(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	if err := entry.Validate(); err != nil {
		return models.LedgerEntry{}, err
	}

	saved, err := l.store.Create(ctx, entry.WithID(l.newID()))
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("create entry: %w", err)
	}

	l.publish(ctx, entryEvent(events.TypeEntryCreated, saved, l.now()))
	return saved, nil
}

// UpdateEntry replaces every field of the entry at id with the supplied values.
func (l *Ledger) UpdateEntry(ctx context.Context, id string, entry models.LedgerEntry) (models.LedgerEntry, error) {
	if err := entry.Validate(); err != nil {
		return models.LedgerEntry{}, err
	}

	updated, err := l.store.Update(ctx, id, entry.WithID(id))
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("update entry %s: %w", id, err)
	}

	l.publish(ctx, entryEvent(events.TypeEntryUpdated, updated, l.now()))
	return updated, nil
}

func (l *Ledger) GetEntry(ctx context.Context, id string) (models.LedgerEntry, error) {
	entry, err := l.store.Get(ctx, id)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return entry, nil
}

func (l *Ledger) ListEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	entries, err := l.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (l *Ledger) ListEntriesByAccount(ctx context.Context, accountName string) ([]models.LedgerEntry, error) {
	entries, err := l.store.ListByAccount(ctx, accountName)
	if err != nil {
		return nil, fmt.Errorf("list entries for %q: %w", accountName, err)
	}
	return entries, nil
}

// CreateEntries inserts the batch atomically. A single invalid entry rejects
// the whole batch before anything reaches the store.
func (l *Ledger) CreateEntries(ctx context.Context, entries []models.LedgerEntry) (int, error) {
	batch := make([]models.LedgerEntry, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		batch[i] = e.WithID(l.newID())
	}

	n, err := l.store.CreateBulk(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("bulk insert: %w", err)
	}

	l.publish(ctx, events.EntryEvent{
		Type:       events.TypeEntriesImported,
		Count:      n,
		OccurredAt: l.now(),
	})
	return n, nil
}

// Summarize totals due and received over every entry of one account.
// An account without entries yields zero totals.
func (l *Ledger) Summarize(ctx context.Context, accountName string) (models.Summary, error) {
	entries, err := l.store.ListByAccount(ctx, accountName)
	if err != nil {
		return models.Summary{}, fmt.Errorf("summarize %q: %w", accountName, err)
	}
	return Aggregate(accountName, entries), nil
}

// Aggregate is the pure part of Summarize.
func Aggregate(accountName string, entries []models.LedgerEntry) models.Summary {
	totalDue := decimal.Zero
	totalReceived := decimal.Zero

	for _, e := range entries {
		totalDue = totalDue.Add(e.AmountDue)
		totalReceived = totalReceived.Add(e.AmountReceived)
	}

	return models.Summary{
		AccountName:   accountName,
		TotalDue:      totalDue,
		TotalReceived: totalReceived,
		Balance:       totalDue.Sub(totalReceived),
	}
}

// publish never fails the write that triggered it.
func (l *Ledger) publish(ctx context.Context, event events.EntryEvent) {
	if err := l.publisher.Publish(ctx, event); err != nil {
		l.logger.Warn("failed to publish ledger event",
			zap.String("type", event.Type),
			zap.String("entry_id", event.EntryID),
			zap.Error(err),
		)
	}
}

func entryEvent(eventType string, e models.LedgerEntry, at time.Time) events.EntryEvent {
	return events.EntryEvent{
		Type:           eventType,
		EntryID:        e.ID,
		AccountName:    e.AccountName,
		AmountDue:      e.AmountDue,
		AmountReceived: e.AmountReceived,
		OccurredAt:     at,
	}
}
