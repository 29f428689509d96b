// Package storetest is a conformance suite every LedgerStore backend runs.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

// Factory returns an empty store. The suite closes it.
type Factory func(t *testing.T) interfaces.LedgerStore

// Entry builds an entry with a fresh id.
func Entry(account string, due, received string, ref string, date string) models.LedgerEntry {
	return models.LedgerEntry{
		ID:             uuid.New().String(),
		AccountName:    account,
		AmountDue:      decimal.RequireFromString(due),
		AmountReceived: decimal.RequireFromString(received),
		Reference:      ref,
		Date:           models.MustParseDate(date),
	}
}

// AssertEntryEqual compares amounts by value rather than by representation.
func AssertEntryEqual(t *testing.T, want, got models.LedgerEntry) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID, "id")
	assert.Equal(t, want.AccountName, got.AccountName, "accountName")
	assert.True(t, want.AmountDue.Equal(got.AmountDue), "amountDue: want %s got %s", want.AmountDue, got.AmountDue)
	assert.True(t, want.AmountReceived.Equal(got.AmountReceived), "amountReceived: want %s got %s", want.AmountReceived, got.AmountReceived)
	assert.Equal(t, want.Reference, got.Reference, "reference")
	assert.Equal(t, want.Date.String(), got.Date.String(), "date")
}

// Run executes the suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s interfaces.LedgerStore)
	}{
		{"CreateThenListAll", testCreateThenListAll},
		{"GetMissing", testGetMissing},
		{"UpdateReplacesAllFields", testUpdateReplacesAllFields},
		{"UpdateMissing", testUpdateMissing},
		{"ListByAccountExactMatch", testListByAccountExactMatch},
		{"ListByAccountEmpty", testListByAccountEmpty},
		{"ListAllKeepsInsertionOrder", testListAllKeepsInsertionOrder},
		{"CreateBulk", testCreateBulk},
		{"CreateBulkIsAtomic", testCreateBulkIsAtomic},
		{"DecimalPrecision", testDecimalPrecision},
		{"ConcurrentUpdatesLastWriterWins", testConcurrentUpdatesLastWriterWins},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.fn(t, s)
		})
	}
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

func testCreateThenListAll(t *testing.T, s interfaces.LedgerStore) {
	e := Entry("Acme", "1000", "400", "INV1", "2024-01-01")

	saved, err := s.Create(ctx(t), e)
	require.NoError(t, err)
	AssertEntryEqual(t, e, saved)

	all, err := s.ListAll(ctx(t))
	require.NoError(t, err)
	require.Len(t, all, 1)
	AssertEntryEqual(t, e, all[0])
}

func testGetMissing(t *testing.T, s interfaces.LedgerStore) {
	_, err := s.Get(ctx(t), uuid.New().String())
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func testUpdateReplacesAllFields(t *testing.T, s interfaces.LedgerStore) {
	orig := Entry("Acme", "1000", "400", "INV1", "2024-01-01")
	_, err := s.Create(ctx(t), orig)
	require.NoError(t, err)

	replacement := models.LedgerEntry{
		AccountName:    "Globex",
		AmountDue:      decimal.RequireFromString("250"),
		AmountReceived: decimal.Zero,
		Date:           models.MustParseDate("2024-03-15"),
	}
	updated, err := s.Update(ctx(t), orig.ID, replacement)
	require.NoError(t, err)

	want := replacement.WithID(orig.ID)
	AssertEntryEqual(t, want, updated)

	got, err := s.Get(ctx(t), orig.ID)
	require.NoError(t, err)
	AssertEntryEqual(t, want, got)
	assert.Empty(t, got.Reference, "full replace clears fields left out")

	all, err := s.ListAll(ctx(t))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testUpdateMissing(t *testing.T, s interfaces.LedgerStore) {
	e := Entry("Acme", "1", "0", "", "2024-01-01")
	_, err := s.Update(ctx(t), e.ID, e)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	all, err := s.ListAll(ctx(t))
	require.NoError(t, err)
	assert.Empty(t, all, "update of a missing id must not insert")
}

func testListByAccountExactMatch(t *testing.T, s interfaces.LedgerStore) {
	match := Entry("Acme", "10", "0", "", "2024-01-01")
	for _, e := range []models.LedgerEntry{
		match,
		Entry("acme", "20", "0", "", "2024-01-01"),
		Entry("Acme ", "30", "0", "", "2024-01-01"),
		Entry("Globex", "40", "0", "", "2024-01-01"),
	} {
		_, err := s.Create(ctx(t), e)
		require.NoError(t, err)
	}

	got, err := s.ListByAccount(ctx(t), "Acme")
	require.NoError(t, err)
	require.Len(t, got, 1)
	AssertEntryEqual(t, match, got[0])
}

func testListByAccountEmpty(t *testing.T, s interfaces.LedgerStore) {
	got, err := s.ListByAccount(ctx(t), "Nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func testListAllKeepsInsertionOrder(t *testing.T, s interfaces.LedgerStore) {
	var want []models.LedgerEntry
	for i := 0; i < 5; i++ {
		e := Entry(fmt.Sprintf("acct-%d", i), "1", "0", "", "2024-01-01")
		_, err := s.Create(ctx(t), e)
		require.NoError(t, err)
		want = append(want, e)
	}

	got, err := s.ListAll(ctx(t))
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID, "position %d", i)
	}
}

func testCreateBulk(t *testing.T, s interfaces.LedgerStore) {
	_, err := s.Create(ctx(t), Entry("Acme", "1", "0", "", "2024-01-01"))
	require.NoError(t, err)

	batch := []models.LedgerEntry{
		Entry("Acme", "1000", "400", "INV1", "2024-01-01"),
		Entry("Acme", "500", "500", "INV2", "2024-02-01"),
		Entry("Globex", "75", "25", "", "2024-02-03"),
	}
	n, err := s.CreateBulk(ctx(t), batch)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := s.ListAll(ctx(t))
	require.NoError(t, err)
	assert.Len(t, all, 4)

	acme, err := s.ListByAccount(ctx(t), "Acme")
	require.NoError(t, err)
	assert.Len(t, acme, 3)
}

func testCreateBulkIsAtomic(t *testing.T, s interfaces.LedgerStore) {
	existing := Entry("Acme", "1", "0", "", "2024-01-01")
	_, err := s.Create(ctx(t), existing)
	require.NoError(t, err)

	// the third entry reuses a stored id, so the batch cannot be inserted
	batch := []models.LedgerEntry{
		Entry("Acme", "10", "0", "", "2024-01-02"),
		Entry("Acme", "20", "0", "", "2024-01-03"),
		existing,
	}
	n, err := s.CreateBulk(ctx(t), batch)
	require.Error(t, err)
	assert.Zero(t, n)

	all, err := s.ListAll(ctx(t))
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, existing.ID, all[0].ID)
}

func testDecimalPrecision(t *testing.T, s interfaces.LedgerStore) {
	e := Entry("Acme", "12345678901234567.89", "0.1", "", "2024-01-01")
	_, err := s.Create(ctx(t), e)
	require.NoError(t, err)

	got, err := s.Get(ctx(t), e.ID)
	require.NoError(t, err)
	AssertEntryEqual(t, e, got)
}

// Concurrent full replaces of one id leave exactly one entry holding one
// writer's complete values, never a mix.
func testConcurrentUpdatesLastWriterWins(t *testing.T, s interfaces.LedgerStore) {
	c := ctx(t)
	orig := Entry("Acme", "0", "0", "", "2024-01-01")
	_, err := s.Create(c, orig)
	require.NoError(t, err)

	const writers = 8
	written := make(map[string]models.LedgerEntry, writers)
	for i := 0; i < writers; i++ {
		e := Entry("Acme", fmt.Sprintf("%d", 100+i), fmt.Sprintf("%d", i), fmt.Sprintf("W%d", i), "2024-01-02")
		e.ID = orig.ID
		written[e.Reference] = e
	}

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for _, e := range written {
		wg.Add(1)
		go func(e models.LedgerEntry) {
			defer wg.Done()
			if _, err := s.Update(c, e.ID, e); err != nil {
				errs <- err
			}
		}(e)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := s.ListAll(c)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := s.Get(c, orig.ID)
	require.NoError(t, err)
	want, ok := written[got.Reference]
	require.True(t, ok, "reference %q was not written by any update", got.Reference)
	AssertEntryEqual(t, want, got)
}
