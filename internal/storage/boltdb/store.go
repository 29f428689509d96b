// Package boltdb stores ledger entries as JSON documents in a bbolt file.
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

// Bucket names.
const (
	BucketEntries  = "ledger_entries" // sequence -> entry document
	BucketEntryIDs = "ledger_ids"     // entry id -> sequence
)

// BoltLedgerStore keeps entries keyed by an insertion sequence so that
// ListAll returns them in natural storage order.
type BoltLedgerStore struct {
	db *bolt.DB
}

// New opens (or creates) the database file and initializes buckets.
func New(dbPath string) (*BoltLedgerStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketEntries, BucketEntryIDs} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltLedgerStore{db: db}, nil
}

func (s *BoltLedgerStore) Close() error {
	return s.db.Close()
}

func (s *BoltLedgerStore) Create(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return insert(tx, entry)
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return entry, nil
}

func (s *BoltLedgerStore) Update(ctx context.Context, id string, entry models.LedgerEntry) (models.LedgerEntry, error) {
	entry.ID = id
	err := s.db.Update(func(tx *bolt.Tx) error {
		key := tx.Bucket([]byte(BucketEntryIDs)).Get([]byte(id))
		if key == nil {
			return interfaces.ErrNotFound
		}
		return put(tx.Bucket([]byte(BucketEntries)), key, entry)
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return entry, nil
}

func (s *BoltLedgerStore) Get(ctx context.Context, id string) (models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket([]byte(BucketEntryIDs)).Get([]byte(id))
		if key == nil {
			return interfaces.ErrNotFound
		}
		data := tx.Bucket([]byte(BucketEntries)).Get(key)
		if data == nil {
			return interfaces.ErrNotFound
		}
		return json.Unmarshal(data, &entry)
	})
	return entry, err
}

func (s *BoltLedgerStore) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	return s.list(nil)
}

func (s *BoltLedgerStore) ListByAccount(ctx context.Context, accountName string) ([]models.LedgerEntry, error) {
	return s.list(func(e models.LedgerEntry) bool { return e.AccountName == accountName })
}

// CreateBulk writes the batch in one transaction; any failure rolls it back.
func (s *BoltLedgerStore) CreateBulk(ctx context.Context, entries []models.LedgerEntry) (int, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for i, e := range entries {
			if err := insert(tx, e); err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *BoltLedgerStore) list(filter func(models.LedgerEntry) bool) ([]models.LedgerEntry, error) {
	results := make([]models.LedgerEntry, 0)

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketEntries)).ForEach(func(k, v []byte) error {
			var entry models.LedgerEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			if filter == nil || filter(entry) {
				results = append(results, entry)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func insert(tx *bolt.Tx, entry models.LedgerEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: missing id", models.ErrInvalidEntry)
	}
	ids := tx.Bucket([]byte(BucketEntryIDs))
	if ids.Get([]byte(entry.ID)) != nil {
		return fmt.Errorf("%w: duplicate id %s", models.ErrInvalidEntry, entry.ID)
	}

	entries := tx.Bucket([]byte(BucketEntries))
	seq, err := entries.NextSequence()
	if err != nil {
		return err
	}
	key := itob(seq)
	if err := ids.Put([]byte(entry.ID), key); err != nil {
		return err
	}
	return put(entries, key, entry)
}

func put(b *bolt.Bucket, key []byte, entry models.LedgerEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	return b.Put(key, data)
}

// itob converts a sequence to a big-endian key so keys sort in insertion order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

var _ interfaces.LedgerStore = (*BoltLedgerStore)(nil)
