// Package storage picks a LedgerStore backend from a connection string.
package storage

import (
	"context"
	"fmt"
	"strings"

	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/storage/boltdb"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/storage/mongostore"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/storage/sqldb"
)

// Backend names reported by Kind.
const (
	KindMemory   = "memory"
	KindBolt     = "bolt"
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
	KindMongo    = "mongo"
)

// Kind returns the backend a connection string selects and the
// backend-specific remainder (file path, DSN or URI).
// A string without a scheme is treated as a bbolt file path.
func Kind(connString string) (kind, target string, err error) {
	connString = strings.TrimSpace(connString)
	scheme, rest, hasScheme := strings.Cut(connString, "://")
	if !hasScheme {
		if connString == "" {
			return "", "", fmt.Errorf("empty connection string")
		}
		return KindBolt, connString, nil
	}

	switch strings.ToLower(scheme) {
	case "memory", "mem":
		return KindMemory, "", nil
	case "bolt", "bbolt":
		return KindBolt, rest, nil
	case "postgres", "postgresql":
		return KindPostgres, connString, nil
	case "sqlite", "sqlite3":
		return KindSQLite, rest, nil
	case "mongodb", "mongodb+srv":
		return KindMongo, connString, nil
	default:
		return "", "", fmt.Errorf("unsupported storage scheme %q", scheme)
	}
}

// Open connects to the store named by connString.
func Open(ctx context.Context, connString string) (interfaces.LedgerStore, error) {
	kind, target, err := Kind(connString)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindMemory:
		return memory.NewMemoryLedgerStore(), nil
	case KindBolt:
		return boltdb.New(target)
	case KindPostgres:
		return sqldb.OpenPostgres(ctx, target)
	case KindSQLite:
		return sqldb.OpenSQLite(ctx, target)
	case KindMongo:
		return mongostore.Open(ctx, target)
	}
	return nil, fmt.Errorf("unsupported storage kind %q", kind)
}
