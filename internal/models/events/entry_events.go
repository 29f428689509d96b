package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types published after successful ledger writes.
const (
	TypeEntryCreated    = "ledger.entry.created"
	TypeEntryUpdated    = "ledger.entry.updated"
	TypeEntriesImported = "ledger.entries.imported"
)

type EntryEvent struct {
	Type           string          `json:"type"`
	EntryID        string          `json:"entryId,omitempty"`
	AccountName    string          `json:"accountName,omitempty"`
	AmountDue      decimal.Decimal `json:"amountDue"`
	AmountReceived decimal.Decimal `json:"amountReceived"`
	Count          int             `json:"count,omitempty"` // set for bulk imports
	OccurredAt     time.Time       `json:"occurredAt"`
}

// Key is the partition key used when the event is published.
func (e EntryEvent) Key() string {
	if e.AccountName != "" {
		return e.AccountName
	}
	return e.Type
}
