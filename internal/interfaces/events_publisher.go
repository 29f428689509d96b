package interfaces

import (
	"context"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.EntryEvent) error
	Close() error
}
