// Package events holds publishers that do not need a broker.
package events

import (
	"context"

	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models/events"
)

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, events.EntryEvent) error { return nil }

func (Nop) Close() error { return nil }

var _ interfaces.EventPublisher = Nop{}
