package events

import (
	"context"
	"encoding/json"
	"time"
)

// OutboxEntry represents a domain event stored in the outbox table. Entries
// are written in the same transaction as the state change that produced them
// and relayed to the broker asynchronously.
type OutboxEntry struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// NewOutboxEntry creates an OutboxEntry from a DomainEvent.
// The payload is produced by JSON-marshalling the event itself.
func NewOutboxEntry(event DomainEvent) OutboxEntry {
	payload, _ := json.Marshal(event)
	return OutboxEntry{
		ID:            event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		EventType:     event.EventType(),
		Payload:       payload,
		CreatedAt:     event.OccurredAt(),
		PublishedAt:   nil,
	}
}

// NewOutboxEntries converts a batch of domain events into outbox entries.
func NewOutboxEntries(evts []DomainEvent) []OutboxEntry {
	entries := make([]OutboxEntry, 0, len(evts))
	for _, e := range evts {
		entries = append(entries, NewOutboxEntry(e))
	}
	return entries
}

// OutboxRepository is the port for outbox persistence.
type OutboxRepository interface {
	Store(ctx context.Context, entries []OutboxEntry) error
	FetchUnpublished(ctx context.Context, batchSize int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []string) error
}

// Publisher publishes domain events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}
