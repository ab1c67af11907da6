package postgres

import (
	"context"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/pkg/events"
	"github.com/anungis437/nzila-eexports-sub001/pkg/postgres"
)

// OutboxRepo implements events.OutboxRepository. Entries insert in the same
// transaction as the state change that produced them; the relay reads and
// marks them from a background loop.
type OutboxRepo struct {
	q postgres.Querier
}

// NewOutboxRepo creates a PostgreSQL-backed outbox repository.
func NewOutboxRepo(q postgres.Querier) *OutboxRepo {
	return &OutboxRepo{q: q}
}

// Store inserts a batch of outbox entries.
func (r *OutboxRepo) Store(ctx context.Context, entries []events.OutboxEntry) error {
	query := `
		INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO NOTHING
	`
	for _, e := range entries {
		_, err := r.q.Exec(ctx, query,
			e.ID, e.AggregateID, e.AggregateType, e.EventType, e.Payload, e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("store outbox entry %s: %w", e.ID, err)
		}
	}
	return nil
}

// FetchUnpublished returns up to batchSize unrelayed entries, oldest first.
// SKIP LOCKED lets multiple relay instances drain the table without
// stepping on each other.
func (r *OutboxRepo) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	query := `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := r.q.Query(ctx, query, batchSize)
	if err != nil {
		return nil, fmt.Errorf("fetch outbox: %w", err)
	}
	defer rows.Close()

	var entries []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkPublished stamps the given entries as relayed.
func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`UPDATE outbox SET published_at = now() WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
