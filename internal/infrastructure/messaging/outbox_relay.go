package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/anungis437/nzila-eexports-sub001/pkg/events"
	"github.com/anungis437/nzila-eexports-sub001/pkg/kafka"
)

// OutboxRelay drains the transactional outbox into Kafka. It polls on a
// fixed interval, publishes each batch, and marks entries published only
// after the broker acknowledged them. Delivery is therefore at-least-once;
// consumers must tolerate duplicates.
type OutboxRelay struct {
	outbox   events.OutboxRepository
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger

	interval  time.Duration
	batchSize int
}

// NewOutboxRelay creates a relay draining the outbox into the given topic.
func NewOutboxRelay(outbox events.OutboxRepository, producer *kafka.Producer, topic string, logger *slog.Logger) *OutboxRelay {
	return &OutboxRelay{
		outbox:    outbox,
		producer:  producer,
		topic:     topic,
		logger:    logger,
		interval:  2 * time.Second,
		batchSize: 100,
	}
}

// Run polls until the context is canceled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("outbox relay starting", "topic", r.topic, "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopping")
			return
		case <-ticker.C:
			if err := r.drainOnce(ctx); err != nil {
				r.logger.Error("outbox relay pass failed", "error", err)
			}
		}
	}
}

func (r *OutboxRelay) drainOnce(ctx context.Context) error {
	for {
		entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		messages := make([]kafka.Message, 0, len(entries))
		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			messages = append(messages, kafka.Message{
				Key:   []byte(e.AggregateID),
				Value: e.Payload,
				Headers: map[string]string{
					"event_type":     e.EventType,
					"aggregate_type": e.AggregateType,
				},
			})
			ids = append(ids, e.ID)
		}

		if err := r.producer.Publish(ctx, r.topic, messages...); err != nil {
			return err
		}
		if err := r.outbox.MarkPublished(ctx, ids); err != nil {
			return err
		}

		r.logger.Debug("outbox batch relayed", "count", len(entries))
		if len(entries) < r.batchSize {
			return nil
		}
	}
}
