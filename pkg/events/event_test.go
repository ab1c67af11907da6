package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewBaseEvent("deal.fully_paid", "deal-001", "Deal", at)

	assert.NotEmpty(t, e.EventID())
	assert.Equal(t, "deal.fully_paid", e.EventType())
	assert.Equal(t, "deal-001", e.AggregateID())
	assert.Equal(t, "Deal", e.AggregateType())
	assert.Equal(t, at, e.OccurredAt())
}

func TestCollector(t *testing.T) {
	var c Collector
	at := time.Now().UTC()

	c.Record(NewBaseEvent("a", "1", "Deal", at))
	c.Record(NewBaseEvent("b", "1", "Deal", at))
	require.Len(t, c.Events(), 2)

	drained := c.ClearEvents()
	assert.Len(t, drained, 2)
	assert.Empty(t, c.Events())
}

func TestNewOutboxEntry(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewBaseEvent("commission.created", "comm-001", "Commission", at)

	entry := NewOutboxEntry(e)
	assert.Equal(t, e.EventID(), entry.ID)
	assert.Equal(t, "comm-001", entry.AggregateID)
	assert.Equal(t, "Commission", entry.AggregateType)
	assert.Equal(t, "commission.created", entry.EventType)
	assert.Equal(t, at, entry.CreatedAt)
	assert.Nil(t, entry.PublishedAt)
}
