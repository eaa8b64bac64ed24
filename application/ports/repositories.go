package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Midnighter/knowledge-chat/domain/events"
)

// Repository reconstructs aggregates by replaying their events and appends
// new events with optimistic concurrency.
type Repository interface {
	// Save appends every uncommitted event of the given aggregates to the
	// event log, atomically across all of them. It fails with a
	// concurrency-conflict error when any aggregate changed since it was
	// loaded.
	Save(ctx context.Context, aggregates ...events.Aggregate) error

	// Get loads all events for the identity in sequence order and folds
	// them into the current aggregate state. It fails with a not-found
	// error when no events exist.
	Get(ctx context.Context, id uuid.UUID) (events.Aggregate, error)
}

// StoredEvent is the persistence representation of one domain event.
type StoredEvent struct {
	AggregateID   uuid.UUID
	AggregateType string
	EventType     string
	Version       int
	Timestamp     time.Time
	Data          []byte
}

// EventStore is the append-only per-aggregate event log. It is assumed
// durable and linearizable per aggregate key.
type EventStore interface {
	// Append writes the events atomically. It fails with a
	// concurrency-conflict error when any (aggregate id, version) slot is
	// already occupied; in that case none of the events are applied.
	Append(ctx context.Context, stored []StoredEvent) error

	// Load returns all events for the aggregate in version order. An
	// unknown aggregate yields an empty slice, not an error.
	Load(ctx context.Context, aggregateID uuid.UUID) ([]StoredEvent, error)
}

// EventBus receives committed events after a successful save, best
// effort. Publishing failures must not fail the save.
type EventBus interface {
	Publish(ctx context.Context, stored []StoredEvent) error
}
