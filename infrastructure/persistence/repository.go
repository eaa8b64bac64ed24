package persistence

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Midnighter/knowledge-chat/application/ports"
	"github.com/Midnighter/knowledge-chat/domain/events"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

// EventSourcedRepository implements the repository contract on top of any
// event store: save appends uncommitted events, get reconstructs state by
// replay. Committed events are forwarded to the event bus best effort.
type EventSourcedRepository struct {
	store  ports.EventStore
	bus    ports.EventBus
	logger *zap.Logger
}

// NewEventSourcedRepository creates a repository over the given store.
// The event bus may be nil.
func NewEventSourcedRepository(
	store ports.EventStore,
	bus ports.EventBus,
	logger *zap.Logger,
) *EventSourcedRepository {
	return &EventSourcedRepository{store: store, bus: bus, logger: logger}
}

// Save appends all uncommitted events of the given aggregates atomically.
func (r *EventSourcedRepository) Save(ctx context.Context, aggregates ...events.Aggregate) error {
	var stored []ports.StoredEvent
	for _, aggregate := range aggregates {
		for _, event := range aggregate.CollectEvents() {
			encoded, err := EncodeEvent(aggregate, event)
			if err != nil {
				return err
			}
			stored = append(stored, encoded)
		}
	}
	if len(stored) == 0 {
		return nil
	}

	if err := r.store.Append(ctx, stored); err != nil {
		return err
	}
	for _, aggregate := range aggregates {
		aggregate.MarkEventsCommitted()
	}

	if r.bus != nil {
		if err := r.bus.Publish(ctx, stored); err != nil {
			// The events are committed; publishing is not transactional.
			r.logger.Warn("failed to publish committed events", zap.Error(err))
		}
	}
	return nil
}

// Get reconstructs an aggregate by folding its event stream.
func (r *EventSourcedRepository) Get(ctx context.Context, id uuid.UUID) (events.Aggregate, error) {
	stored, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, kcerrors.NewAggregateNotFound(id.String())
	}

	history := make([]events.DomainEvent, 0, len(stored))
	for _, record := range stored {
		event, err := DecodeEvent(record)
		if err != nil {
			return nil, err
		}
		history = append(history, event)
	}
	return events.Replay(history)
}
