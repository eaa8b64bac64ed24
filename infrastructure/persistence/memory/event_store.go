package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Midnighter/knowledge-chat/application/ports"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

// EventStore is an in-memory append-only event log, used by tests and
// local runs. Appends are atomic across all events of one call.
type EventStore struct {
	mu      sync.RWMutex
	streams map[uuid.UUID]map[int]ports.StoredEvent
}

// NewEventStore creates an empty in-memory event store
func NewEventStore() *EventStore {
	return &EventStore{streams: make(map[uuid.UUID]map[int]ports.StoredEvent)}
}

// Append writes the events all or nothing, failing with a concurrency
// conflict when any version slot is already occupied.
func (s *EventStore) Append(ctx context.Context, stored []ports.StoredEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type slot struct {
		id      uuid.UUID
		version int
	}
	staged := make(map[slot]bool, len(stored))
	for _, event := range stored {
		key := slot{id: event.AggregateID, version: event.Version}
		if staged[key] {
			return kcerrors.NewConcurrencyConflict(event.AggregateID.String(), event.Version)
		}
		if _, occupied := s.streams[event.AggregateID][event.Version]; occupied {
			return kcerrors.NewConcurrencyConflict(event.AggregateID.String(), event.Version)
		}
		staged[key] = true
	}

	for _, event := range stored {
		stream, ok := s.streams[event.AggregateID]
		if !ok {
			stream = make(map[int]ports.StoredEvent)
			s.streams[event.AggregateID] = stream
		}
		stream[event.Version] = event
	}
	return nil
}

// Load returns the aggregate's events in version order. Unknown
// aggregates yield an empty slice.
func (s *EventStore) Load(ctx context.Context, aggregateID uuid.UUID) ([]ports.StoredEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream, ok := s.streams[aggregateID]
	if !ok {
		return nil, nil
	}
	loaded := make([]ports.StoredEvent, 0, len(stream))
	for version := 1; ; version++ {
		event, ok := stream[version]
		if !ok {
			break
		}
		loaded = append(loaded, event)
	}
	return loaded, nil
}
