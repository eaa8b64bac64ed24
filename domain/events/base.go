package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past; replaying an
// aggregate's ordered events reconstructs its current state.
type DomainEvent interface {
	GetAggregateID() uuid.UUID
	GetEventType() string
	GetTimestamp() time.Time
	// GetVersion returns the aggregate sequence number this event occupies.
	GetVersion() int

	// Mutate applies the event to an aggregate and returns the result.
	// Creation events must be applied to the nil sentinel and return a new
	// aggregate; all other events require an existing aggregate of the
	// matching type.
	Mutate(aggregate Aggregate) (Aggregate, error)
}

// Aggregate is the root of an event-sourced consistency boundary. All
// state is derived from the aggregate's own ordered event history.
type Aggregate interface {
	// GetID returns the unique identifier of the aggregate.
	GetID() uuid.UUID

	// GetVersion returns the number of events applied so far, used for
	// optimistic concurrency at save time.
	GetVersion() int

	// GetAggregateType returns a stable type name used by persistence.
	GetAggregateType() string

	// CollectEvents returns events raised since the last save.
	CollectEvents() []DomainEvent

	// MarkEventsCommitted clears collected events after persistence.
	MarkEventsCommitted()
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	AggregateID uuid.UUID `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() uuid.UUID { return e.AggregateID }
func (e BaseEvent) GetEventType() string      { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time   { return e.Timestamp }
func (e BaseEvent) GetVersion() int           { return e.Version }

// Replay folds an ordered event sequence starting from the no-state
// sentinel and returns the reconstructed aggregate.
func Replay(history []DomainEvent) (Aggregate, error) {
	var aggregate Aggregate
	for _, event := range history {
		next, err := event.Mutate(aggregate)
		if err != nil {
			return nil, err
		}
		aggregate = next
	}
	return aggregate, nil
}
