package aggregates

import (
	"github.com/google/uuid"

	"github.com/Midnighter/knowledge-chat/domain/events"
)

// BaseAggregate provides identity, versioning and uncommitted event
// tracking for all aggregate roots.
type BaseAggregate struct {
	id      uuid.UUID
	version int
	pending []events.DomainEvent
}

// GetID returns the aggregate identity
func (a *BaseAggregate) GetID() uuid.UUID {
	return a.id
}

// GetVersion returns the number of events applied so far
func (a *BaseAggregate) GetVersion() int {
	return a.version
}

// CollectEvents returns events raised since the last save
func (a *BaseAggregate) CollectEvents() []events.DomainEvent {
	collected := make([]events.DomainEvent, len(a.pending))
	copy(collected, a.pending)
	return collected
}

// MarkEventsCommitted clears uncommitted events after persistence
func (a *BaseAggregate) MarkEventsCommitted() {
	a.pending = nil
}

// nextVersion returns the sequence number the next event will occupy.
func (a *BaseAggregate) nextVersion() int {
	return a.version + 1
}

// raise applies an event to the target aggregate and records it as
// uncommitted. State only ever changes through Mutate, so the in-memory
// aggregate always equals the fold of the events it has produced.
func (a *BaseAggregate) raise(target events.Aggregate, event events.DomainEvent) error {
	if _, err := event.Mutate(target); err != nil {
		return err
	}
	a.pending = append(a.pending, event)
	return nil
}

// applyVersion advances the aggregate to the event's sequence number.
func (a *BaseAggregate) applyVersion(event events.DomainEvent) {
	a.version = event.GetVersion()
}
