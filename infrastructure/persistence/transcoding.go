package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/Midnighter/knowledge-chat/application/ports"
	"github.com/Midnighter/knowledge-chat/domain/core/aggregates"
	"github.com/Midnighter/knowledge-chat/domain/events"
)

// eventFactories maps stored event type names to empty event instances.
// Every event type an aggregate can raise must be registered here, or
// replay of its stream will fail.
var eventFactories = map[string]func() events.DomainEvent{
	"user.created":               func() events.DomainEvent { return &aggregates.UserCreated{} },
	"user.conversation_added":    func() events.DomainEvent { return &aggregates.ConversationAdded{} },
	"conversation.started":       func() events.DomainEvent { return &aggregates.ConversationStarted{} },
	"conversation.query_raised":  func() events.DomainEvent { return &aggregates.QueryRaised{} },
	"conversation.thought_added": func() events.DomainEvent { return &aggregates.ThoughtAdded{} },
	"conversation.response_recorded": func() events.DomainEvent {
		return &aggregates.ResponseRecorded{}
	},
	"user_index.created":         func() events.DomainEvent { return &aggregates.UserIndexCreated{} },
	"conversation_index.created": func() events.DomainEvent { return &aggregates.ConversationIndexCreated{} },
	"chat_index.created":         func() events.DomainEvent { return &aggregates.ChatIndexCreated{} },
}

// EncodeEvent converts a domain event into its stored representation.
func EncodeEvent(aggregate events.Aggregate, event events.DomainEvent) (ports.StoredEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return ports.StoredEvent{}, fmt.Errorf("marshal %s event: %w", event.GetEventType(), err)
	}
	return ports.StoredEvent{
		AggregateID:   event.GetAggregateID(),
		AggregateType: aggregate.GetAggregateType(),
		EventType:     event.GetEventType(),
		Version:       event.GetVersion(),
		Timestamp:     event.GetTimestamp(),
		Data:          data,
	}, nil
}

// DecodeEvent converts a stored event back into its domain representation.
func DecodeEvent(stored ports.StoredEvent) (events.DomainEvent, error) {
	factory, ok := eventFactories[stored.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", stored.EventType)
	}
	event := factory()
	if err := json.Unmarshal(stored.Data, event); err != nil {
		return nil, fmt.Errorf("unmarshal %s event: %w", stored.EventType, err)
	}
	return event, nil
}
