package aggregates

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Midnighter/knowledge-chat/domain/events"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

// Persistence type names for the index aggregates.
const (
	UserIndexAggregateType         = "user_index"
	ConversationIndexAggregateType = "conversation_index"
	ChatIndexAggregateType         = "chat_index"
)

// The identity of an index entry is derived deterministically from its
// scope path with UUIDv5 over the URL namespace, so a lookup never needs a
// separate name-to-id table: derive the id, then get it from the
// repository. The entry itself is an ordinary event-sourced aggregate and
// inherits the same durability and versioning guarantees.

// DeriveUserIndexID returns the identity of a user index entry
func DeriveUserIndexID(userID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("/users/%s", userID)))
}

// DeriveConversationIndexID returns the identity of a conversation index
// entry
func DeriveConversationIndexID(userID, conversationID string) uuid.UUID {
	return uuid.NewSHA1(
		uuid.NameSpaceURL,
		[]byte(fmt.Sprintf("/users/%s/conversations/%s", userID, conversationID)),
	)
}

// DeriveChatIndexID returns the identity of a chat index entry
func DeriveChatIndexID(userID, chatID string) uuid.UUID {
	return uuid.NewSHA1(
		uuid.NameSpaceURL,
		[]byte(fmt.Sprintf("/users/%s/chats/%s", userID, chatID)),
	)
}

// UserIndex maps an external user id to the user's internal identity.
// Entries are created alongside the aggregate they reference and never
// change afterwards.
type UserIndex struct {
	BaseAggregate
	userID    string
	reference uuid.UUID
}

// NewUserIndex creates a user index entry
func NewUserIndex(userID string, reference uuid.UUID) *UserIndex {
	event := &UserIndexCreated{
		BaseEvent: events.BaseEvent{
			AggregateID: DeriveUserIndexID(userID),
			EventType:   "user_index.created",
			Timestamp:   time.Now().UTC(),
			Version:     1,
		},
		UserID:    userID,
		Reference: reference,
	}
	aggregate, _ := event.Mutate(nil)
	index := aggregate.(*UserIndex)
	index.pending = append(index.pending, event)
	return index
}

func (i *UserIndex) GetAggregateType() string { return UserIndexAggregateType }

// UserID returns the external user id this entry was derived from
func (i *UserIndex) UserID() string { return i.userID }

// Reference returns the internal identity of the referenced user
func (i *UserIndex) Reference() uuid.UUID { return i.reference }

// UserIndexCreated is the single event of a user index entry
type UserIndexCreated struct {
	events.BaseEvent
	UserID    string    `json:"user_id"`
	Reference uuid.UUID `json:"reference"`
}

// Mutate constructs the index entry from the no-state sentinel
func (e *UserIndexCreated) Mutate(aggregate events.Aggregate) (events.Aggregate, error) {
	if aggregate != nil {
		return nil, kcerrors.NewInvalidState("user index entry already exists")
	}
	return &UserIndex{
		BaseAggregate: BaseAggregate{id: e.AggregateID, version: e.Version},
		userID:        e.UserID,
		reference:     e.Reference,
	}, nil
}

// ConversationIndex maps an external (user id, conversation id) pair to
// the conversation's internal identity.
type ConversationIndex struct {
	BaseAggregate
	userID         string
	conversationID string
	reference      uuid.UUID
}

// NewConversationIndex creates a conversation index entry
func NewConversationIndex(userID, conversationID string, reference uuid.UUID) *ConversationIndex {
	event := &ConversationIndexCreated{
		BaseEvent: events.BaseEvent{
			AggregateID: DeriveConversationIndexID(userID, conversationID),
			EventType:   "conversation_index.created",
			Timestamp:   time.Now().UTC(),
			Version:     1,
		},
		UserID:         userID,
		ConversationID: conversationID,
		Reference:      reference,
	}
	aggregate, _ := event.Mutate(nil)
	index := aggregate.(*ConversationIndex)
	index.pending = append(index.pending, event)
	return index
}

func (i *ConversationIndex) GetAggregateType() string { return ConversationIndexAggregateType }

// UserID returns the external user id component of the scope path
func (i *ConversationIndex) UserID() string { return i.userID }

// ConversationID returns the external conversation id component
func (i *ConversationIndex) ConversationID() string { return i.conversationID }

// Reference returns the internal identity of the referenced conversation
func (i *ConversationIndex) Reference() uuid.UUID { return i.reference }

// ConversationIndexCreated is the single event of a conversation index
// entry
type ConversationIndexCreated struct {
	events.BaseEvent
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	Reference      uuid.UUID `json:"reference"`
}

// Mutate constructs the index entry from the no-state sentinel
func (e *ConversationIndexCreated) Mutate(aggregate events.Aggregate) (events.Aggregate, error) {
	if aggregate != nil {
		return nil, kcerrors.NewInvalidState("conversation index entry already exists")
	}
	return &ConversationIndex{
		BaseAggregate:  BaseAggregate{id: e.AggregateID, version: e.Version},
		userID:         e.UserID,
		conversationID: e.ConversationID,
		reference:      e.Reference,
	}, nil
}

// ChatIndex maps an external (user id, chat id) pair to an internal
// identity.
type ChatIndex struct {
	BaseAggregate
	userID    string
	chatID    string
	reference uuid.UUID
}

// NewChatIndex creates a chat index entry
func NewChatIndex(userID, chatID string, reference uuid.UUID) *ChatIndex {
	event := &ChatIndexCreated{
		BaseEvent: events.BaseEvent{
			AggregateID: DeriveChatIndexID(userID, chatID),
			EventType:   "chat_index.created",
			Timestamp:   time.Now().UTC(),
			Version:     1,
		},
		UserID:    userID,
		ChatID:    chatID,
		Reference: reference,
	}
	aggregate, _ := event.Mutate(nil)
	index := aggregate.(*ChatIndex)
	index.pending = append(index.pending, event)
	return index
}

func (i *ChatIndex) GetAggregateType() string { return ChatIndexAggregateType }

// UserID returns the external user id component of the scope path
func (i *ChatIndex) UserID() string { return i.userID }

// ChatID returns the external chat id component
func (i *ChatIndex) ChatID() string { return i.chatID }

// Reference returns the internal identity of the referenced aggregate
func (i *ChatIndex) Reference() uuid.UUID { return i.reference }

// ChatIndexCreated is the single event of a chat index entry
type ChatIndexCreated struct {
	events.BaseEvent
	UserID    string    `json:"user_id"`
	ChatID    string    `json:"chat_id"`
	Reference uuid.UUID `json:"reference"`
}

// Mutate constructs the index entry from the no-state sentinel
func (e *ChatIndexCreated) Mutate(aggregate events.Aggregate) (events.Aggregate, error) {
	if aggregate != nil {
		return nil, kcerrors.NewInvalidState("chat index entry already exists")
	}
	return &ChatIndex{
		BaseAggregate: BaseAggregate{id: e.AggregateID, version: e.Version},
		userID:        e.UserID,
		chatID:        e.ChatID,
		reference:     e.Reference,
	}, nil
}
