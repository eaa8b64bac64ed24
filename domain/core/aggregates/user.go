package aggregates

import (
	"time"

	"github.com/google/uuid"

	"github.com/Midnighter/knowledge-chat/domain/events"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

// UserAggregateType is the stable persistence name for users.
const UserAggregateType = "user"

// User is the aggregate root for a chat user. Conversation references
// grow monotonically in chronological order; there is no removal.
type User struct {
	BaseAggregate
	name                   string
	email                  string
	conversationReferences []uuid.UUID
}

// NewUser creates a user and raises its creation event
func NewUser(name, email string) *User {
	event := &UserCreated{
		BaseEvent: events.BaseEvent{
			AggregateID: uuid.New(),
			EventType:   "user.created",
			Timestamp:   time.Now().UTC(),
			Version:     1,
		},
		Name:  name,
		Email: email,
	}
	aggregate, _ := event.Mutate(nil)
	user := aggregate.(*User)
	user.pending = append(user.pending, event)
	return user
}

// GetAggregateType returns the persistence type name
func (u *User) GetAggregateType() string {
	return UserAggregateType
}

// Name returns the user's name
func (u *User) Name() string {
	return u.name
}

// Email returns the user's email address
func (u *User) Email() string {
	return u.email
}

// ConversationReferences returns the conversation identities in the order
// they were added
func (u *User) ConversationReferences() []uuid.UUID {
	references := make([]uuid.UUID, len(u.conversationReferences))
	copy(references, u.conversationReferences)
	return references
}

// AddConversation appends a reference to a conversation this user is having
func (u *User) AddConversation(conversationReference uuid.UUID) error {
	return u.raise(u, &ConversationAdded{
		BaseEvent: events.BaseEvent{
			AggregateID: u.id,
			EventType:   "user.conversation_added",
			Timestamp:   time.Now().UTC(),
			Version:     u.nextVersion(),
		},
		ConversationReference: conversationReference,
	})
}

// UserCreated is raised once when a user is created
type UserCreated struct {
	events.BaseEvent
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Mutate constructs a new user from the no-state sentinel
func (e *UserCreated) Mutate(aggregate events.Aggregate) (events.Aggregate, error) {
	if aggregate != nil {
		return nil, kcerrors.NewInvalidState("user already exists")
	}
	return &User{
		BaseAggregate: BaseAggregate{id: e.AggregateID, version: e.Version},
		name:          e.Name,
		email:         e.Email,
	}, nil
}

// ConversationAdded is raised when a conversation reference is appended
type ConversationAdded struct {
	events.BaseEvent
	ConversationReference uuid.UUID `json:"conversation_reference"`
}

// Mutate appends the conversation reference
func (e *ConversationAdded) Mutate(aggregate events.Aggregate) (events.Aggregate, error) {
	user, ok := aggregate.(*User)
	if !ok {
		return nil, kcerrors.NewInvalidState("conversation added event requires a user")
	}
	user.conversationReferences = append(user.conversationReferences, e.ConversationReference)
	user.applyVersion(e)
	return user, nil
}
