package aggregates

import (
	"time"

	"github.com/google/uuid"

	"github.com/Midnighter/knowledge-chat/domain/core/entities"
	"github.com/Midnighter/knowledge-chat/domain/core/valueobjects"
	"github.com/Midnighter/knowledge-chat/domain/events"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

// ConversationAggregateType is the stable persistence name for
// conversations.
const ConversationAggregateType = "conversation"

// Conversation is the aggregate root for one user's dialogue. It owns an
// append-only sequence of exchanges and enforces that at most one exchange
// is open at a time.
type Conversation struct {
	BaseAggregate
	userReference uuid.UUID
	exchanges     []*entities.Exchange
}

// NewConversation starts a conversation owned by the referenced user
func NewConversation(userReference uuid.UUID) *Conversation {
	event := &ConversationStarted{
		BaseEvent: events.BaseEvent{
			AggregateID: uuid.New(),
			EventType:   "conversation.started",
			Timestamp:   time.Now().UTC(),
			Version:     1,
		},
		UserReference: userReference,
	}
	aggregate, _ := event.Mutate(nil)
	conversation := aggregate.(*Conversation)
	conversation.pending = append(conversation.pending, event)
	return conversation
}

// GetAggregateType returns the persistence type name
func (c *Conversation) GetAggregateType() string {
	return ConversationAggregateType
}

// UserReference returns the identity of the owning user
func (c *Conversation) UserReference() uuid.UUID {
	return c.userReference
}

// ExchangeCount returns the number of exchanges, open or closed
func (c *Conversation) ExchangeCount() int {
	return len(c.exchanges)
}

// Exchanges returns the exchanges in chronological order. The returned
// slice is a copy; the exchanges themselves are read through accessors.
func (c *Conversation) Exchanges() []*entities.Exchange {
	exchanges := make([]*entities.Exchange, len(c.exchanges))
	copy(exchanges, c.exchanges)
	return exchanges
}

// LatestExchange returns the most recent exchange, if any
func (c *Conversation) LatestExchange() (*entities.Exchange, bool) {
	if len(c.exchanges) == 0 {
		return nil, false
	}
	return c.exchanges[len(c.exchanges)-1], true
}

// LatestThought returns the most recent thought of the latest exchange
func (c *Conversation) LatestThought() (valueobjects.Thought, bool) {
	exchange, ok := c.LatestExchange()
	if !ok {
		return valueobjects.Thought{}, false
	}
	return exchange.LatestThought()
}

// RaiseQuery opens a new exchange. Only one exchange may be in flight:
// raising a query while the latest exchange is still open fails.
func (c *Conversation) RaiseQuery(query valueobjects.Query) error {
	if exchange, ok := c.LatestExchange(); ok && !exchange.IsClosed() {
		return kcerrors.NewInvalidState("an exchange is already open in this conversation")
	}
	return c.raise(c, &QueryRaised{
		BaseEvent: events.BaseEvent{
			AggregateID: c.id,
			EventType:   "conversation.query_raised",
			Timestamp:   time.Now().UTC(),
			Version:     c.nextVersion(),
		},
		Text: query.Text,
	})
}

// AddThought records a reasoning step on the open latest exchange
func (c *Conversation) AddThought(thought valueobjects.Thought) error {
	exchange, ok := c.LatestExchange()
	if !ok {
		return kcerrors.NewInvalidState("no exchange to add a thought to")
	}
	if exchange.IsClosed() {
		return kcerrors.NewInvalidState("the latest exchange is closed")
	}
	return c.raise(c, &ThoughtAdded{
		BaseEvent: events.BaseEvent{
			AggregateID: c.id,
			EventType:   "conversation.thought_added",
			Timestamp:   time.Now().UTC(),
			Version:     c.nextVersion(),
		},
		Subquery: thought.Subquery,
		Context:  thought.Context,
	})
}

// Respond closes the open latest exchange with a response
func (c *Conversation) Respond(response valueobjects.Response) error {
	exchange, ok := c.LatestExchange()
	if !ok {
		return kcerrors.NewInvalidState("no exchange to respond to")
	}
	if exchange.IsClosed() {
		return kcerrors.NewInvalidState("the latest exchange is already closed")
	}
	return c.raise(c, &ResponseRecorded{
		BaseEvent: events.BaseEvent{
			AggregateID: c.id,
			EventType:   "conversation.response_recorded",
			Timestamp:   time.Now().UTC(),
			Version:     c.nextVersion(),
		},
		Text: response.Text,
	})
}

// ConversationStarted is raised once when a conversation is created
type ConversationStarted struct {
	events.BaseEvent
	UserReference uuid.UUID `json:"user_reference"`
}

// Mutate constructs a new conversation from the no-state sentinel
func (e *ConversationStarted) Mutate(aggregate events.Aggregate) (events.Aggregate, error) {
	if aggregate != nil {
		return nil, kcerrors.NewInvalidState("conversation already exists")
	}
	return &Conversation{
		BaseAggregate: BaseAggregate{id: e.AggregateID, version: e.Version},
		userReference: e.UserReference,
	}, nil
}

// QueryRaised is raised when a new exchange is opened
type QueryRaised struct {
	events.BaseEvent
	Text string `json:"text"`
}

// Mutate appends a fresh open exchange
func (e *QueryRaised) Mutate(aggregate events.Aggregate) (events.Aggregate, error) {
	conversation, ok := aggregate.(*Conversation)
	if !ok {
		return nil, kcerrors.NewInvalidState("query raised event requires a conversation")
	}
	conversation.exchanges = append(
		conversation.exchanges,
		entities.NewExchange(valueobjects.NewQuery(e.Text)),
	)
	conversation.applyVersion(e)
	return conversation, nil
}

// ThoughtAdded is raised when a reasoning step is recorded. The thought's
// predecessor link is derived from the exchange's arena at apply time, so
// the chain is reproduced exactly on replay.
type ThoughtAdded struct {
	events.BaseEvent
	Subquery string      `json:"subquery"`
	Context  interface{} `json:"context"`
}

// Mutate appends the thought to the latest exchange
func (e *ThoughtAdded) Mutate(aggregate events.Aggregate) (events.Aggregate, error) {
	conversation, ok := aggregate.(*Conversation)
	if !ok {
		return nil, kcerrors.NewInvalidState("thought added event requires a conversation")
	}
	exchange, ok := conversation.LatestExchange()
	if !ok {
		return nil, kcerrors.NewInvalidState("no exchange to add a thought to")
	}
	if err := exchange.AddThought(valueobjects.NewThought(e.Subquery, e.Context)); err != nil {
		return nil, err
	}
	conversation.applyVersion(e)
	return conversation, nil
}

// ResponseRecorded is raised when the open exchange is closed
type ResponseRecorded struct {
	events.BaseEvent
	Text string `json:"text"`
}

// Mutate closes the latest exchange
func (e *ResponseRecorded) Mutate(aggregate events.Aggregate) (events.Aggregate, error) {
	conversation, ok := aggregate.(*Conversation)
	if !ok {
		return nil, kcerrors.NewInvalidState("response recorded event requires a conversation")
	}
	exchange, ok := conversation.LatestExchange()
	if !ok {
		return nil, kcerrors.NewInvalidState("no exchange to respond to")
	}
	if err := exchange.Close(valueobjects.NewResponse(e.Text)); err != nil {
		return nil, err
	}
	conversation.applyVersion(e)
	return conversation, nil
}
