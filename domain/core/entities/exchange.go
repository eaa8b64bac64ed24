package entities

import (
	"github.com/Midnighter/knowledge-chat/domain/core/valueobjects"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

// Exchange is one query, some number of reasoning thoughts, and at most
// one response within a conversation. An exchange is open until a
// response is recorded; a closed exchange is terminal and immutable.
type Exchange struct {
	query    valueobjects.Query
	thoughts []valueobjects.Thought
	response *valueobjects.Response
}

// NewExchange opens a new exchange with the given query
func NewExchange(query valueobjects.Query) *Exchange {
	return &Exchange{query: query}
}

// Query returns the query that opened the exchange
func (e *Exchange) Query() valueobjects.Query {
	return e.query
}

// IsClosed reports whether a response has been recorded
func (e *Exchange) IsClosed() bool {
	return e.response != nil
}

// Response returns the recorded response, if any
func (e *Exchange) Response() (valueobjects.Response, bool) {
	if e.response == nil {
		return valueobjects.Response{}, false
	}
	return *e.response, true
}

// Thoughts returns a copy of the thought arena in recording order
func (e *Exchange) Thoughts() []valueobjects.Thought {
	thoughts := make([]valueobjects.Thought, len(e.thoughts))
	copy(thoughts, e.thoughts)
	return thoughts
}

// ThoughtCount returns the number of recorded thoughts
func (e *Exchange) ThoughtCount() int {
	return len(e.thoughts)
}

// LatestThought returns the most recent thought, if any
func (e *Exchange) LatestThought() (valueobjects.Thought, bool) {
	if len(e.thoughts) == 0 {
		return valueobjects.Thought{}, false
	}
	return e.thoughts[len(e.thoughts)-1], true
}

// AddThought appends a thought to the open exchange, linking it to the
// current latest thought. Fails on a closed exchange.
func (e *Exchange) AddThought(thought valueobjects.Thought) error {
	if e.IsClosed() {
		return kcerrors.NewInvalidState("cannot add a thought to a closed exchange")
	}
	parent := valueobjects.NoParent
	if len(e.thoughts) > 0 {
		parent = len(e.thoughts) - 1
	}
	e.thoughts = append(e.thoughts, thought.WithParent(parent))
	return nil
}

// Close records the response and closes the exchange. Fails if the
// exchange is already closed. Closing with zero thoughts is legal; the
// caller decides whether that is worth a warning.
func (e *Exchange) Close(response valueobjects.Response) error {
	if e.IsClosed() {
		return kcerrors.NewInvalidState("exchange is already closed")
	}
	e.response = &response
	return nil
}
