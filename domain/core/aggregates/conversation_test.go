package aggregates

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Midnighter/knowledge-chat/domain/core/valueobjects"
	"github.com/Midnighter/knowledge-chat/domain/events"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

func TestNewConversation(t *testing.T) {
	owner := uuid.New()
	conversation := NewConversation(owner)

	assert.NotEqual(t, uuid.Nil, conversation.GetID())
	assert.Equal(t, 1, conversation.GetVersion())
	assert.Equal(t, ConversationAggregateType, conversation.GetAggregateType())
	assert.Equal(t, owner, conversation.UserReference())
	assert.Equal(t, 0, conversation.ExchangeCount())

	_, ok := conversation.LatestExchange()
	assert.False(t, ok)
	_, ok = conversation.LatestThought()
	assert.False(t, ok)
}

func TestConversationRaiseQuery(t *testing.T) {
	conversation := NewConversation(uuid.New())

	require.NoError(t, conversation.RaiseQuery(valueobjects.NewQuery("Who is Alice?")))
	assert.Equal(t, 1, conversation.ExchangeCount())

	exchange, ok := conversation.LatestExchange()
	require.True(t, ok)
	assert.False(t, exchange.IsClosed())
	assert.Equal(t, "Who is Alice?", exchange.Query().Text)
}

func TestConversationRaiseQueryWhileOpen(t *testing.T) {
	conversation := NewConversation(uuid.New())
	require.NoError(t, conversation.RaiseQuery(valueobjects.NewQuery("first")))

	err := conversation.RaiseQuery(valueobjects.NewQuery("second"))
	require.Error(t, err)
	assert.True(t, kcerrors.IsInvalidState(err))

	// The failed raise leaves no trace.
	assert.Equal(t, 1, conversation.ExchangeCount())
	assert.Equal(t, 2, conversation.GetVersion())
}

func TestConversationRaiseQueryAfterClose(t *testing.T) {
	conversation := NewConversation(uuid.New())
	require.NoError(t, conversation.RaiseQuery(valueobjects.NewQuery("first")))
	require.NoError(t, conversation.Respond(valueobjects.NewResponse("done")))

	require.NoError(t, conversation.RaiseQuery(valueobjects.NewQuery("second")))
	assert.Equal(t, 2, conversation.ExchangeCount())
}

func TestConversationAddThought(t *testing.T) {
	conversation := NewConversation(uuid.New())

	err := conversation.AddThought(valueobjects.NewThought("s1", nil))
	require.Error(t, err)
	assert.True(t, kcerrors.IsInvalidState(err))

	require.NoError(t, conversation.RaiseQuery(valueobjects.NewQuery("Who is Alice?")))
	require.NoError(t, conversation.AddThought(valueobjects.NewThought("s1", nil)))
	require.NoError(t, conversation.AddThought(valueobjects.NewThought("s2", nil)))

	latest, ok := conversation.LatestThought()
	require.True(t, ok)
	assert.Equal(t, "s2", latest.Subquery)
	assert.Equal(t, 0, latest.Parent)
}

func TestConversationRespond(t *testing.T) {
	conversation := NewConversation(uuid.New())

	err := conversation.Respond(valueobjects.NewResponse("nothing asked"))
	require.Error(t, err)
	assert.True(t, kcerrors.IsInvalidState(err))

	require.NoError(t, conversation.RaiseQuery(valueobjects.NewQuery("Who is Alice?")))
	require.NoError(t, conversation.Respond(valueobjects.NewResponse("Alice is a user.")))

	exchange, ok := conversation.LatestExchange()
	require.True(t, ok)
	assert.True(t, exchange.IsClosed())

	err = conversation.Respond(valueobjects.NewResponse("again"))
	require.Error(t, err)
	assert.True(t, kcerrors.IsInvalidState(err))

	err = conversation.AddThought(valueobjects.NewThought("late", nil))
	require.Error(t, err)
	assert.True(t, kcerrors.IsInvalidState(err))
}

// A conversation rebuilt from its own raised events must be
// indistinguishable from the live aggregate, including thought links.
func TestConversationReplayRoundTrip(t *testing.T) {
	conversation := NewConversation(uuid.New())
	require.NoError(t, conversation.RaiseQuery(valueobjects.NewQuery("Who is Alice?")))
	require.NoError(t, conversation.AddThought(valueobjects.NewThought("s1", map[string]interface{}{"k": "v"})))
	require.NoError(t, conversation.AddThought(valueobjects.NewThought("s2", nil)))
	require.NoError(t, conversation.Respond(valueobjects.NewResponse("Alice is a user.")))
	require.NoError(t, conversation.RaiseQuery(valueobjects.NewQuery("And Bob?")))

	replayed, err := events.Replay(conversation.CollectEvents())
	require.NoError(t, err)

	restored, ok := replayed.(*Conversation)
	require.True(t, ok)
	assert.Equal(t, conversation.GetID(), restored.GetID())
	assert.Equal(t, conversation.GetVersion(), restored.GetVersion())
	assert.Equal(t, conversation.UserReference(), restored.UserReference())
	require.Equal(t, 2, restored.ExchangeCount())

	first := restored.Exchanges()[0]
	assert.True(t, first.IsClosed())
	assert.Equal(t, "Who is Alice?", first.Query().Text)
	response, ok := first.Response()
	require.True(t, ok)
	assert.Equal(t, "Alice is a user.", response.Text)

	thoughts := first.Thoughts()
	require.Len(t, thoughts, 2)
	assert.Equal(t, valueobjects.NoParent, thoughts[0].Parent)
	assert.Equal(t, 0, thoughts[1].Parent)

	second := restored.Exchanges()[1]
	assert.False(t, second.IsClosed())
	assert.Equal(t, "And Bob?", second.Query().Text)
}

func TestConversationEventVersions(t *testing.T) {
	conversation := NewConversation(uuid.New())
	require.NoError(t, conversation.RaiseQuery(valueobjects.NewQuery("q")))
	require.NoError(t, conversation.AddThought(valueobjects.NewThought("s1", nil)))
	require.NoError(t, conversation.Respond(valueobjects.NewResponse("r")))

	pending := conversation.CollectEvents()
	require.Len(t, pending, 4)
	for i, event := range pending {
		assert.Equal(t, i+1, event.GetVersion())
		assert.Equal(t, conversation.GetID(), event.GetAggregateID())
	}
	assert.Equal(t, 4, conversation.GetVersion())
}
