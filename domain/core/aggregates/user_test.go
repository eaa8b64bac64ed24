package aggregates

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Midnighter/knowledge-chat/domain/events"
)

func TestNewUser(t *testing.T) {
	user := NewUser("Alice", "alice@example.com")

	assert.NotEqual(t, uuid.Nil, user.GetID())
	assert.Equal(t, 1, user.GetVersion())
	assert.Equal(t, UserAggregateType, user.GetAggregateType())
	assert.Equal(t, "Alice", user.Name())
	assert.Equal(t, "alice@example.com", user.Email())
	assert.Empty(t, user.ConversationReferences())

	pending := user.CollectEvents()
	require.Len(t, pending, 1)
	assert.Equal(t, "user.created", pending[0].GetEventType())
	assert.Equal(t, user.GetID(), pending[0].GetAggregateID())
	assert.Equal(t, 1, pending[0].GetVersion())
}

func TestUserAddConversation(t *testing.T) {
	user := NewUser("Alice", "alice@example.com")
	first := uuid.New()
	second := uuid.New()

	require.NoError(t, user.AddConversation(first))
	require.NoError(t, user.AddConversation(second))

	assert.Equal(t, 3, user.GetVersion())
	assert.Equal(t, []uuid.UUID{first, second}, user.ConversationReferences())

	pending := user.CollectEvents()
	require.Len(t, pending, 3)
	assert.Equal(t, "user.conversation_added", pending[1].GetEventType())
	assert.Equal(t, 2, pending[1].GetVersion())
	assert.Equal(t, 3, pending[2].GetVersion())
}

func TestUserMarkEventsCommitted(t *testing.T) {
	user := NewUser("Alice", "alice@example.com")
	require.NoError(t, user.AddConversation(uuid.New()))

	user.MarkEventsCommitted()
	assert.Empty(t, user.CollectEvents())

	// New events accumulate again after commit.
	require.NoError(t, user.AddConversation(uuid.New()))
	assert.Len(t, user.CollectEvents(), 1)
}

// Replaying everything a user has raised must reconstruct the exact
// in-memory state the live aggregate reached.
func TestUserReplayRoundTrip(t *testing.T) {
	user := NewUser("Alice", "alice@example.com")
	reference := uuid.New()
	require.NoError(t, user.AddConversation(reference))

	replayed, err := events.Replay(user.CollectEvents())
	require.NoError(t, err)

	restored, ok := replayed.(*User)
	require.True(t, ok)
	assert.Equal(t, user.GetID(), restored.GetID())
	assert.Equal(t, user.GetVersion(), restored.GetVersion())
	assert.Equal(t, user.Name(), restored.Name())
	assert.Equal(t, user.Email(), restored.Email())
	assert.Equal(t, user.ConversationReferences(), restored.ConversationReferences())
	assert.Empty(t, restored.CollectEvents())
}

func TestUserCreatedRequiresNoState(t *testing.T) {
	user := NewUser("Alice", "alice@example.com")
	created := user.CollectEvents()[0]

	_, err := created.Mutate(user)
	assert.Error(t, err)
}
