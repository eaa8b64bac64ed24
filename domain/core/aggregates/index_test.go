package aggregates

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Midnighter/knowledge-chat/domain/events"
)

// Index identities are UUIDv5 over the URL namespace and must never
// drift: any change silently orphans every previously stored entry.
func TestDeriveIndexIDs(t *testing.T) {
	assert.Equal(t,
		uuid.MustParse("96d523fe-86e9-5681-a817-b8c058b2de3a"),
		DeriveUserIndexID("alice"),
	)
	assert.Equal(t,
		uuid.MustParse("fcc95d26-b138-54b3-bb13-a975135a5a0e"),
		DeriveUserIndexID("bob"),
	)
	assert.Equal(t,
		uuid.MustParse("8d223123-bd85-5423-9435-8839095d2620"),
		DeriveConversationIndexID("alice", "first"),
	)
	assert.Equal(t,
		uuid.MustParse("e54bd47d-1bde-53df-af75-04ad232a1e52"),
		DeriveChatIndexID("alice", "first"),
	)
}

func TestDeriveIndexIDsAreScoped(t *testing.T) {
	assert.NotEqual(t, DeriveUserIndexID("alice"), DeriveUserIndexID("bob"))
	assert.NotEqual(t,
		DeriveConversationIndexID("alice", "first"),
		DeriveConversationIndexID("bob", "first"),
	)
	assert.NotEqual(t,
		DeriveConversationIndexID("alice", "first"),
		DeriveChatIndexID("alice", "first"),
	)

	// Same input always derives the same identity.
	assert.Equal(t, DeriveUserIndexID("alice"), DeriveUserIndexID("alice"))
}

func TestNewUserIndex(t *testing.T) {
	reference := uuid.New()
	index := NewUserIndex("alice", reference)

	assert.Equal(t, DeriveUserIndexID("alice"), index.GetID())
	assert.Equal(t, 1, index.GetVersion())
	assert.Equal(t, UserIndexAggregateType, index.GetAggregateType())
	assert.Equal(t, "alice", index.UserID())
	assert.Equal(t, reference, index.Reference())

	pending := index.CollectEvents()
	require.Len(t, pending, 1)
	assert.Equal(t, "user_index.created", pending[0].GetEventType())
}

func TestNewConversationIndex(t *testing.T) {
	reference := uuid.New()
	index := NewConversationIndex("alice", "first", reference)

	assert.Equal(t, DeriveConversationIndexID("alice", "first"), index.GetID())
	assert.Equal(t, ConversationIndexAggregateType, index.GetAggregateType())
	assert.Equal(t, "alice", index.UserID())
	assert.Equal(t, "first", index.ConversationID())
	assert.Equal(t, reference, index.Reference())
}

func TestNewChatIndex(t *testing.T) {
	reference := uuid.New()
	index := NewChatIndex("alice", "first", reference)

	assert.Equal(t, DeriveChatIndexID("alice", "first"), index.GetID())
	assert.Equal(t, ChatIndexAggregateType, index.GetAggregateType())
	assert.Equal(t, "first", index.ChatID())
	assert.Equal(t, reference, index.Reference())
}

func TestUserIndexReplayRoundTrip(t *testing.T) {
	reference := uuid.New()
	index := NewUserIndex("alice", reference)

	replayed, err := events.Replay(index.CollectEvents())
	require.NoError(t, err)

	restored, ok := replayed.(*UserIndex)
	require.True(t, ok)
	assert.Equal(t, index.GetID(), restored.GetID())
	assert.Equal(t, "alice", restored.UserID())
	assert.Equal(t, reference, restored.Reference())
}
