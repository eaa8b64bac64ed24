package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Midnighter/knowledge-chat/domain/core/valueobjects"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

func TestNewExchangeIsOpenAndEmpty(t *testing.T) {
	exchange := NewExchange(valueobjects.NewQuery("Who is Alice?"))

	assert.False(t, exchange.IsClosed())
	assert.Equal(t, "Who is Alice?", exchange.Query().Text)
	assert.Equal(t, 0, exchange.ThoughtCount())

	_, ok := exchange.LatestThought()
	assert.False(t, ok)

	_, ok = exchange.Response()
	assert.False(t, ok)
}

func TestExchangeThoughtChain(t *testing.T) {
	exchange := NewExchange(valueobjects.NewQuery("Who is Alice?"))

	require.NoError(t, exchange.AddThought(valueobjects.NewThought("s1", nil)))
	require.NoError(t, exchange.AddThought(valueobjects.NewThought("s2", nil)))
	require.NoError(t, exchange.AddThought(valueobjects.NewThought("s3", nil)))

	thoughts := exchange.Thoughts()
	require.Len(t, thoughts, 3)

	// The first thought has no predecessor; every later thought links to
	// the arena index of the one recorded just before it.
	assert.Equal(t, valueobjects.NoParent, thoughts[0].Parent)
	assert.Equal(t, 0, thoughts[1].Parent)
	assert.Equal(t, 1, thoughts[2].Parent)

	latest, ok := exchange.LatestThought()
	require.True(t, ok)
	assert.Equal(t, "s3", latest.Subquery)
}

func TestExchangeClose(t *testing.T) {
	exchange := NewExchange(valueobjects.NewQuery("Who is Alice?"))
	require.NoError(t, exchange.AddThought(valueobjects.NewThought("s1", nil)))

	require.NoError(t, exchange.Close(valueobjects.NewResponse("Alice is a user.")))
	assert.True(t, exchange.IsClosed())

	response, ok := exchange.Response()
	require.True(t, ok)
	assert.Equal(t, "Alice is a user.", response.Text)

	// A closed exchange is immutable but still readable.
	assert.Equal(t, 1, exchange.ThoughtCount())
	assert.Equal(t, "Who is Alice?", exchange.Query().Text)
}

func TestExchangeCloseWithoutThoughts(t *testing.T) {
	exchange := NewExchange(valueobjects.NewQuery("noop"))

	require.NoError(t, exchange.Close(valueobjects.NewResponse("done")))
	assert.True(t, exchange.IsClosed())
	assert.Equal(t, 0, exchange.ThoughtCount())
}

func TestExchangeAddThoughtAfterClose(t *testing.T) {
	exchange := NewExchange(valueobjects.NewQuery("Who is Alice?"))
	require.NoError(t, exchange.Close(valueobjects.NewResponse("Alice is a user.")))

	err := exchange.AddThought(valueobjects.NewThought("late", nil))
	require.Error(t, err)
	assert.True(t, kcerrors.IsInvalidState(err))
	assert.Equal(t, 0, exchange.ThoughtCount())
}

func TestExchangeDoubleClose(t *testing.T) {
	exchange := NewExchange(valueobjects.NewQuery("Who is Alice?"))
	require.NoError(t, exchange.Close(valueobjects.NewResponse("first")))

	err := exchange.Close(valueobjects.NewResponse("second"))
	require.Error(t, err)
	assert.True(t, kcerrors.IsInvalidState(err))

	response, ok := exchange.Response()
	require.True(t, ok)
	assert.Equal(t, "first", response.Text)
}

func TestExchangeThoughtsReturnsCopy(t *testing.T) {
	exchange := NewExchange(valueobjects.NewQuery("Who is Alice?"))
	require.NoError(t, exchange.AddThought(valueobjects.NewThought("s1", nil)))

	thoughts := exchange.Thoughts()
	thoughts[0].Subquery = "mutated"

	latest, ok := exchange.LatestThought()
	require.True(t, ok)
	assert.Equal(t, "s1", latest.Subquery)
}
