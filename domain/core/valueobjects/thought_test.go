package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewThought(t *testing.T) {
	thought := NewThought("MATCH (n) RETURN n", map[string]interface{}{"schema": "nodes"})

	assert.Equal(t, "MATCH (n) RETURN n", thought.Subquery)
	assert.Equal(t, NoParent, thought.Parent)
	assert.False(t, thought.HasParent())
}

func TestThoughtWithParent(t *testing.T) {
	first := NewThought("step one", nil)
	second := first.WithParent(0)

	assert.True(t, second.HasParent())
	assert.Equal(t, 0, second.Parent)

	// The original thought is untouched.
	assert.False(t, first.HasParent())
	assert.Equal(t, NoParent, first.Parent)
}

func TestQueryAndResponse(t *testing.T) {
	query := NewQuery("Who is Alice?")
	assert.Equal(t, "Who is Alice?", query.Text)
	assert.Equal(t, "Who is Alice?", query.String())

	response := NewResponse("Alice is a user.")
	assert.Equal(t, "Alice is a user.", response.Text)
	assert.Equal(t, "Alice is a user.", response.String())
}
