package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	assert.Equal(t, []string{KShotAgentKey}, registry.Keys())

	resolved, err := registry.Resolve(KShotAgentKey, &fakeGraph{}, &fakeModel{})
	require.NoError(t, err)
	assert.IsType(t, &KShotAgent{}, resolved)

	_, err = registry.Resolve("unknown", &fakeGraph{}, &fakeModel{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}
