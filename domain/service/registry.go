package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Midnighter/knowledge-chat/domain/core/aggregates"
	"github.com/Midnighter/knowledge-chat/domain/core/valueobjects"
)

// KnowledgeGraph is the opaque handle to the external graph query engine.
// The domain core never constructs or inspects graph queries itself; the
// handle is passed through to the response agent.
type KnowledgeGraph interface {
	// Schema returns a textual description of the graph schema.
	Schema(ctx context.Context) (string, error)

	// Query runs a read query and returns the result rows.
	Query(ctx context.Context, query string) ([]map[string]interface{}, error)
}

// ChatModel is the narrow capability consumed from a language model.
type ChatModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generation is the outcome of one response agent invocation: the final
// response plus the ordered reasoning steps that produced it.
type Generation struct {
	Response valueobjects.Response
	Thoughts []valueobjects.Thought
}

// ResponseAgent generates a response to the open exchange of a
// conversation. A failure must leave the conversation untouched.
type ResponseAgent interface {
	Generate(ctx context.Context, conversation *aggregates.Conversation) (Generation, error)
}

// AgentFactory constructs a configured response agent from its external
// collaborators.
type AgentFactory func(graph KnowledgeGraph, model ChatModel) ResponseAgent

// Registry maps symbolic agent keys to factories. Implementations are
// registered at startup and resolved once, not per call.
type Registry struct {
	factories map[string]AgentFactory
}

// NewRegistry creates an empty agent registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]AgentFactory)}
}

// Register adds an agent factory under a symbolic key
func (r *Registry) Register(key string, factory AgentFactory) {
	r.factories[key] = factory
}

// Keys returns the registered agent keys, sorted
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.factories))
	for key := range r.factories {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Resolve returns a fully configured response agent for the given key
func (r *Registry) Resolve(key string, graph KnowledgeGraph, model ChatModel) (ResponseAgent, error) {
	factory, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("no response agent registered under %q (available: %v)", key, r.Keys())
	}
	return factory(graph, model), nil
}
