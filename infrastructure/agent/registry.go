package agent

import (
	"github.com/Midnighter/knowledge-chat/domain/service"
)

// NewRegistry returns a registry with all built-in response agents
// registered. Resolution by symbolic key happens once at startup.
func NewRegistry() *service.Registry {
	registry := service.NewRegistry()
	registry.Register(KShotAgentKey, func(graph service.KnowledgeGraph, model service.ChatModel) service.ResponseAgent {
		return NewKShotAgent(graph, model)
	})
	return registry
}
