package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Midnighter/knowledge-chat/domain/core/aggregates"
	"github.com/Midnighter/knowledge-chat/domain/core/valueobjects"
	"github.com/Midnighter/knowledge-chat/domain/service"
)

// KShotAgentKey is the registry key of the default response agent.
const KShotAgentKey = "kshot"

const cypherPrompt = `Task: generate a Cypher statement to query a graph database.
Instructions:
Use only the provided node labels, relationship types and properties in the schema.
Do not use any other labels, relationship types or properties.
Return only the Cypher statement, without explanation or formatting.

Schema:
%s

The question is:
%s`

const answerPrompt = `You are an assistant that forms nice and human
understandable answers from graph query results.
Answer the question based only on the provided information. If the
information is empty, say that you do not know the answer.

Information:
%s

Question: %s
Answer:`

// KShotAgent answers the open exchange of a conversation by translating
// the query into Cypher, running it against the knowledge graph and
// summarizing the results. It is called k-shot because the Cypher prompt
// may carry zero or more examples. Each generation yields exactly two
// reasoning steps: the generated subquery and the retrieved context.
type KShotAgent struct {
	graph service.KnowledgeGraph
	model service.ChatModel
}

// NewKShotAgent creates the default response agent
func NewKShotAgent(graph service.KnowledgeGraph, model service.ChatModel) *KShotAgent {
	return &KShotAgent{graph: graph, model: model}
}

// Generate produces a response plus the ordered reasoning steps
func (a *KShotAgent) Generate(
	ctx context.Context,
	conversation *aggregates.Conversation,
) (service.Generation, error) {
	exchange, ok := conversation.LatestExchange()
	if !ok || exchange.IsClosed() {
		return service.Generation{}, fmt.Errorf("no open exchange to respond to")
	}
	query := exchange.Query().Text

	schema, err := a.graph.Schema(ctx)
	if err != nil {
		return service.Generation{}, fmt.Errorf("fetch graph schema: %w", err)
	}

	cypher, err := a.model.Complete(ctx, fmt.Sprintf(cypherPrompt, schema, query))
	if err != nil {
		return service.Generation{}, fmt.Errorf("generate cypher: %w", err)
	}
	cypher = stripCodeFence(cypher)

	rows, err := a.graph.Query(ctx, cypher)
	if err != nil {
		return service.Generation{}, fmt.Errorf("run generated cypher: %w", err)
	}

	answer, err := a.model.Complete(ctx, fmt.Sprintf(answerPrompt, formatRows(rows), query))
	if err != nil {
		return service.Generation{}, fmt.Errorf("generate answer: %w", err)
	}

	return service.Generation{
		Response: valueobjects.NewResponse(strings.TrimSpace(answer)),
		Thoughts: []valueobjects.Thought{
			valueobjects.NewThought(cypher, map[string]interface{}{"schema": schema}),
			valueobjects.NewThought(cypher, map[string]interface{}{"context": rows}),
		},
	}, nil
}

// stripCodeFence removes a surrounding markdown code fence, which chat
// models add despite instructions.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if index := strings.Index(trimmed, "\n"); index >= 0 && !strings.Contains(trimmed[:index], " ") {
		// Drop a language tag such as "cypher".
		trimmed = trimmed[index+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func formatRows(rows []map[string]interface{}) string {
	if len(rows) == 0 {
		return "(no results)"
	}
	var formatted strings.Builder
	for _, row := range rows {
		formatted.WriteString(fmt.Sprintf("%v\n", row))
	}
	return formatted.String()
}
