package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiModel implements the chat-model capability with Gemini, either
// through Vertex AI or the Gemini API depending on configuration.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel creates a Gemini-backed chat model. When an API key is
// set the Gemini API backend is used, otherwise Vertex AI with the given
// project and location.
func NewGeminiModel(
	ctx context.Context,
	apiKey, project, location, model string,
) (*GeminiModel, error) {
	config := &genai.ClientConfig{}
	if apiKey != "" {
		config.APIKey = apiKey
		config.Backend = genai.BackendGeminiAPI
	} else {
		if project == "" || location == "" {
			return nil, fmt.Errorf("either an API key or a project and location are required")
		}
		config.Project = project
		config.Location = location
		config.Backend = genai.BackendVertexAI
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiModel{client: client, model: model}, nil
}

// Complete sends a single prompt and returns the model's text
func (m *GeminiModel) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.0)
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}

	result, err := m.client.Models.GenerateContent(
		ctx,
		m.model,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("model returned empty text")
	}
	return text, nil
}
