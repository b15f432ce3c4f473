package vector

import (
	"fmt"

	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder embeds text through an OpenAI-compatible embeddings
// endpoint. Pointing BaseURL at a local server (Ollama, llama.cpp)
// works with the same client.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

var _ Embedder = (*OpenAIEmbedder)(nil)

// NewOpenAIEmbedder builds an embedder for the given endpoint. baseURL
// may be empty for the hosted API.
func NewOpenAIEmbedder(apiKey, baseURL, model string) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("vector: embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("vector: embeddings endpoint returned no data")
	}
	return resp.Data[0].Embedding, nil
}
