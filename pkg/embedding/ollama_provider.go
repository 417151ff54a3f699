package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// DefaultOllamaModel is a multilingual sentence encoder, so Indic FAQ text
// and English queries land in the same space.
const DefaultOllamaModel = "paraphrase-multilingual"

// OllamaProvider implements EmbeddingProvider for local Ollama models
type OllamaProvider struct {
	client     *api.Client
	model      string
	maxRetries int
}

func NewOllamaProvider(baseURL string, model string) (EmbeddingProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = DefaultOllamaModel
	}

	hostURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", baseURL, err)
	}

	return &OllamaProvider{
		client:     api.NewClient(hostURL, http.DefaultClient),
		model:      model,
		maxRetries: 2,
	}, nil
}

func (p *OllamaProvider) Model() string {
	return "ollama/" + p.model
}

func (p *OllamaProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	var resp *api.EmbeddingResponse
	var err error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		resp, err = p.client.Embeddings(ctx, &api.EmbeddingRequest{
			Model:  p.model,
			Prompt: text,
		})
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("ollama embedding failed after %d retries: %w", p.maxRetries, err)
	}

	values := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		values[i] = float32(v)
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: NormalizeVector(values),
		},
	}, nil
}
