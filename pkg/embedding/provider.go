package embedding

import (
	"context"
	"math"
)

// Gemini-style task hints. Providers that do not distinguish them ignore the value.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings.
// Model identifies the encoder; vectors from different models are not comparable.
type EmbeddingProvider interface {
	Model() string
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

// NormalizeVector scales vec to unit length. Zero vectors are returned unchanged.
func NormalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
