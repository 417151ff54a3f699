package bootstrap

import (
	"testing"

	"veena-assistant-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncoderDefaultsToMultilingualModel(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "")
	t.Setenv("EMBEDDING_MODEL", "")
	cfg := config.Load()

	encoder, err := newEncoder(cfg)
	require.NoError(t, err)
	assert.Equal(t, "ollama/paraphrase-multilingual", encoder.Model())
}

func TestNewEncoderProviders(t *testing.T) {
	tests := []struct {
		provider string
		model    string
		want     string
	}{
		{"ollama", "bge-m3", "ollama/bge-m3"},
		{"jina", "", "jina/jina-embeddings-v3"},
		{"local", "", "local/hashed-bow-"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := config.Load()
			cfg.Ai.EmbeddingProvider = tt.provider
			cfg.Ai.EmbeddingModel = tt.model

			encoder, err := newEncoder(cfg)
			require.NoError(t, err)
			assert.Contains(t, encoder.Model(), tt.want)
		})
	}
}

func TestNewEncoderRejectsUnknownProvider(t *testing.T) {
	cfg := config.Load()
	cfg.Ai.EmbeddingProvider = "word2vec"

	_, err := newEncoder(cfg)
	assert.Error(t, err)
}
