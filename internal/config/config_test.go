package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "5000", cfg.App.Port)
	assert.Equal(t, 3, cfg.Ai.FaqTopK)
	assert.Equal(t, "ollama", cfg.Ai.EmbeddingProvider)
	assert.Equal(t, []string{"en", "hi", "mr", "gu"}, cfg.Language.Supported)
	assert.Equal(t, "1.0", cfg.Data.RootNodeID)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FAQ_TOP_K", "5")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("DATA_WATCH", "true")
	t.Setenv("SUPPORTED_LANGUAGES", "en, hi ,,gu")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, 5, cfg.Ai.FaqTopK)
	assert.Equal(t, 90*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Data.Watch)
	assert.Equal(t, []string{"en", "hi", "gu"}, cfg.Language.Supported)
	assert.True(t, cfg.IsProduction())
}

func TestEnvParsersFallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, getEnvAsInt("X_INT", 7))
	assert.False(t, getEnvAsBool("X_BOOL", false))
	assert.Equal(t, time.Second, getEnvAsDuration("X_DUR", time.Second))
	assert.Equal(t, []string{"a"}, getEnvAsList("X_MISSING", []string{"a"}))
}
