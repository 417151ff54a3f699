package extraction

import (
	"context"
	"errors"
	"testing"

	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/pkg/llm"
	"veena-assistant-be/pkg/rag/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	reply   string
	err     error
	options llm.Options
	history []llm.Message
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.history = history
	s.options = llm.Apply(llm.Options{Temperature: 0.5}, options...)
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func TestExtractKeepsSchemaFields(t *testing.T) {
	stub := &stubLLM{reply: `{"policyNumber":"P-42","premium":12000,"email":null,"favouriteColour":"blue"}`}
	e := NewExtractor(stub, nil, logger.NewNopLogger())

	got := e.Extract(context.Background(), "my policy P-42 costs 12000")

	assert.Equal(t, profile.Profile{"policyNumber": "P-42", "premium": 12000.0}, got)
	assert.True(t, stub.options.JSONMode)
	assert.Equal(t, 0.0, stub.options.Temperature)
	require.Len(t, stub.history, 2)
	assert.Equal(t, llm.RoleSystem, stub.history[0].Role)
	assert.Contains(t, stub.history[1].Content, `Input: "my policy P-42 costs 12000"`)
}

func TestExtractMalformedOutputIsEmpty(t *testing.T) {
	for _, raw := range []string{"Sure! The customer is Asha.", "[1,2,3]", "null", ""} {
		e := NewExtractor(&stubLLM{reply: raw}, nil, logger.NewNopLogger())
		assert.Empty(t, e.Extract(context.Background(), "hello"), raw)
	}
}

func TestExtractBackendFailureIsEmpty(t *testing.T) {
	e := NewExtractor(&stubLLM{err: errors.New("connection refused")}, nil, logger.NewNopLogger())
	got := e.Extract(context.Background(), "hello")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseStripsFence(t *testing.T) {
	got, err := Parse("```json\n{\"name\": \"Asha\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, profile.Profile{"name": "Asha"}, got)

	got, err = Parse("```\n{\"email\": \"a@b.c\"}```")
	require.NoError(t, err)
	assert.Equal(t, profile.Profile{"email": "a@b.c"}, got)
}
