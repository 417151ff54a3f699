package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"veena-assistant-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, body *map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{
			Choices: []goopenai.ChatCompletionChoice{{
				Message: goopenai.ChatCompletionMessage{Role: llm.RoleAssistant, Content: `{"email":"a@b.c"}`},
			}},
		})
	}))
}

func TestChatSendsZeroTemperature(t *testing.T) {
	var body map[string]any
	server := newChatServer(t, &body)
	defer server.Close()

	p := NewOpenAIProvider("test-key", server.URL, "llama3-70b-8192")
	out, err := llm.Complete(context.Background(), p, "persona", "prompt",
		llm.WithTemperature(0), llm.WithJSONMode())

	require.NoError(t, err)
	assert.Equal(t, `{"email":"a@b.c"}`, out)
	assert.Equal(t, "llama3-70b-8192", body["model"])

	temperature, ok := body["temperature"].(float64)
	require.True(t, ok, "temperature missing from request body")
	assert.Greater(t, temperature, 0.0)
	assert.Less(t, temperature, 1e-6)

	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestChatSendsRequestedTemperature(t *testing.T) {
	var body map[string]any
	server := newChatServer(t, &body)
	defer server.Close()

	p := NewOpenAIProvider("test-key", server.URL, "")
	_, err := p.Generate(context.Background(), "hi", llm.WithTemperature(0.5), llm.WithMaxTokens(300))

	require.NoError(t, err)
	assert.Equal(t, goopenai.GPT4oMini, body["model"])
	assert.InDelta(t, 0.5, body["temperature"], 1e-6)
	assert.EqualValues(t, 300, body["max_tokens"])
	assert.NotContains(t, body, "response_format")
}
