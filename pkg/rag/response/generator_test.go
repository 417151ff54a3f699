package response

import (
	"context"
	"errors"
	"testing"

	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/pkg/ai/backend"
	"veena-assistant-be/pkg/llm"
	"veena-assistant-be/pkg/rag/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLLM struct {
	reply   string
	err     error
	history []llm.Message
	options llm.Options
}

func (r *recordingLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	r.history = history
	r.options = llm.Apply(llm.Options{}, options...)
	return r.reply, r.err
}

func (r *recordingLLM) Generate(ctx context.Context, p string, options ...llm.Option) (string, error) {
	return r.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: p}}, options...)
}

func TestSynthesizeUsesPersonaAndSampling(t *testing.T) {
	stub := &recordingLLM{reply: "  Your premium is due on the 5th.  "}
	g := NewGenerator(stub, nil, logger.NewNopLogger())

	res := g.Synthesize(context.Background(), prompt.ReplyContext{Utterance: "when is it due", Lang: "en"})

	require.True(t, res.OK())
	assert.Equal(t, "Your premium is due on the 5th.", res.Value)
	assert.Equal(t, Persona, stub.history[0].Content)
	assert.Contains(t, stub.history[1].Content, "User said: when is it due")
	assert.Equal(t, 0.7, stub.options.Temperature)
	assert.Equal(t, 300, stub.options.MaxTokens)
}

func TestSynthesizeFailureKinds(t *testing.T) {
	g := NewGenerator(&recordingLLM{err: errors.New("503")}, nil, logger.NewNopLogger())
	res := g.Synthesize(context.Background(), prompt.ReplyContext{Lang: "en"})
	require.False(t, res.OK())
	assert.Equal(t, backend.KindUnavailable, res.Err.Kind)

	g = NewGenerator(&recordingLLM{reply: "   "}, nil, logger.NewNopLogger())
	res = g.Synthesize(context.Background(), prompt.ReplyContext{Lang: "en"})
	require.False(t, res.OK())
	assert.Equal(t, backend.KindMalformed, res.Err.Kind)
}

func TestApologyFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, apologies["hi"], Apology("hi"))
	assert.Equal(t, apologies["en"], Apology("ta"))
}
