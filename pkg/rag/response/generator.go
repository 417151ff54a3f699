package response

import (
	"context"
	"errors"
	"strings"

	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/pkg/ai/backend"
	"veena-assistant-be/pkg/llm"
	"veena-assistant-be/pkg/rag/prompt"
)

const (
	moduleName = "SYNTHESIS"

	Persona     = "You are Veena, a helpful multilingual insurance assistant."
	Temperature = 0.7
	MaxTokens   = 300
)

var errEmptyReply = errors.New("model returned an empty reply")

// Generator writes the advisor reply for the generative path.
type Generator struct {
	llmProvider llm.LLMProvider
	guard       *backend.Guard
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, guard *backend.Guard, log logger.ILogger) *Generator {
	return &Generator{llmProvider: llmProvider, guard: guard, logger: log}
}

// Synthesize returns the model's reply. An empty reply counts as malformed.
func (g *Generator) Synthesize(ctx context.Context, rc prompt.ReplyContext) backend.Result[string] {
	res := backend.Call(ctx, g.guard, "synthesize", func(ctx context.Context) (string, error) {
		reply, err := llm.Complete(ctx, g.llmProvider, Persona, prompt.BuildReply(rc),
			llm.WithTemperature(Temperature),
			llm.WithMaxTokens(MaxTokens),
		)
		if err != nil {
			return "", err
		}
		reply = strings.TrimSpace(reply)
		if reply == "" {
			return "", &backend.Error{Kind: backend.KindMalformed, Op: "synthesize", Err: errEmptyReply}
		}
		return reply, nil
	})

	if !res.OK() {
		g.logger.Error(moduleName, "Reply generation failed", map[string]interface{}{
			"kind":  res.Err.Kind.String(),
			"error": res.Err.Error(),
			"lang":  rc.Lang,
		})
	}
	return res
}
