package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/pkg/ai/backend"
	"veena-assistant-be/pkg/llm"
	"veena-assistant-be/pkg/rag/profile"
	"veena-assistant-be/pkg/rag/prompt"
)

const (
	moduleName = "EXTRACTION"
	persona    = "You extract structured customer details for an insurance assistant. Reply with a single JSON object only."
)

var errNotObject = errors.New("extraction output is not a JSON object")

// Extractor pulls customer fields out of an English utterance. It never
// fails: any backend or parse problem gives an empty profile.
type Extractor struct {
	llmProvider llm.LLMProvider
	guard       *backend.Guard
	logger      logger.ILogger
}

func NewExtractor(llmProvider llm.LLMProvider, guard *backend.Guard, log logger.ILogger) *Extractor {
	return &Extractor{llmProvider: llmProvider, guard: guard, logger: log}
}

func (e *Extractor) Extract(ctx context.Context, utterance string) profile.Profile {
	res := backend.Call(ctx, e.guard, "extract", func(ctx context.Context) (string, error) {
		return llm.Complete(ctx, e.llmProvider, persona, prompt.BuildExtraction(utterance),
			llm.WithTemperature(0),
			llm.WithJSONMode(),
		)
	})
	if !res.OK() {
		e.logger.Warn(moduleName, "Extraction backend failed", map[string]interface{}{
			"kind":  res.Err.Kind.String(),
			"error": res.Err.Error(),
		})
		return profile.Profile{}
	}

	extracted, err := Parse(res.Value)
	if err != nil {
		e.logger.Warn(moduleName, "Extraction output unreadable", map[string]interface{}{
			"raw":   res.Value,
			"error": err.Error(),
		})
		return profile.Profile{}
	}
	return extracted
}

// Parse decodes the model output, tolerating a fenced code block, and keeps
// only schema fields that carry a value.
func Parse(raw string) (profile.Profile, error) {
	body := stripFence(raw)

	var decoded map[string]any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return nil, err
	}
	if decoded == nil {
		return nil, errNotObject
	}

	out := profile.Profile{}
	for _, field := range profile.Fields {
		if v, ok := decoded[field]; ok && profile.Present(v) {
			out[field] = v
		}
	}
	return out, nil
}

func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
