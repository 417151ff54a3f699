package language

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"veena-assistant-be/pkg/llm"

	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"
)

var ErrEmptyTranslation = errors.New("translator returned no text")

// Translator converts text into target. An empty source asks the backend
// to detect it.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

type GoogleTranslator struct {
	service *translate.Service
}

func NewGoogleTranslator(ctx context.Context, apiKey string) (*GoogleTranslator, error) {
	svc, err := translate.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create translate client: %w", err)
	}
	return &GoogleTranslator{service: svc}, nil
}

func (t *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	call := t.service.Translations.List([]string{text}, target).Format("text").Context(ctx)
	if source != "" {
		call = call.Source(source)
	}
	resp, err := call.Do()
	if err != nil {
		return "", err
	}
	if len(resp.Translations) == 0 || resp.Translations[0].TranslatedText == "" {
		return "", ErrEmptyTranslation
	}
	return html.UnescapeString(resp.Translations[0].TranslatedText), nil
}

// LLMTranslator uses the chat model when no translation API key is set.
type LLMTranslator struct {
	llmProvider llm.LLMProvider
}

func NewLLMTranslator(llmProvider llm.LLMProvider) *LLMTranslator {
	return &LLMTranslator{llmProvider: llmProvider}
}

func (t *LLMTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	from := "the detected language"
	if source != "" {
		from = Name(source)
	}

	var prompt strings.Builder
	prompt.WriteString("Translate the text below from ")
	prompt.WriteString(from)
	prompt.WriteString(" to ")
	prompt.WriteString(Name(target))
	prompt.WriteString(". Reply with the translation only, no quotes or notes.\n\n")
	prompt.WriteString(text)

	out, err := llm.Complete(ctx, t.llmProvider, "You are a precise translator.", prompt.String(), llm.WithTemperature(0))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}
