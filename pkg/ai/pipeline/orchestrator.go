package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/pkg/ai/backend"
	"veena-assistant-be/pkg/language"
	"veena-assistant-be/pkg/rag/knowledge"
	"veena-assistant-be/pkg/rag/profile"
	"veena-assistant-be/pkg/rag/prompt"
	"veena-assistant-be/pkg/rag/session"
	"veena-assistant-be/pkg/speech"
)

const moduleName = "ORCHESTRATOR"

// ErrNoInput means the turn carried neither text nor usable audio.
var ErrNoInput = errors.New("no input provided")

type Path string

const (
	PathRebuttal   Path = "rebuttal"
	PathGenerative Path = "generative"
)

type KnowledgeSource interface {
	Current() (*knowledge.Knowledge, error)
}

type Extractor interface {
	Extract(ctx context.Context, utterance string) profile.Profile
}

type Synthesizer interface {
	Synthesize(ctx context.Context, rc prompt.ReplyContext) backend.Result[string]
}

type Speaker interface {
	Speak(ctx context.Context, text, lang string) (string, error)
}

// Observer is told about every finished turn.
type Observer interface {
	TurnCompleted(path Path, lang string, elapsed time.Duration)
}

// Guards bound the collaborators the orchestrator calls directly. Nil
// guards run calls unbounded.
type Guards struct {
	Translate *backend.Guard
	Speech    *backend.Guard
	Embedding *backend.Guard
}

// Deps wires the orchestrator. Translator, Transcriber, Speaker and
// Observer are optional.
type Deps struct {
	Knowledge   KnowledgeSource
	Sessions    *session.Manager
	Locker      *session.Locker
	Detector    language.Detector
	Translator  language.Translator
	Transcriber speech.Transcriber
	Speaker     Speaker
	Extractor   Extractor
	Generator   Synthesizer
	Guards      Guards
	Observer    Observer
	TopK        int
	Logger      logger.ILogger
}

type Orchestrator struct {
	Deps
}

func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.TopK <= 0 {
		deps.TopK = 3
	}
	if deps.Locker == nil {
		deps.Locker = session.NewLocker()
	}
	return &Orchestrator{Deps: deps}
}

type GreetInput struct {
	UserID   string
	Lang     string
	FullName string
}

type GreetResult struct {
	Response string
	AudioURL string // empty when synthesis failed
	Lang     string
}

type TurnInput struct {
	UserID       string
	Text         string
	Audio        []byte
	AudioName    string
	CustomerData profile.Profile
}

type TurnResult struct {
	Response     string
	AudioURL     string // empty when synthesis failed
	Lang         string
	CustomerData profile.Profile
	Path         Path
}

// Greet puts the user back at the root step and speaks its prompt.
func (o *Orchestrator) Greet(ctx context.Context, in GreetInput) (*GreetResult, error) {
	unlock := o.Locker.Lock(in.UserID)
	defer unlock()

	k, err := o.Knowledge.Current()
	if err != nil {
		return nil, err
	}
	if _, err := o.Sessions.Reset(ctx, in.UserID, k.Tree.RootID()); err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}

	text := k.Tree.Root().Greeting(in.Lang, in.FullName)

	o.Logger.Info(moduleName, "Greeting sent", map[string]interface{}{
		"user_id": in.UserID,
		"lang":    in.Lang,
	})

	return &GreetResult{
		Response: text,
		AudioURL: o.speak(ctx, text, in.Lang),
		Lang:     in.Lang,
	}, nil
}

// Turn answers one utterance. Collaborator failures degrade the reply but
// never fail the turn; only missing input and missing knowledge do.
func (o *Orchestrator) Turn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	unlock := o.Locker.Lock(in.UserID)
	defer unlock()

	start := time.Now()

	text := strings.TrimSpace(in.Text)
	if text == "" && len(in.Audio) > 0 {
		text = o.transcribe(ctx, in.Audio, in.AudioName)
	}
	if text == "" {
		return nil, ErrNoInput
	}

	k, err := o.Knowledge.Current()
	if err != nil {
		return nil, err
	}

	lang := language.Normalize(o.Detector.Detect(text))
	if lang == "" {
		lang = language.English
	}

	textEN := text
	if lang != language.English {
		textEN = o.translate(ctx, text, "", language.English)
	}

	customer := in.CustomerData
	if customer == nil {
		customer = profile.Profile{}
	}

	var result *TurnResult
	if rule, ok := k.Rebuttals.Match(textEN); ok {
		result = o.rebuttalTurn(rule, lang, customer)
	} else {
		result = o.generativeTurn(ctx, k, in.UserID, textEN, lang, customer)
	}
	result.AudioURL = o.speak(ctx, result.Response, lang)

	elapsed := time.Since(start)
	if o.Observer != nil {
		o.Observer.TurnCompleted(result.Path, lang, elapsed)
	}
	o.Logger.Info(moduleName, "Turn completed", map[string]interface{}{
		"user_id":     in.UserID,
		"lang":        lang,
		"path":        string(result.Path),
		"has_audio":   result.AudioURL != "",
		"duration_ms": elapsed.Milliseconds(),
	})
	return result, nil
}

func (o *Orchestrator) transcribe(ctx context.Context, audio []byte, name string) string {
	if o.Transcriber == nil {
		o.Logger.Warn(moduleName, "Audio received but transcription is disabled", nil)
		return ""
	}
	res := backend.Call(ctx, o.Guards.Speech, "transcribe", func(ctx context.Context) (string, error) {
		return o.Transcriber.Transcribe(ctx, audio, name)
	})
	if !res.OK() {
		o.logFailure("Transcription failed", res.Err)
		return ""
	}
	return strings.TrimSpace(res.Value)
}

// translate returns text unchanged when no translator is set or the call fails.
func (o *Orchestrator) translate(ctx context.Context, text, source, target string) string {
	if o.Translator == nil {
		return text
	}
	res := backend.Call(ctx, o.Guards.Translate, "translate", func(ctx context.Context) (string, error) {
		return o.Translator.Translate(ctx, text, source, target)
	})
	if !res.OK() {
		o.logFailure("Translation failed, using original text", res.Err)
		return text
	}
	return res.Value
}

func (o *Orchestrator) speak(ctx context.Context, text, lang string) string {
	if o.Speaker == nil || text == "" {
		return ""
	}
	voice := language.TTSLanguage(lang)
	res := backend.Call(ctx, o.Guards.Speech, "tts", func(ctx context.Context) (string, error) {
		return o.Speaker.Speak(ctx, text, voice)
	})
	if !res.OK() {
		o.logFailure("Speech synthesis failed, replying without audio", res.Err)
		return ""
	}
	return res.Value
}

func (o *Orchestrator) logFailure(message string, err *backend.Error) {
	o.Logger.Warn(moduleName, message, map[string]interface{}{
		"op":    err.Op,
		"kind":  err.Kind.String(),
		"error": err.Error(),
	})
}
