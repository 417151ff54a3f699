package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
)

const (
	googleTTSURL     = "https://translate.google.com/translate_tts"
	elevenLabsURL    = "https://api.elevenlabs.io/v1/text-to-speech/"
	googleChunkRunes = 200
)

var ErrNothingToSay = errors.New("no text to synthesize")

// Synthesizer turns text into MP3 bytes in the given voice language.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// GoogleTTS uses the public translate speech endpoint. Long text is sent
// in chunks and the MP3 frames are concatenated.
type GoogleTTS struct {
	client  *http.Client
	baseURL string
}

func NewGoogleTTS() *GoogleTTS {
	return &GoogleTTS{client: &http.Client{Timeout: 30 * time.Second}, baseURL: googleTTSURL}
}

func (g *GoogleTTS) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	chunks := chunkText(text, googleChunkRunes)
	if len(chunks) == 0 {
		return nil, ErrNothingToSay
	}

	var out bytes.Buffer
	for i, chunk := range chunks {
		q := url.Values{}
		q.Set("ie", "UTF-8")
		q.Set("client", "tw-ob")
		q.Set("tl", lang)
		q.Set("q", chunk)
		q.Set("total", fmt.Sprint(len(chunks)))
		q.Set("idx", fmt.Sprint(i))
		q.Set("textlen", fmt.Sprint(len([]rune(chunk))))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		if err := g.fetch(req, &out); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

func (g *GoogleTTS) fetch(req *http.Request, out *bytes.Buffer) error {
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google tts error: %s", resp.Status)
	}
	_, err = io.Copy(out, resp.Body)
	return err
}

// chunkText splits on whitespace into pieces of at most max runes. Words
// longer than max are cut.
func chunkText(text string, max int) []string {
	var (
		chunks  []string
		current []rune
	)
	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		w := []rune(word)
		for len(w) > max {
			flush()
			chunks = append(chunks, string(w[:max]))
			w = w[max:]
		}
		if len(current) > 0 && len(current)+1+len(w) > max {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, w...)
	}
	flush()
	return chunks
}

type ElevenLabsTTS struct {
	apiKey  string
	voiceID string
	client  *http.Client
	baseURL string
}

func NewElevenLabsTTS(apiKey, voiceID string) *ElevenLabsTTS {
	return &ElevenLabsTTS{
		apiKey:  apiKey,
		voiceID: voiceID,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: elevenLabsURL,
	}
}

// Synthesize ignores lang; the multilingual model follows the text.
func (e *ElevenLabsTTS) Synthesize(ctx context.Context, text, _ string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNothingToSay
	}

	requestBody := map[string]interface{}{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
		"voice_settings": map[string]interface{}{
			"stability":         0.5,
			"similarity_boost":  0.8,
			"style":             0.0,
			"use_speaker_boost": true,
		},
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+e.voiceID, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs api error: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
