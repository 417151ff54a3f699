package language

import (
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// Detector guesses the language of an utterance. It never fails; when
// unsure it answers English.
type Detector interface {
	Detect(text string) string
}

var whatlangCodes = map[string]whatlanggo.Lang{
	"en": whatlanggo.Eng,
	"hi": whatlanggo.Hin,
	"mr": whatlanggo.Mar,
	"gu": whatlanggo.Guj,
	"bn": whatlanggo.Ben,
	"ta": whatlanggo.Tam,
	"te": whatlanggo.Tel,
	"kn": whatlanggo.Kan,
	"ml": whatlanggo.Mal,
	"pa": whatlanggo.Pan,
}

type WhatlangDetector struct {
	options   whatlanggo.Options
	supported map[string]struct{}
}

// NewDetector restricts guesses to the supported codes so that short
// utterances are not labelled with an unrelated language.
func NewDetector(supported []string) *WhatlangDetector {
	whitelist := make(map[whatlanggo.Lang]bool, len(supported))
	set := make(map[string]struct{}, len(supported))
	for _, code := range supported {
		code = Normalize(code)
		set[code] = struct{}{}
		if l, ok := whatlangCodes[code]; ok {
			whitelist[l] = true
		}
	}
	return &WhatlangDetector{
		options:   whatlanggo.Options{Whitelist: whitelist},
		supported: set,
	}
}

func (d *WhatlangDetector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return English
	}

	info := whatlanggo.DetectWithOptions(text, d.options)
	if code := info.Lang.Iso6391(); code != "" {
		if _, ok := d.supported[code]; ok {
			return code
		}
	}
	return d.byScript(text)
}

// byScript covers text the trigram model could not place.
func (d *WhatlangDetector) byScript(text string) string {
	var guess string
	switch whatlanggo.DetectScript(text) {
	case unicode.Gujarati:
		guess = "gu"
	case unicode.Devanagari:
		guess = "hi"
	}
	if _, ok := d.supported[guess]; ok {
		return guess
	}
	return English
}
