package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const English = "en"

// ttsLanguages maps a reply language to the voice used for it. Marathi
// is voiced with the Hindi voice.
var ttsLanguages = map[string]string{
	"en": "en",
	"hi": "hi",
	"mr": "hi",
	"gu": "gu",
}

// Normalize reduces a tag such as "hi-IN" or "HI" to its base code.
// Unparseable input comes back lowercased.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	base, _ := tag.Base()
	return base.String()
}

// TTSLanguage returns the synthesis voice for lang, English when unmapped.
func TTSLanguage(lang string) string {
	if v, ok := ttsLanguages[Normalize(lang)]; ok {
		return v
	}
	return English
}

// Name gives the English display name of lang, e.g. "Gujarati".
func Name(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToUpper(lang)
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(lang)
}
