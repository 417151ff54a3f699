package rebuttal

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const fallbackLanguage = "en"

type ReplyKind int

const (
	KindSingleLanguage ReplyKind = iota
	KindLocalized
)

// Reply is either one text stored without a language (treated as the
// "en" entry) or a set of per-language texts.
type Reply struct {
	kind      ReplyKind
	single    string
	localized map[string]string
}

func SingleLanguage(text string) Reply {
	return Reply{kind: KindSingleLanguage, single: text}
}

func Localized(texts map[string]string) Reply {
	copied := make(map[string]string, len(texts))
	for lang, text := range texts {
		copied[lang] = text
	}
	return Reply{kind: KindLocalized, localized: copied}
}

func (r Reply) Kind() ReplyKind {
	return r.kind
}

// Resolve picks the text for lang, falling back to "en". A single-language
// reply is the "en" entry, so it answers every language.
func (r Reply) Resolve(lang string) string {
	if r.kind == KindSingleLanguage {
		return r.single
	}
	if text := r.localized[lang]; text != "" {
		return text
	}
	return r.localized[fallbackLanguage]
}

func (r *Reply) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*r = SingleLanguage(text)
		return nil
	}

	var texts map[string]string
	if err := json.Unmarshal(data, &texts); err != nil {
		return fmt.Errorf("rebuttal must be a string or a language map: %w", err)
	}
	*r = Localized(texts)
	return nil
}

func (r Reply) MarshalJSON() ([]byte, error) {
	if r.kind == KindSingleLanguage {
		return json.Marshal(r.single)
	}
	return json.Marshal(r.localized)
}

func (r *Reply) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = SingleLanguage(node.Value)
		return nil
	case yaml.MappingNode:
		var texts map[string]string
		if err := node.Decode(&texts); err != nil {
			return err
		}
		*r = Localized(texts)
		return nil
	default:
		return errors.New("rebuttal must be a string or a language map")
	}
}
