package rebuttal

import "strings"

type Rule struct {
	Objection string `json:"objection" yaml:"objection"`
	Reply     Reply  `json:"rebuttal" yaml:"rebuttal"`
}

type compiledRule struct {
	needle string
	rule   Rule
}

// Matcher finds the first declared rule whose objection occurs in the text.
// Declaration order decides between overlapping objections, never specificity.
type Matcher struct {
	rules []compiledRule
}

func NewMatcher(rules []Rule) *Matcher {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		// Surrounding spaces are part of the objection and bound it to whole words.
		needle := strings.ToLower(r.Objection)
		if needle == "" {
			continue
		}
		compiled = append(compiled, compiledRule{needle: needle, rule: r})
	}
	return &Matcher{rules: compiled}
}

func (m *Matcher) Match(text string) (Rule, bool) {
	haystack := strings.ToLower(text)
	for _, r := range m.rules {
		if strings.Contains(haystack, r.needle) {
			return r.rule, true
		}
	}
	return Rule{}, false
}

func (m *Matcher) Len() int {
	return len(m.rules)
}
