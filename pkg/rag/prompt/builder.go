package prompt

import (
	"strings"

	"veena-assistant-be/pkg/language"
	"veena-assistant-be/pkg/rag/profile"
)

const UnknownStep = "Unknown"

// ReplyContext is everything the reply prompt is assembled from.
type ReplyContext struct {
	Utterance string
	StepTitle string // empty when the user's dialog step is unknown
	Profile   profile.Profile
	FAQs      []string
	Lang      string
}

// BuildExtraction asks for the fixed customer schema as a JSON object.
func BuildExtraction(utterance string) string {
	var prompt strings.Builder

	prompt.WriteString("You are an insurance assistant AI. Your job is to extract customer information from the input.\n\n")
	prompt.WriteString("Input: \"")
	prompt.WriteString(utterance)
	prompt.WriteString("\"\n\n")
	prompt.WriteString("Return a JSON object with keys:\n")
	for _, field := range profile.Fields {
		prompt.WriteString("- ")
		prompt.WriteString(field)
		prompt.WriteString("\n")
	}
	prompt.WriteString("\nOnly include fields that are mentioned in the input. Use null or omit for missing values.")

	return prompt.String()
}

// BuildReply writes the synthesis prompt. Sections stay in a fixed order.
func BuildReply(rc ReplyContext) string {
	var prompt strings.Builder

	step := rc.StepTitle
	if step == "" {
		step = UnknownStep
	}

	prompt.WriteString("User said: ")
	prompt.WriteString(rc.Utterance)
	prompt.WriteString("\nCurrent Dialog Step: ")
	prompt.WriteString(step)
	prompt.WriteString("\nCustomer Info: ")
	prompt.WriteString(rc.Profile.JSON())
	prompt.WriteString("\nRelevant FAQs: ")
	prompt.WriteString(strings.Join(rc.FAQs, "; "))
	prompt.WriteString("\n\nRespond in ")
	prompt.WriteString(language.Name(rc.Lang))
	prompt.WriteString(" language. Be helpful, natural, and friendly like a human insurance advisor.")

	return prompt.String()
}
