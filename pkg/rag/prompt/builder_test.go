package prompt

import (
	"strings"
	"testing"

	"veena-assistant-be/pkg/rag/profile"

	"github.com/stretchr/testify/assert"
)

func TestBuildReply(t *testing.T) {
	got := BuildReply(ReplyContext{
		Utterance: "when is my premium due",
		StepTitle: "Premium reminder",
		Profile:   profile.Profile{"name": "Asha"},
		FAQs:      []string{"Premiums are due yearly.", "Grace period is 30 days."},
		Lang:      "hi",
	})

	want := "User said: when is my premium due\n" +
		"Current Dialog Step: Premium reminder\n" +
		`Customer Info: {"name":"Asha"}` + "\n" +
		"Relevant FAQs: Premiums are due yearly.; Grace period is 30 days.\n\n" +
		"Respond in Hindi language. Be helpful, natural, and friendly like a human insurance advisor."
	assert.Equal(t, want, got)
}

func TestBuildReplyUnknownStepAndEmptyContext(t *testing.T) {
	got := BuildReply(ReplyContext{Utterance: "hi", Lang: "en"})

	assert.Contains(t, got, "Current Dialog Step: Unknown\n")
	assert.Contains(t, got, "Customer Info: {}\n")
	assert.Contains(t, got, "Relevant FAQs: \n")
	assert.Contains(t, got, "Respond in English language.")
}

func TestBuildExtractionListsEveryField(t *testing.T) {
	got := BuildExtraction("my policy is P-42")

	assert.Contains(t, got, `Input: "my policy is P-42"`)
	for _, field := range profile.Fields {
		assert.True(t, strings.Contains(got, "- "+field+"\n"), field)
	}
}
