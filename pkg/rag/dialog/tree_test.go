package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNodes() []Node {
	return []Node{
		{
			ID:    "1.0",
			Title: "Greeting",
			Prompts: map[string]string{
				"en": "Hello {policy_holder_name}, this is Veena.",
				"hi": "Hello {policy_holder_name}, मैं वीना बोल रही हूँ।",
			},
			Next: map[string]NodeID{"yes": "2.0"},
		},
		{ID: "2.0", Title: "Premium reminder", Prompts: map[string]string{"en": "Your premium is due."}},
	}
}

func TestNewTreeIndexesNodes(t *testing.T) {
	tree, err := NewTree("1.0", sampleNodes())
	require.NoError(t, err)

	assert.Equal(t, 2, tree.Len())
	assert.Equal(t, NodeID("1.0"), tree.Root().ID)

	next, err := tree.Transition("1.0", "yes")
	require.NoError(t, err)
	assert.Equal(t, "Premium reminder", next.Title)

	_, err = tree.Transition("1.0", "no")
	assert.ErrorIs(t, err, ErrNoTransition)
	_, err = tree.Transition("9.9", "yes")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestNewTreeRejectsBrokenGraphs(t *testing.T) {
	_, err := NewTree("0.0", sampleNodes())
	assert.ErrorIs(t, err, ErrMissingRoot)

	dup := append(sampleNodes(), Node{ID: "2.0"})
	_, err = NewTree("1.0", dup)
	assert.ErrorIs(t, err, ErrDuplicateNode)

	dangling := sampleNodes()
	dangling[1].Next = map[string]NodeID{"yes": "3.0"}
	_, err = NewTree("1.0", dangling)
	assert.ErrorIs(t, err, ErrDanglingEdge)
}

func TestGreetingFallsBackAndSubstitutes(t *testing.T) {
	tree, err := NewTree("1.0", sampleNodes())
	require.NoError(t, err)
	root := tree.Root()

	assert.Equal(t, "Hello Asha, मैं वीना बोल रही हूँ।", root.Greeting("hi", "Asha"))
	assert.Equal(t, "Hello Ravi, this is Veena.", root.Greeting("gu", "Ravi"))
	assert.Equal(t, "Your premium is due.", tree.nodes["2.0"].Prompt("mr"))
}

func TestParseAcceptsBothPromptKeys(t *testing.T) {
	raw := `[
		{"id": "1.0", "title": "Greeting", "veena_prompt": {"en": "Hi {policy_holder_name}"}, "next": {"ok": "2.0"}},
		{"id": "2.0", "title": "Close", "prompts": {"en": "Thanks"}}
	]`
	tree, err := Parse("dialog_tree.json", []byte(raw), "1.0")
	require.NoError(t, err)
	assert.Equal(t, "Hi Asha", tree.Root().Greeting("en", "Asha"))

	yml := `
- id: "1.0"
  title: Greeting
  prompts:
    en: Hi
`
	tree, err = Parse("dialog_tree.yaml", []byte(yml), "1.0")
	require.NoError(t, err)
	assert.Equal(t, "Hi", tree.Root().Prompt("en"))

	_, err = Parse("dialog_tree.json", []byte("{"), "1.0")
	assert.Error(t, err)
}
