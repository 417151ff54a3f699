package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeFirstSeenWins(t *testing.T) {
	base := Profile{"fullName": "Asha Rao", "premium": ""}
	extracted := Profile{
		"fullName":     "Someone Else",
		"premium":      "12000",
		"policyNumber": "P-42",
		"email":        nil,
		"phoneNumber":  "",
	}

	merged := Merge(base, extracted)

	assert.Equal(t, "Asha Rao", merged["fullName"])
	assert.Equal(t, "12000", merged["premium"])
	assert.Equal(t, "P-42", merged["policyNumber"])
	assert.NotContains(t, merged, "email")
	assert.NotContains(t, merged, "phoneNumber")
	assert.Equal(t, "", base["premium"], "base must not be modified")
}

func TestMergeKeepsWhitespaceClientValue(t *testing.T) {
	merged := Merge(Profile{"email": "  "}, Profile{"email": "asha@example.com"})
	assert.Equal(t, "  ", merged["email"])
}

func TestMergeKeepsUnknownClientKeys(t *testing.T) {
	merged := Merge(Profile{"agentNote": "call after 5"}, Profile{"name": "Asha"})
	assert.Equal(t, Profile{"agentNote": "call after 5", "name": "Asha"}, merged)
}

func TestPresent(t *testing.T) {
	assert.False(t, Present(nil))
	assert.False(t, Present(""))
	assert.True(t, Present("  "))
	assert.False(t, Present(0.0))
	assert.False(t, Present(false))
	assert.False(t, Present(map[string]any{}))
	assert.True(t, Present("x"))
	assert.True(t, Present(12000.0))
	assert.True(t, Present([]any{"a"}))
}

func TestDecodeAcceptsObjectOrString(t *testing.T) {
	assert.Equal(t, Profile{"name": "Asha"}, Decode(json.RawMessage(`{"name":"Asha"}`)))
	assert.Equal(t, Profile{"name": "Asha"}, Decode(json.RawMessage(`"{\"name\":\"Asha\"}"`)))
	assert.Equal(t, Profile{}, Decode(json.RawMessage(`"not json"`)))
	assert.Equal(t, Profile{}, Decode(json.RawMessage(`[1,2]`)))
	assert.Equal(t, Profile{}, Decode(nil))
	assert.Equal(t, Profile{}, DecodeString(""))
}

func TestJSONIsSorted(t *testing.T) {
	assert.Equal(t, `{"email":"a@b.c","name":"Asha"}`, Profile{"name": "Asha", "email": "a@b.c"}.JSON())
	assert.Equal(t, "{}", Profile(nil).JSON())
}
