package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTTSLanguage(t *testing.T) {
	cases := map[string]string{
		"en":    "en",
		"hi":    "hi",
		"mr":    "hi",
		"gu":    "gu",
		"hi-IN": "hi",
		"ta":    "en",
		"":      "en",
	}
	for in, want := range cases {
		assert.Equal(t, want, TTSLanguage(in), in)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hi", Normalize("HI-in"))
	assert.Equal(t, "gu", Normalize(" gu "))
	assert.Equal(t, "", Normalize(""))
}

func TestName(t *testing.T) {
	assert.Equal(t, "Hindi", Name("hi"))
	assert.Equal(t, "Marathi", Name("mr"))
	assert.Equal(t, "English", Name("en"))
}
