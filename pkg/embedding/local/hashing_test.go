package local

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return sum
}

func TestGenerateIsDeterministicAndNormalized(t *testing.T) {
	p := NewHashingProvider(64)

	a, err := p.Generate(context.Background(), "When is my premium due?", "")
	require.NoError(t, err)
	b, err := p.Generate(context.Background(), "When is my premium due?", "")
	require.NoError(t, err)

	assert.Equal(t, a.Embedding.Values, b.Embedding.Values)
	assert.Len(t, a.Embedding.Values, 64)

	var norm float64
	for _, v := range a.Embedding.Values {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestSimilarTextIsCloser(t *testing.T) {
	p := NewHashingProvider(DefaultDimension)
	ctx := context.Background()

	query, _ := p.Generate(ctx, "how do I pay my premium online", "")
	near, _ := p.Generate(ctx, "You can pay the premium online through the portal", "")
	far, _ := p.Generate(ctx, "Claims are settled within thirty days of documents", "")

	assert.Less(t, l2(query.Embedding.Values, near.Embedding.Values), l2(query.Embedding.Values, far.Embedding.Values))
}

func TestTokenizeKeepsIndicWordsWhole(t *testing.T) {
	p := NewHashingProvider(0)

	assert.Equal(t, []string{"प्रीमियम", "कब", "है"}, p.tokenize("प्रीमियम कब है?"))
	assert.Equal(t, "local/hashed-bow-512", p.Model())
}

func TestEmptyTextYieldsZeroVector(t *testing.T) {
	res, err := NewHashingProvider(8).Generate(context.Background(), "the and of", "")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), res.Embedding.Values)
}
