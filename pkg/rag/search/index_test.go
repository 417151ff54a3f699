package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"veena-assistant-be/pkg/embedding"
	"veena-assistant-be/pkg/embedding/local"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEncoder maps known texts to fixed vectors.
type fakeEncoder struct {
	model   string
	vectors map[string][]float32
	fail    map[string]bool
}

func (f *fakeEncoder) Model() string { return f.model }

func (f *fakeEncoder) Generate(_ context.Context, text string, _ string) (*embedding.EmbeddingResponse, error) {
	if f.fail[text] {
		return nil, errors.New("encoder down")
	}
	v, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("unknown text %q", text)
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: v}}, nil
}

func lineEncoder() *fakeEncoder {
	return &fakeEncoder{
		model: "fake/line",
		vectors: map[string][]float32{
			"a":  {0, 0},
			"b":  {1, 0},
			"c":  {3, 0},
			"b2": {1, 0}, // same point as b
			"q":  {0.9, 0},
		},
	}
}

var faqCorpus = []string{
	"Premiums can be paid monthly, quarterly, half-yearly or yearly.",
	"You can pay your premium online using UPI, net banking or cards.",
	"A grace period of 30 days is allowed for yearly premium payments.",
	"Claims are settled within 30 days of receiving all documents.",
	"You can update your phone number or email from the customer portal.",
}

func TestSearchReturnsMinKNSortedByDistance(t *testing.T) {
	ctx := context.Background()
	encoder := local.NewHashingProvider(local.DefaultDimension)
	ix, err := Build(ctx, encoder, NewFlatStore(), faqCorpus)
	require.NoError(t, err)

	for _, k := range []int{1, 3, 5, 10} {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			hits, err := ix.SearchHits(ctx, "how can I pay my premium online", k)
			require.NoError(t, err)

			want := k
			if want > len(faqCorpus) {
				want = len(faqCorpus)
			}
			assert.Len(t, hits, want)
			for i := 1; i < len(hits); i++ {
				assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
			}
		})
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	ctx := context.Background()
	ix, err := Build(ctx, local.NewHashingProvider(local.DefaultDimension), NewFlatStore(), faqCorpus)
	require.NoError(t, err)

	first, err := ix.Search(ctx, "grace period for yearly premium", 3)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ix.Search(ctx, "grace period for yearly premium", 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, faqCorpus[2], first[0])
}

func TestSearchTiesKeepCorpusOrder(t *testing.T) {
	ctx := context.Background()
	ix, err := Build(ctx, lineEncoder(), NewFlatStore(), []string{"c", "b2", "a", "b"})
	require.NoError(t, err)

	got, err := ix.Search(ctx, "q", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "b", "a", "c"}, got)
}

func TestSearchEdgeCases(t *testing.T) {
	ctx := context.Background()
	ix, err := Build(ctx, lineEncoder(), NewFlatStore(), []string{"a", "b"})
	require.NoError(t, err)

	got, err := ix.Search(ctx, "q", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ix.Search(ctx, "q", -3)
	require.NoError(t, err)
	assert.Empty(t, got)

	empty, err := Build(ctx, lineEncoder(), NewFlatStore(), nil)
	require.NoError(t, err)
	got, err = empty.Search(ctx, "q", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildRejectsMisalignedEmbeddings(t *testing.T) {
	enc := lineEncoder()
	enc.vectors["odd"] = []float32{1, 2, 3}

	_, err := Build(context.Background(), enc, NewFlatStore(), []string{"a", "odd"})
	assert.ErrorIs(t, err, ErrMisaligned)

	enc.vectors["blank"] = []float32{}
	_, err = Build(context.Background(), enc, NewFlatStore(), []string{"blank"})
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestBuildPropagatesEncoderFailure(t *testing.T) {
	enc := lineEncoder()
	enc.fail = map[string]bool{"b": true}

	store := NewFlatStore()
	_, err := Build(context.Background(), enc, store, []string{"a", "b"})
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len(), "a failed build must not touch the store")
}

func TestSearchRejectsForeignEncoder(t *testing.T) {
	ctx := context.Background()
	store := NewFlatStore()
	_, err := Build(ctx, lineEncoder(), store, []string{"a", "b"})
	require.NoError(t, err)

	other := lineEncoder()
	other.model = "fake/other"
	ix := &Index{encoder: other, store: store}

	_, err = ix.Search(ctx, "q", 1)
	assert.ErrorIs(t, err, ErrEncoderMismatch)
}

func TestReplaceSwapsWholeCorpus(t *testing.T) {
	ctx := context.Background()
	store := NewFlatStore()
	enc := lineEncoder()

	_, err := Build(ctx, enc, store, []string{"a", "b", "c"})
	require.NoError(t, err)
	ix, err := Build(ctx, enc, store, []string{"c"})
	require.NoError(t, err)

	assert.Equal(t, 1, ix.Len())
	got, err := ix.Search(ctx, "q", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got)
	assert.Equal(t, "fake/line", ix.Model())
}
