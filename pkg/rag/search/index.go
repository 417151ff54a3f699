package search

import (
	"context"
	"errors"
	"fmt"

	"veena-assistant-be/pkg/embedding"
)

var (
	ErrMisaligned      = errors.New("faq corpus and embeddings are misaligned")
	ErrEncoderMismatch = errors.New("query encoder differs from the encoder the index was built with")
)

// Row is one embedded FAQ entry. Position is its identity within the corpus.
type Row struct {
	Position int
	Text     string
	Vector   []float32
}

type Hit struct {
	Position int
	Text     string
	Distance float64
}

// VectorStore holds the embedded corpus. Replace must swap the whole
// corpus at once so concurrent Nearest calls see either the old or the new rows.
type VectorStore interface {
	Replace(ctx context.Context, model string, rows []Row) error
	Nearest(ctx context.Context, vector []float32, k int) ([]Hit, error)
	Len() int
	Model() string
}

// Index answers nearest-FAQ queries with the same encoder it was built with.
type Index struct {
	encoder embedding.EmbeddingProvider
	store   VectorStore
}

// Build embeds every entry and loads the store. Any gap between entries
// and vectors is reported as ErrMisaligned.
func Build(ctx context.Context, encoder embedding.EmbeddingProvider, store VectorStore, entries []string) (*Index, error) {
	rows := make([]Row, len(entries))
	dimension := -1

	for i, text := range entries {
		res, err := encoder.Generate(ctx, text, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embed faq entry %d: %w", i, err)
		}
		if res == nil || len(res.Embedding.Values) == 0 {
			return nil, fmt.Errorf("%w: entry %d has no embedding", ErrMisaligned, i)
		}

		values := res.Embedding.Values
		if dimension == -1 {
			dimension = len(values)
		} else if len(values) != dimension {
			return nil, fmt.Errorf("%w: entry %d has dimension %d, expected %d", ErrMisaligned, i, len(values), dimension)
		}

		rows[i] = Row{Position: i, Text: text, Vector: values}
	}

	if err := store.Replace(ctx, encoder.Model(), rows); err != nil {
		return nil, fmt.Errorf("load vector store: %w", err)
	}
	if store.Len() != len(entries) {
		return nil, fmt.Errorf("%w: store holds %d rows for %d entries", ErrMisaligned, store.Len(), len(entries))
	}

	return &Index{encoder: encoder, store: store}, nil
}

// Search returns the texts of the min(k, N) entries closest to query,
// nearest first. Equal distances keep corpus order.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]string, error) {
	hits, err := ix.SearchHits(ctx, query, k)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Text
	}
	return texts, nil
}

func (ix *Index) SearchHits(ctx context.Context, query string, k int) ([]Hit, error) {
	n := ix.store.Len()
	if k <= 0 || n == 0 {
		return []Hit{}, nil
	}
	if k > n {
		k = n
	}

	if ix.store.Model() != ix.encoder.Model() {
		return nil, fmt.Errorf("%w: index=%s query=%s", ErrEncoderMismatch, ix.store.Model(), ix.encoder.Model())
	}

	res, err := ix.encoder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return ix.store.Nearest(ctx, res.Embedding.Values, k)
}

func (ix *Index) Len() int {
	return ix.store.Len()
}

func (ix *Index) Model() string {
	return ix.store.Model()
}
