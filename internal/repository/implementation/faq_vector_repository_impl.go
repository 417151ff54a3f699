package implementation

import (
	"context"
	"fmt"
	"sync"

	"veena-assistant-be/internal/model"
	"veena-assistant-be/pkg/rag/search"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// FaqVectorRepositoryImpl keeps the FAQ index in Postgres. It satisfies
// search.VectorStore; Replace swaps the whole corpus in one transaction.
type FaqVectorRepositoryImpl struct {
	db *gorm.DB

	mu    sync.RWMutex
	count int
	model string
}

func NewFaqVectorRepository(db *gorm.DB) *FaqVectorRepositoryImpl {
	return &FaqVectorRepositoryImpl{db: db}
}

type faqHit struct {
	Position int
	Text     string
	Distance float64
}

func (r *FaqVectorRepositoryImpl) Replace(ctx context.Context, encoder string, rows []search.Row) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.FaqEmbedding{}).Error; err != nil {
			return fmt.Errorf("clear faq embeddings: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		models := make([]model.FaqEmbedding, 0, len(rows))
		for _, row := range rows {
			models = append(models, model.FaqEmbedding{
				Position:  row.Position,
				Text:      row.Text,
				Embedding: pgvector.NewVector(row.Vector),
				Model:     encoder,
			})
		}
		if err := tx.CreateInBatches(models, 100).Error; err != nil {
			return fmt.Errorf("insert faq embeddings: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.count, r.model = len(rows), encoder
	r.mu.Unlock()
	return nil
}

func (r *FaqVectorRepositoryImpl) Nearest(ctx context.Context, vector []float32, k int) ([]search.Hit, error) {
	if k <= 0 {
		return []search.Hit{}, nil
	}

	var rows []faqHit
	err := r.db.WithContext(ctx).Raw(
		`SELECT position, text, embedding <-> ? AS distance
		 FROM faq_embeddings
		 ORDER BY distance, position
		 LIMIT ?`,
		pgvector.NewVector(vector), k,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	hits := make([]search.Hit, 0, len(rows))
	for _, row := range rows {
		// pgvector returns Euclidean distance; the flat store ranks by its square.
		hits = append(hits, search.Hit{Position: row.Position, Text: row.Text, Distance: row.Distance * row.Distance})
	}
	return hits, nil
}

// Len and Model report what the last Replace committed, so searches do
// not query the table for them.
func (r *FaqVectorRepositoryImpl) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

func (r *FaqVectorRepositoryImpl) Model() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model
}
