package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// FaqEmbedding is one FAQ entry with its vector. Position is the entry's
// index in the corpus file and breaks distance ties.
type FaqEmbedding struct {
	Position  int             `gorm:"primaryKey;autoIncrement:false"`
	Text      string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector;not null"`
	Model     string          `gorm:"type:varchar(100);not null;index"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (FaqEmbedding) TableName() string {
	return "faq_embeddings"
}
