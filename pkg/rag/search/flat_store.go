package search

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
)

type flatSnapshot struct {
	model     string
	rows      []Row
	dimension int
}

// FlatStore is an exact, brute-force L2 store held in memory.
type FlatStore struct {
	snapshot atomic.Pointer[flatSnapshot]
}

var _ VectorStore = &FlatStore{}

func NewFlatStore() *FlatStore {
	s := &FlatStore{}
	s.snapshot.Store(&flatSnapshot{})
	return s
}

func (s *FlatStore) Replace(_ context.Context, model string, rows []Row) error {
	next := &flatSnapshot{model: model, rows: make([]Row, len(rows))}
	for i, row := range rows {
		if i == 0 {
			next.dimension = len(row.Vector)
		} else if len(row.Vector) != next.dimension {
			return fmt.Errorf("%w: row %d has dimension %d, expected %d", ErrMisaligned, i, len(row.Vector), next.dimension)
		}
		vec := make([]float32, len(row.Vector))
		copy(vec, row.Vector)
		next.rows[i] = Row{Position: row.Position, Text: row.Text, Vector: vec}
	}

	s.snapshot.Store(next)
	return nil
}

func (s *FlatStore) Nearest(_ context.Context, vector []float32, k int) ([]Hit, error) {
	snap := s.snapshot.Load()
	if k <= 0 || len(snap.rows) == 0 {
		return []Hit{}, nil
	}
	if len(vector) != snap.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(vector), snap.dimension)
	}

	hits := make([]Hit, len(snap.rows))
	for i, row := range snap.rows {
		hits[i] = Hit{Position: row.Position, Text: row.Text, Distance: squaredL2(vector, row.Vector)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Position < hits[j].Position
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func (s *FlatStore) Len() int {
	return len(s.snapshot.Load().rows)
}

func (s *FlatStore) Model() string {
	return s.snapshot.Load().model
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
