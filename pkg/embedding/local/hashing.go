package local

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"veena-assistant-be/pkg/embedding"
)

const DefaultDimension = 512

// HashingProvider is an offline encoder: unigrams and bigrams hashed into a
// fixed number of buckets, sublinear term frequency, L2 normalized.
// It needs no corpus fitting, so vectors stay comparable across reloads.
type HashingProvider struct {
	dimension    int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

var _ embedding.EmbeddingProvider = &HashingProvider{}

func NewHashingProvider(dimension int) *HashingProvider {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &HashingProvider{
		dimension: dimension,
		// Marks are included so Devanagari and Gujarati vowel signs stay inside words
		tokenPattern: regexp.MustCompile(`[\p{L}\p{M}\p{N}]+(?:['’][\p{L}\p{M}]+)*`),
		stopwords:    defaultStopwords(),
	}
}

func (p *HashingProvider) Model() string {
	return fmt.Sprintf("local/hashed-bow-%d", p.dimension)
}

func (p *HashingProvider) Generate(_ context.Context, text string, _ string) (*embedding.EmbeddingResponse, error) {
	tokens := p.tokenize(text)

	counts := make(map[string]int, len(tokens)*2)
	for i, tok := range tokens {
		counts[tok]++
		if i > 0 {
			counts[tokens[i-1]+" "+tok]++
		}
	}

	vec := make([]float32, p.dimension)
	for feature, count := range counts {
		bucket, sign := p.bucket(feature)
		vec[bucket] += sign * float32(1+math.Log(float64(count)))
	}

	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{
			Values: embedding.NormalizeVector(vec),
		},
	}, nil
}

func (p *HashingProvider) bucket(feature string) (int, float32) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum32()

	sign := float32(1)
	if sum&0x80000000 != 0 {
		sign = -1
	}
	return int(sum % uint32(p.dimension)), sign
}

func (p *HashingProvider) tokenize(text string) []string {
	raw := p.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := p.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "for", "to", "of", "in", "on", "at", "by",
		"with", "as", "is", "are", "was", "were", "be", "been", "it", "this", "that", "these", "those",
		"from", "so", "can", "will", "just", "i", "my", "me", "you", "your", "we", "our", "do", "does",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
