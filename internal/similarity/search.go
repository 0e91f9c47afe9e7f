// Package similarity ranks a profile's stored post texts against a query
// using cosine similarity over the trained TF-IDF vocabulary.
package similarity

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/celestial/post-api/internal/domain"
	"github.com/celestial/post-api/internal/trainer"
)

// ErrNoIndex is returned when a search runs against an untrained profile.
var ErrNoIndex = errors.New("profile has no trained index")

// Index answers top-k similar-text queries for one trained profile.
type Index struct {
	vocabulary map[string]float64
	texts      []string
	vectors    []map[string]float64
}

// NewIndex builds a search index from a trained profile.
func NewIndex(profile *domain.TrainedProfile) (*Index, error) {
	if profile == nil || len(profile.SampleTexts) == 0 {
		return nil, ErrNoIndex
	}

	idx := &Index{
		vocabulary: profile.Vocabulary,
		texts:      profile.SampleTexts,
		vectors:    make([]map[string]float64, len(profile.SampleTexts)),
	}
	for i, text := range profile.SampleTexts {
		idx.vectors[i] = idx.vectorize(text)
	}

	return idx, nil
}

// Query returns up to k stored texts most similar to the query, best
// first. A blank query or one sharing no vocabulary with the corpus
// returns nil.
func (idx *Index) Query(query string, k int) []string {
	if strings.TrimSpace(query) == "" || k <= 0 {
		return nil
	}

	qv := idx.vectorize(query)
	if len(qv) == 0 {
		return nil
	}

	type scored struct {
		pos   int
		score float64
	}

	var hits []scored
	for i, dv := range idx.vectors {
		if score := cosine(qv, dv); score > 0 {
			hits = append(hits, scored{pos: i, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]string, 0, len(hits))
	for _, h := range hits {
		results = append(results, idx.texts[h.pos])
	}
	return results
}

// vectorize maps a text to its weighted term-frequency vector over the
// trained vocabulary. Terms outside the vocabulary contribute nothing.
func (idx *Index) vectorize(text string) map[string]float64 {
	vec := make(map[string]float64)
	for term := range trainer.Terms(text) {
		if weight, ok := idx.vocabulary[term]; ok {
			vec[term] += weight
		}
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, wa := range a {
		normA += wa * wa
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
