// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Similarity computes the cosine similarity between two token slices
// over their pair-local vocabulary. Tokens on the stop-word list are
// excluded from the frequency counts. Disjoint vocabularies, or a
// sentence of nothing but stop words, give 0.
func (s *Summarizer) Similarity(a, b []string) float64 {
	vocab := make(map[string]int)
	addVocab := func(tokens []string) {
		for _, w := range tokens {
			if _, stopped := s.stop[w]; stopped {
				continue
			}
			if _, ok := vocab[w]; !ok {
				vocab[w] = len(vocab)
			}
		}
	}
	addVocab(a)
	addVocab(b)

	if len(vocab) == 0 {
		return 0
	}

	va := make([]float64, len(vocab))
	vb := make([]float64, len(vocab))
	for _, w := range a {
		if idx, ok := vocab[w]; ok {
			va[idx]++
		}
	}
	for _, w := range b {
		if idx, ok := vocab[w]; ok {
			vb[idx]++
		}
	}

	normA := math.Sqrt(floats.Dot(va, va))
	normB := math.Sqrt(floats.Dot(vb, vb))
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(va, vb) / (normA * normB)
}

// similarityMatrix builds the symmetric edge-weight matrix over all
// sentence pairs. The diagonal stays zero: a sentence has no edge to
// itself.
func (s *Summarizer) similarityMatrix(tokens [][]string) *mat.Dense {
	n := len(tokens)
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := s.Similarity(tokens[i], tokens[j])
			m.Set(i, j, sim)
			m.Set(j, i, sim)
		}
	}
	return m
}
