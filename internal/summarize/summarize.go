// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize produces extractive summaries: sentences are ranked
// by the stationary distribution of a similarity-weighted graph and the
// top scorers are returned in document order. The package is pure and
// deterministic; identical input always yields identical output.
package summarize

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	defaultDamping       = 0.85
	defaultTolerance     = 1e-6
	defaultMaxIterations = 100
)

// Summarizer holds the ranking parameters and stop-word set.
type Summarizer struct {
	stop    map[string]struct{}
	damping float64
	tol     float64
	maxIter int
}

// New builds a Summarizer, filling zero config fields with defaults.
// The built-in English stop-word list is used unless cfg overrides it.
func New(cfg types.SummaryConfig) *Summarizer {
	damping := cfg.Damping
	if damping <= 0 || damping >= 1 {
		damping = defaultDamping
	}
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = defaultTolerance
	}
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	words := cfg.StopWords
	if len(words) == 0 {
		words = englishStopWords
	}
	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		stop[strings.ToLower(w)] = struct{}{}
	}

	return &Summarizer{stop: stop, damping: damping, tol: tol, maxIter: maxIter}
}

// Summarize returns an extractive summary of at most n sentences. When
// the text has n or fewer sentences the whitespace-normalized text is
// returned unchanged.
func (s *Summarizer) Summarize(text string, n int) string {
	normalized := NormalizeWhitespace(text)
	sentences := SplitSentences(normalized)

	if len(sentences) <= n {
		return normalized
	}

	tokens := make([][]string, len(sentences))
	for i, sent := range sentences {
		tokens[i] = Tokenize(sent)
	}

	matrix := s.similarityMatrix(tokens)
	scores := pageRank(matrix, s.damping, s.tol, s.maxIter)

	// Rank by score descending; the stable sort leaves ties in source
	// order, so equal scores prefer the earlier sentence.
	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	// Selected sentences go back into document order.
	selected := append([]int(nil), order[:n]...)
	sort.Ints(selected)

	parts := make([]string, len(selected))
	for i, idx := range selected {
		parts[i] = sentences[idx]
	}
	return strings.Join(parts, " ")
}

// NormalizeWhitespace collapses all whitespace runs, including newlines,
// to single spaces and trims the ends.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// SplitSentences splits normalized text on terminal punctuation
// (., !, ?) followed by a space or end of input. The punctuation stays
// with its sentence. Interior periods (e.g. "3.14") do not split.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] != ' ' {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// Tokenize splits a sentence into lowercased words: maximal runs of
// letters and digits.
func Tokenize(sentence string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	for _, r := range sentence {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
