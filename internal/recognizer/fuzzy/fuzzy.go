// Package fuzzy implements edit-distance nearest-neighbour matching of raw
// transcript tokens against the product lexicon.
//
// The score for a candidate is the Levenshtein distance divided by
// max(lengthFloor, max(len(input), len(candidate))), computed on runes. The
// length floor keeps the score from being inflated for very short grocery
// tokens — without it a single-edit miss on a three-letter word would never
// be accepted. A match is accepted only when its normalized score is at or
// below the threshold; otherwise the input is returned unchanged.
//
// The default threshold (0.45) and floor (3) were tuned against short grocery
// item names and are preserved exactly. A [Matcher] is read-only after
// construction and safe for concurrent use.
package fuzzy

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultThreshold   = 0.45
	defaultLengthFloor = 3
)

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithThreshold sets the maximum normalized score accepted as a match.
// Default: 0.45.
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

// WithLengthFloor sets the minimum denominator used when normalizing the
// edit distance. Default: 3.
func WithLengthFloor(floor int) Option {
	return func(m *Matcher) {
		m.lengthFloor = floor
	}
}

// Matcher is an edit-distance classifier with a fixed acceptance threshold.
type Matcher struct {
	threshold   float64
	lengthFloor int
}

// New returns a [Matcher] with the supplied options applied over the tuned
// defaults.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		threshold:   defaultThreshold,
		lengthFloor: defaultLengthFloor,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Match finds the candidate with the lowest normalized edit distance to
// input. When the best score is within the acceptance threshold it returns
// that candidate with matched=true; otherwise it returns the lower-cased
// input unchanged with matched=false and the best score seen (or 0 when
// there were no candidates).
//
// Comparison is case-insensitive; candidates are expected lower-cased.
func (m *Matcher) Match(input string, candidates []string) (best string, score float64, matched bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" || len(candidates) == 0 {
		return in, 0, false
	}

	bestScore := -1.0
	bestCandidate := ""
	for _, c := range candidates {
		if c == "" {
			continue
		}
		s := m.Score(in, c)
		if bestScore < 0 || s < bestScore {
			bestScore = s
			bestCandidate = c
		}
	}

	if bestScore >= 0 && bestScore <= m.threshold {
		return bestCandidate, bestScore, true
	}
	if bestScore < 0 {
		bestScore = 0
	}
	return in, bestScore, false
}

// Score returns the normalized edit distance between a and b:
// Levenshtein(a, b) / max(floor, max(len(a), len(b))), on runes.
func (m *Matcher) Score(a, b string) float64 {
	dist := matchr.Levenshtein(a, b)
	denom := len([]rune(a))
	if n := len([]rune(b)); n > denom {
		denom = n
	}
	if denom < m.lengthFloor {
		denom = m.lengthFloor
	}
	return float64(dist) / float64(denom)
}
