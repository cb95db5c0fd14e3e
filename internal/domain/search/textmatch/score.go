package textmatch

import "strings"

// Score weights. An exact hit is worth four partial hits.
const (
	ExactWeight   = 2.0
	PartialWeight = 0.5
	// MinScore is the relevance threshold: at least one exact match.
	MinScore = ExactWeight
)

// Match holds per-query hit counts against one tag vocabulary.
type Match struct {
	Exact   int
	Partial int
}

// Score returns the weighted relevance.
func (m Match) Score() float64 {
	return float64(m.Exact)*ExactWeight + float64(m.Partial)*PartialWeight
}

// Vocabulary is the de-duplicated set of normalized tag words.
type Vocabulary struct {
	set   map[string]struct{}
	words []string
}

// NewVocabulary normalizes every tag (tags may hold several words) into one set.
func NewVocabulary(labels []string) Vocabulary {
	v := Vocabulary{set: make(map[string]struct{})}
	for _, label := range labels {
		for _, w := range NormalizeWords(label) {
			if _, seen := v.set[w]; seen {
				continue
			}
			v.set[w] = struct{}{}
			v.words = append(v.words, w)
		}
	}
	return v
}

// Len returns the number of distinct words.
func (v Vocabulary) Len() int { return len(v.words) }

// Contains reports whether word is in the vocabulary.
func (v Vocabulary) Contains(word string) bool {
	_, ok := v.set[word]
	return ok
}

// Match counts exact and partial hits for the query words, with multiplicity.
// A word counts as partial only when it has no exact hit and is a strict substring
// of some vocabulary word.
func (v Vocabulary) Match(queryWords []string) Match {
	var m Match
	if len(v.words) == 0 {
		return m
	}
	for _, q := range queryWords {
		if q == "" {
			continue
		}
		if v.Contains(q) {
			m.Exact++
			continue
		}
		for _, w := range v.words {
			if strings.Contains(w, q) {
				m.Partial++
				break
			}
		}
	}
	return m
}

// Score computes the relevance of tags for already normalized query words.
func Score(labels []string, queryWords []string) float64 {
	if len(labels) == 0 || len(queryWords) == 0 {
		return 0
	}
	return NewVocabulary(labels).Match(queryWords).Score()
}
