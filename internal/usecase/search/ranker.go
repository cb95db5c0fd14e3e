package search

import (
	"sort"
	"strings"

	"github.com/AndiJegeni/cuemusic/internal/domain/search/query"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/result"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/textmatch"
	"github.com/AndiJegeni/cuemusic/internal/domain/sound"
)

// DefaultBPMTolerance is the accepted tempo deviation, inclusive.
const DefaultBPMTolerance = 5

// Rank filters candidates against q and orders them by relevance.
// It is pure and safe for concurrent use; candidates are never mutated.
func Rank(candidates []sound.Sound, q query.Query) []result.Hit {
	return RankWithTolerance(candidates, q, DefaultBPMTolerance)
}

// RankWithTolerance is Rank with a configurable BPM tolerance.
//
// A candidate is kept iff every active criterion passes:
//   - text: tag score >= textmatch.MinScore (skipped when the text is empty)
//   - bpm: |bpm - target| <= tolerance (skipped unless both are set)
//   - key: case-insensitive equality (skipped unless both are set)
//
// Hits are stable-sorted by score, highest first. The result is never nil.
func RankWithTolerance(candidates []sound.Sound, q query.Query, tolerance int) []result.Hit {
	hits := make([]result.Hit, 0, len(candidates))

	var words []string
	scored := q.HasText()
	if scored {
		words = textmatch.NormalizeWords(q.Text())
	}
	targetBPM, hasBPM := q.BPM()
	targetKey, hasKey := q.Key()

	for i := range candidates {
		s := candidates[i]

		var score float64
		if scored {
			score = textmatch.Score(s.Tags(), words)
			if score < textmatch.MinScore {
				continue
			}
		}
		if hasBPM && !bpmMatches(s, targetBPM, tolerance) {
			continue
		}
		if hasKey && !keyMatches(s, targetKey) {
			continue
		}

		if scored {
			hits = append(hits, result.New(s, score))
		} else {
			hits = append(hits, result.Unscored(s))
		}
	}

	if scored {
		sort.SliceStable(hits, func(i, j int) bool {
			return hits[i].Score() > hits[j].Score()
		})
	}
	return hits
}

// bpmMatches passes sounds without a tempo.
func bpmMatches(s sound.Sound, target, tolerance int) bool {
	bpm, ok := s.BPM()
	if !ok {
		return true
	}
	d := bpm - target
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// keyMatches passes sounds without a key.
func keyMatches(s sound.Sound, target string) bool {
	key, ok := s.Key()
	if !ok {
		return true
	}
	return strings.EqualFold(key, target)
}
