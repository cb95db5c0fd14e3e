package result

import "github.com/AndiJegeni/cuemusic/internal/domain/sound"

// Hit is a single search hit: a sound plus its relevance.
type Hit struct {
	sound  sound.Sound
	score  float64
	scored bool
}

// New creates a hit for a text search.
func New(s sound.Sound, score float64) Hit {
	return Hit{sound: s, score: score, scored: true}
}

// Unscored creates a hit for a search without text (filters only).
func Unscored(s sound.Sound) Hit {
	return Hit{sound: s}
}

// Sound returns the matched sound.
func (h *Hit) Sound() sound.Sound { return h.sound }

// Score returns the relevance score (0 for unscored hits).
func (h *Hit) Score() float64 { return h.score }

// Scored reports whether a relevance score was computed.
func (h *Hit) Scored() bool { return h.scored }
