package cuemusic

import (
	"time"

	domlib "github.com/AndiJegeni/cuemusic/internal/domain/library"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/result"
	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
)

// Sound is a catalogue entry. Zero BPM and empty Key mean unknown.
type Sound struct {
	ID        string
	Name      string
	URL       string
	Tags      []string
	BPM       int
	Key       string
	LibraryID string
	CreatedAt time.Time
}

// NewSound holds the fields of a sound to create.
type NewSound struct {
	Name      string
	URL       string
	Tags      []string
	BPM       int
	Key       string
	LibraryID string
}

// ImportOptions overrides or completes the tags read from an audio file.
type ImportOptions struct {
	Filename  string
	Name      string
	URL       string
	Tags      []string
	LibraryID string
}

// SoundPage is one page of a library listing.
type SoundPage struct {
	Sounds     []Sound
	NextCursor string
}

// Query is a search request. Every field is optional.
type Query struct {
	Text string
	BPM  int
	Key  string
}

// Hit is a ranked search result. Score is zero when the query had no text.
type Hit struct {
	Sound  Sound
	Score  float64
	Scored bool
}

// Library groups a user's sounds.
type Library struct {
	ID        string
	Name      string
	UserID    string
	CreatedAt time.Time
}

// QuotaInfo describes a user's position in the search quota.
type QuotaInfo struct {
	Used     int64
	Limit    int64
	ResetsAt time.Time
}

func fromInternalSound(s domsound.Sound) Sound {
	bpm, _ := s.BPM()
	key, _ := s.Key()
	return Sound{
		ID:        s.ID(),
		Name:      s.Name(),
		URL:       s.URL(),
		Tags:      s.Tags(),
		BPM:       bpm,
		Key:       key,
		LibraryID: s.LibraryID(),
		CreatedAt: time.UnixMilli(s.CreatedAt()).UTC(),
	}
}

func fromInternalHits(hits []result.Hit) []Hit {
	out := make([]Hit, len(hits))
	for i := range hits {
		out[i] = Hit{
			Sound:  fromInternalSound(hits[i].Sound()),
			Score:  hits[i].Score(),
			Scored: hits[i].Scored(),
		}
	}
	return out
}

func fromInternalLibrary(l domlib.Library) Library {
	return Library{
		ID:        l.ID(),
		Name:      l.Name(),
		UserID:    l.UserID(),
		CreatedAt: time.UnixMilli(l.CreatedAt()).UTC(),
	}
}
