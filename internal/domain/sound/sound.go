package sound

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AndiJegeni/cuemusic/internal/domain/sound/tags"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Sound limits.
const (
	MaxNameLength = 256
	MaxKeyLength  = 32
	MaxTags       = 64
	MaxTagLength  = 64
	MaxBPM        = 999
)

// Sound is a catalogued audio sample (immutable value object).
type Sound struct {
	id        string
	name      string
	url       string
	tags      []string
	bpm       int // 0 = not set
	key       string
	libraryID string
	createdAt int64 // unix millis
}

// New validates and creates a Sound.
// bpm <= 0 and a blank key mean "not set". Tags are trimmed and empty labels dropped.
func New(
	id, name, url string, labels []string, bpm int, key, libraryID string, createdAt int64,
) (Sound, error) {
	if id == "" {
		return Sound{}, fmt.Errorf("sound ID is required")
	}
	if len(id) > 256 || !idRegex.MatchString(id) {
		return Sound{}, fmt.Errorf("sound ID must be 1-256 alphanumeric, underscore or hyphen characters")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Sound{}, fmt.Errorf("name is required")
	}
	if len(name) > MaxNameLength {
		return Sound{}, fmt.Errorf("name too long (max %d)", MaxNameLength)
	}
	if libraryID == "" {
		return Sound{}, fmt.Errorf("library ID is required")
	}
	if bpm > MaxBPM {
		return Sound{}, fmt.Errorf("bpm must be at most %d, got %d", MaxBPM, bpm)
	}
	if bpm < 0 {
		bpm = 0
	}
	key = strings.TrimSpace(key)
	if len(key) > MaxKeyLength {
		return Sound{}, fmt.Errorf("key too long (max %d)", MaxKeyLength)
	}

	cleaned := tags.Resolve(labels)
	if len(cleaned) > MaxTags {
		return Sound{}, fmt.Errorf("too many tags (max %d)", MaxTags)
	}
	for _, t := range cleaned {
		if len(t) > MaxTagLength {
			return Sound{}, fmt.Errorf("tag %q too long (max %d)", t, MaxTagLength)
		}
	}

	return Sound{
		id:        id,
		name:      name,
		url:       strings.TrimSpace(url),
		tags:      cleaned,
		bpm:       bpm,
		key:       key,
		libraryID: libraryID,
		createdAt: createdAt,
	}, nil
}

// Reconstruct creates a Sound without validation (storage hydration).
func Reconstruct(
	id, name, url string, labels []string, bpm int, key, libraryID string, createdAt int64,
) Sound {
	return Sound{
		id: id, name: name, url: url, tags: labels, bpm: bpm, key: key,
		libraryID: libraryID, createdAt: createdAt,
	}
}

// ID returns the sound identifier.
func (s *Sound) ID() string { return s.id }

// Name returns the display name.
func (s *Sound) Name() string { return s.name }

// URL returns the public audio URL.
func (s *Sound) URL() string { return s.url }

// Tags returns the tag labels.
func (s *Sound) Tags() []string { return s.tags }

// BPM returns the tempo and whether it is set.
func (s *Sound) BPM() (int, bool) { return s.bpm, s.bpm > 0 }

// Key returns the musical key and whether it is set.
func (s *Sound) Key() (string, bool) { return s.key, s.key != "" }

// LibraryID returns the owning library.
func (s *Sound) LibraryID() string { return s.libraryID }

// CreatedAt returns the creation timestamp (unix millis).
func (s *Sound) CreatedAt() int64 { return s.createdAt }
