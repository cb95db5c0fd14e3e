package sound

import (
	"strconv"

	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
	"github.com/AndiJegeni/cuemusic/internal/domain/sound/tags"
)

// Hash field names.
const (
	fieldName      = "name"
	fieldURL       = "url"
	fieldTags      = "tags"
	fieldBPM       = "bpm"
	fieldKey       = "key"
	fieldLibraryID = "library_id"
	fieldCreatedAt = "created_at"
)

// soundToHash converts a Sound into a flat map for HSET. Unset BPM and key are omitted.
func soundToHash(s domsound.Sound) map[string]string {
	m := map[string]string{
		fieldName:      s.Name(),
		fieldURL:       s.URL(),
		fieldTags:      tags.Join(s.Tags()),
		fieldLibraryID: s.LibraryID(),
		fieldCreatedAt: strconv.FormatInt(s.CreatedAt(), 10),
	}
	if bpm, ok := s.BPM(); ok {
		m[fieldBPM] = strconv.Itoa(bpm)
	}
	if key, ok := s.Key(); ok {
		m[fieldKey] = key
	}
	return m
}

// hashToSound hydrates a Sound from its hash. Malformed numbers read as unset.
func hashToSound(id string, m map[string]string) domsound.Sound {
	bpm, err := strconv.Atoi(m[fieldBPM])
	if err != nil || bpm < 0 {
		bpm = 0
	}
	createdAt, err := strconv.ParseInt(m[fieldCreatedAt], 10, 64)
	if err != nil {
		createdAt = 0
	}
	return domsound.Reconstruct(
		id,
		m[fieldName],
		m[fieldURL],
		tags.FromDelimited(m[fieldTags]),
		bpm,
		m[fieldKey],
		m[fieldLibraryID],
		createdAt,
	)
}
