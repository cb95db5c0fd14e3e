package query

import (
	"fmt"
	"strings"
)

// MaxQueryLength is the maximum allowed search text length.
const MaxQueryLength = 4096

// Query is a validated sound search.
// Every field is optional: an empty query lists every candidate.
type Query struct {
	text string
	bpm  int // 0 = not set
	key  string
}

// New validates search parameters.
// bpm <= 0 is rejected; callers pass 0 for "not set". A blank key means "not set".
func New(text string, bpm int, key string) (Query, error) {
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if bpm < 0 {
		return Query{}, fmt.Errorf("bpm must be positive, got %d", bpm)
	}
	return Query{
		text: text,
		bpm:  bpm,
		key:  strings.TrimSpace(key),
	}, nil
}

// Text returns the raw search text.
func (q *Query) Text() string { return q.text }

// HasText reports whether relevance scoring applies.
func (q *Query) HasText() bool { return q.text != "" }

// BPM returns the requested tempo and whether it is set.
func (q *Query) BPM() (int, bool) { return q.bpm, q.bpm > 0 }

// Key returns the requested musical key and whether it is set.
func (q *Query) Key() (string, bool) { return q.key, q.key != "" }

// IsEmpty reports whether no criterion is set.
func (q *Query) IsEmpty() bool {
	return q.text == "" && q.bpm == 0 && q.key == ""
}
