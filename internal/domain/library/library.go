package library

import (
	"fmt"
	"strings"
)

// MaxNameLength is the maximum library name length.
const MaxNameLength = 128

// DefaultName is the name of the library created on demand for a user.
const DefaultName = "My Library"

// Library is a user-owned set of sounds (immutable value object).
type Library struct {
	id        string
	name      string
	userID    string
	createdAt int64 // unix millis
}

// New validates and creates a Library. An empty name falls back to DefaultName.
func New(id, name, userID string, createdAt int64) (Library, error) {
	if id == "" {
		return Library{}, fmt.Errorf("library ID is required")
	}
	if userID == "" {
		return Library{}, fmt.Errorf("user ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if len(name) > MaxNameLength {
		return Library{}, fmt.Errorf("library name too long (max %d)", MaxNameLength)
	}
	return Library{id: id, name: name, userID: userID, createdAt: createdAt}, nil
}

// Reconstruct creates a Library without validation (storage hydration).
func Reconstruct(id, name, userID string, createdAt int64) Library {
	return Library{id: id, name: name, userID: userID, createdAt: createdAt}
}

// ID returns the library identifier.
func (l *Library) ID() string { return l.id }

// Name returns the display name.
func (l *Library) Name() string { return l.name }

// UserID returns the owner.
func (l *Library) UserID() string { return l.userID }

// CreatedAt returns the creation timestamp (unix millis).
func (l *Library) CreatedAt() int64 { return l.createdAt }

// OwnedBy reports whether userID owns the library.
func (l *Library) OwnedBy(userID string) bool { return l.userID == userID }
