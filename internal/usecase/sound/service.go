package sound

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/AndiJegeni/cuemusic/internal/domain"
	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
)

// CreateInput holds the caller-supplied fields of a new sound.
type CreateInput struct {
	Name      string
	URL       string
	Tags      []string
	BPM       int
	Key       string
	LibraryID string
}

// ImportInput holds the fields that override or complete an audio file's own tags.
type ImportInput struct {
	Filename  string
	Name      string
	URL       string
	Tags      []string
	LibraryID string
}

// Service handles sound CRUD and metadata import.
type Service struct {
	repo            Repository
	libs            LibraryResolver
	tags            TagReader
	newID           func() string
	now             func() time.Time
	defaultPageSize int
	maxPageSize     int
}

// New creates a sound service. tags can be nil (import disabled).
func New(repo Repository, libs LibraryResolver, tags TagReader) *Service {
	return &Service{
		repo:            repo,
		libs:            libs,
		tags:            tags,
		newID:           uuid.NewString,
		now:             time.Now,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Create validates and stores a new sound in an existing library.
func (s *Service) Create(ctx context.Context, in CreateInput) (domsound.Sound, error) {
	if in.LibraryID == "" {
		return domsound.Sound{}, fmt.Errorf("library_id is required: %w", domain.ErrInvalidInput)
	}
	if _, err := s.libs.Get(ctx, in.LibraryID); err != nil {
		return domsound.Sound{}, fmt.Errorf("get library: %w", err)
	}

	snd, err := domsound.New(
		s.newID(), in.Name, in.URL, in.Tags, in.BPM, in.Key, in.LibraryID, s.now().UnixMilli(),
	)
	if err != nil {
		return domsound.Sound{}, fmt.Errorf("validate sound: %w: %w", domain.ErrInvalidInput, err)
	}

	if err := s.repo.Put(ctx, snd); err != nil {
		return domsound.Sound{}, fmt.Errorf("put sound: %w", err)
	}
	return snd, nil
}

// Import reads BPM, key, title and genre from an audio file and stores a sound built from them.
// Explicit input fields win over file tags; supplied tags are merged with the file's genres.
// The audio itself is not kept.
func (s *Service) Import(ctx context.Context, r io.Reader, in ImportInput) (domsound.Sound, error) {
	if s.tags == nil {
		return domsound.Sound{}, fmt.Errorf("audio import is not configured: %w", domain.ErrInvalidInput)
	}

	md, err := s.tags.Read(ctx, r, in.Filename)
	if err != nil {
		return domsound.Sound{}, fmt.Errorf("read audio tags: %w: %w", domain.ErrInvalidInput, err)
	}

	name := in.Name
	if name == "" {
		name = md.Title
	}
	if name == "" {
		name = domsound.NameFromFilename(in.Filename)
	}

	labels := make([]string, 0, len(in.Tags)+len(md.Genres))
	labels = append(labels, in.Tags...)
	labels = append(labels, md.Genres...)

	return s.Create(ctx, CreateInput{
		Name:      name,
		URL:       in.URL,
		Tags:      labels,
		BPM:       md.BPM,
		Key:       md.Key,
		LibraryID: in.LibraryID,
	})
}

// Get retrieves a sound by ID.
func (s *Service) Get(ctx context.Context, id string) (domsound.Sound, error) {
	snd, err := s.repo.Get(ctx, id)
	if err != nil {
		return domsound.Sound{}, fmt.Errorf("get sound: %w", err)
	}
	return snd, nil
}

// List returns a page of the user's default library.
func (s *Service) List(ctx context.Context, userID, cursor string, limit int) ([]domsound.Sound, string, error) {
	lib, err := s.libs.GetOrCreateDefault(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("resolve library: %w", err)
	}

	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	sounds, next, err := s.repo.ListByLibrary(ctx, lib.ID(), cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("list sounds: %w", err)
	}
	return sounds, next, nil
}

// Delete removes a sound from the user's default library.
// Sounds in other libraries are reported as not found.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	lib, err := s.libs.GetOrCreateDefault(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve library: %w", err)
	}

	snd, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get sound: %w", err)
	}
	if snd.LibraryID() != lib.ID() {
		return fmt.Errorf("sound %s not in library %s: %w", id, lib.ID(), domain.ErrSoundNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete sound: %w", err)
	}
	return nil
}
