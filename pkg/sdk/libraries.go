package cuemusic

import (
	"context"
	"fmt"
	"time"
)

// LibraryService manages the context user's libraries.
type LibraryService struct {
	svc libraryUseCase
	obs *observer
}

// Default returns the user's default library, creating it on first use.
func (s *LibraryService) Default(ctx context.Context) (out Library, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "library_default", start, err) }()

	lib, err := s.svc.GetOrCreateDefault(ctx, userFromContext(ctx).UserID())
	if err != nil {
		return Library{}, fmt.Errorf("default library: %w", err)
	}
	return fromInternalLibrary(lib), nil
}

// Create adds a named library.
func (s *LibraryService) Create(ctx context.Context, name string) (out Library, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "library_create", start, err) }()

	lib, err := s.svc.Create(ctx, userFromContext(ctx).UserID(), name)
	if err != nil {
		return Library{}, fmt.Errorf("create library: %w", err)
	}
	return fromInternalLibrary(lib), nil
}

// Get retrieves a library by ID.
func (s *LibraryService) Get(ctx context.Context, id string) (out Library, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "library_get", start, err) }()

	lib, err := s.svc.Get(ctx, id)
	if err != nil {
		return Library{}, fmt.Errorf("get library: %w", err)
	}
	return fromInternalLibrary(lib), nil
}

// List returns the user's libraries, newest first.
func (s *LibraryService) List(ctx context.Context) (out []Library, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "library_list", start, err) }()

	libs, err := s.svc.List(ctx, userFromContext(ctx).UserID())
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	out = make([]Library, len(libs))
	for i, l := range libs {
		out[i] = fromInternalLibrary(l)
	}
	return out, nil
}
