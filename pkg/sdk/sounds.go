package cuemusic

import (
	"context"
	"fmt"
	"io"
	"time"

	sounduc "github.com/AndiJegeni/cuemusic/internal/usecase/sound"
)

// SoundService manages catalogue entries.
type SoundService struct {
	svc soundUseCase
	obs *observer
}

// Create stores a new sound in an existing library.
func (s *SoundService) Create(ctx context.Context, in NewSound) (out Sound, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "sound_create", start, err) }()

	snd, err := s.svc.Create(ctx, sounduc.CreateInput{
		Name:      in.Name,
		URL:       in.URL,
		Tags:      in.Tags,
		BPM:       in.BPM,
		Key:       in.Key,
		LibraryID: in.LibraryID,
	})
	if err != nil {
		return Sound{}, fmt.Errorf("create sound: %w", err)
	}
	return fromInternalSound(snd), nil
}

// Import reads an audio file's tags and stores a sound built from them.
// Requires WithAudioImport.
func (s *SoundService) Import(ctx context.Context, r io.Reader, opts ImportOptions) (out Sound, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "sound_import", start, err) }()

	snd, err := s.svc.Import(ctx, r, sounduc.ImportInput{
		Filename:  opts.Filename,
		Name:      opts.Name,
		URL:       opts.URL,
		Tags:      opts.Tags,
		LibraryID: opts.LibraryID,
	})
	if err != nil {
		return Sound{}, fmt.Errorf("import sound: %w", err)
	}
	return fromInternalSound(snd), nil
}

// Get retrieves a sound by ID.
func (s *SoundService) Get(ctx context.Context, id string) (out Sound, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "sound_get", start, err) }()

	snd, err := s.svc.Get(ctx, id)
	if err != nil {
		return Sound{}, fmt.Errorf("get sound: %w", err)
	}
	return fromInternalSound(snd), nil
}

// List returns a page of the user's default library, newest first.
func (s *SoundService) List(ctx context.Context, cursor string, limit int) (page SoundPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "sound_list", start, err) }()

	sounds, next, err := s.svc.List(ctx, userFromContext(ctx).UserID(), cursor, limit)
	if err != nil {
		return SoundPage{}, fmt.Errorf("list sounds: %w", err)
	}
	out := make([]Sound, len(sounds))
	for i, snd := range sounds {
		out[i] = fromInternalSound(snd)
	}
	return SoundPage{Sounds: out, NextCursor: next}, nil
}

// Delete removes a sound from the user's default library.
func (s *SoundService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "sound_delete", start, err) }()

	if err = s.svc.Delete(ctx, userFromContext(ctx).UserID(), id); err != nil {
		return fmt.Errorf("delete sound: %w", err)
	}
	return nil
}
