package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AndiJegeni/cuemusic/internal/domain"
	domlib "github.com/AndiJegeni/cuemusic/internal/domain/library"
)

// Service handles library lifecycle.
type Service struct {
	repo  Repository
	newID func() string
	now   func() time.Time
}

// New creates a library service.
func New(repo Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString, now: time.Now}
}

// GetOrCreateDefault returns the user's default library, creating it on first use.
// Concurrent first calls converge on one library; the loser's library is removed.
func (s *Service) GetOrCreateDefault(ctx context.Context, userID string) (domlib.Library, error) {
	id, err := s.repo.DefaultID(ctx, userID)
	switch {
	case err == nil:
		lib, getErr := s.repo.Get(ctx, id)
		if getErr != nil {
			return domlib.Library{}, fmt.Errorf("get default library: %w", getErr)
		}
		return lib, nil
	case !errors.Is(err, domain.ErrLibraryNotFound):
		return domlib.Library{}, fmt.Errorf("lookup default library: %w", err)
	}

	lib, err := s.create(ctx, userID, domlib.DefaultName)
	if err != nil {
		return domlib.Library{}, err
	}

	winner, err := s.repo.ClaimDefault(ctx, userID, lib.ID())
	if err != nil {
		return domlib.Library{}, fmt.Errorf("claim default library: %w", err)
	}
	if winner == lib.ID() {
		return lib, nil
	}

	if err := s.repo.Delete(ctx, lib.ID()); err != nil {
		return domlib.Library{}, fmt.Errorf("drop duplicate default library: %w", err)
	}
	existing, err := s.repo.Get(ctx, winner)
	if err != nil {
		return domlib.Library{}, fmt.Errorf("get default library: %w", err)
	}
	return existing, nil
}

// Create stores a new named library for the user.
func (s *Service) Create(ctx context.Context, userID, name string) (domlib.Library, error) {
	return s.create(ctx, userID, name)
}

// Get returns a library by ID.
func (s *Service) Get(ctx context.Context, id string) (domlib.Library, error) {
	lib, err := s.repo.Get(ctx, id)
	if err != nil {
		return domlib.Library{}, fmt.Errorf("get library: %w", err)
	}
	return lib, nil
}

// List returns the user's libraries, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domlib.Library, error) {
	libs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	sort.SliceStable(libs, func(i, j int) bool {
		return libs[i].CreatedAt() > libs[j].CreatedAt()
	})
	return libs, nil
}

func (s *Service) create(ctx context.Context, userID, name string) (domlib.Library, error) {
	lib, err := domlib.New(s.newID(), name, userID, s.now().UnixMilli())
	if err != nil {
		return domlib.Library{}, fmt.Errorf("validate library: %w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, lib); err != nil {
		return domlib.Library{}, fmt.Errorf("create library: %w", err)
	}
	return lib, nil
}
