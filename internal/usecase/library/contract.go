package library

import (
	"context"

	domlib "github.com/AndiJegeni/cuemusic/internal/domain/library"
)

// Repository defines the storage contract for libraries.
type Repository interface {
	Create(ctx context.Context, lib domlib.Library) error
	Get(ctx context.Context, id string) (domlib.Library, error)
	ListByUser(ctx context.Context, userID string) ([]domlib.Library, error)
	Delete(ctx context.Context, id string) error
	// DefaultID returns the user's default library ID or domain.ErrLibraryNotFound.
	DefaultID(ctx context.Context, userID string) (string, error)
	// ClaimDefault sets the user's default library unless one is set already.
	// It returns the ID that holds the claim afterwards.
	ClaimDefault(ctx context.Context, userID, libraryID string) (string, error)
}
