package sound

import (
	"context"
	"io"

	domlib "github.com/AndiJegeni/cuemusic/internal/domain/library"
	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
)

// Repository defines the storage contract for sounds.
type Repository interface {
	Put(ctx context.Context, s domsound.Sound) error
	Get(ctx context.Context, id string) (domsound.Sound, error)
	ListByLibrary(ctx context.Context, libraryID, cursor string, limit int) (
		sounds []domsound.Sound, nextCursor string, err error,
	)
	Delete(ctx context.Context, id string) error
}

// LibraryResolver reads libraries and resolves a user's default one.
type LibraryResolver interface {
	Get(ctx context.Context, id string) (domlib.Library, error)
	GetOrCreateDefault(ctx context.Context, userID string) (domlib.Library, error)
}

// TagReader extracts metadata from an audio file. filename hints the container format.
type TagReader interface {
	Read(ctx context.Context, r io.Reader, filename string) (domsound.Metadata, error)
}
