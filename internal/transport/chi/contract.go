package chi

import (
	"context"
	"io"

	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	domlib "github.com/AndiJegeni/cuemusic/internal/domain/library"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/query"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/result"
	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
	domusage "github.com/AndiJegeni/cuemusic/internal/domain/usage"
	healthuc "github.com/AndiJegeni/cuemusic/internal/usecase/health"
	sounduc "github.com/AndiJegeni/cuemusic/internal/usecase/sound"
)

// SearchService runs quota-gated searches.
type SearchService interface {
	Search(ctx context.Context, q query.Query) ([]result.Hit, error)
}

// SoundService manages sounds.
type SoundService interface {
	Create(ctx context.Context, in sounduc.CreateInput) (domsound.Sound, error)
	Import(ctx context.Context, r io.Reader, in sounduc.ImportInput) (domsound.Sound, error)
	Get(ctx context.Context, id string) (domsound.Sound, error)
	List(ctx context.Context, userID, cursor string, limit int) ([]domsound.Sound, string, error)
	Delete(ctx context.Context, userID, id string) error
}

// LibraryService manages libraries.
type LibraryService interface {
	GetOrCreateDefault(ctx context.Context, userID string) (domlib.Library, error)
	Create(ctx context.Context, userID, name string) (domlib.Library, error)
	List(ctx context.Context, userID string) ([]domlib.Library, error)
}

// UsageService reports search usage.
type UsageService interface {
	GetReport(ctx context.Context, id identity.Identity, period domusage.Period) domusage.Report
	SearchCount(ctx context.Context, id identity.Identity) int64
}

// HealthService checks dependencies.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
