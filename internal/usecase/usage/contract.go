package usage

import (
	"context"

	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	domquota "github.com/AndiJegeni/cuemusic/internal/domain/quota"
)

// StatusReader provides read-only access to per-user quota counters.
type StatusReader interface {
	Status(ctx context.Context, id identity.Identity) domquota.Status
}
