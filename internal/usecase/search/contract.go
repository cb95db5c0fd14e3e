package search

import (
	"context"

	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	"github.com/AndiJegeni/cuemusic/internal/domain/quota"
	"github.com/AndiJegeni/cuemusic/internal/domain/sound"
)

// Repository provides the full candidate set for a search.
type Repository interface {
	ListAll(ctx context.Context) ([]sound.Sound, error)
}

// QuotaGate decides whether a search may run and counts it afterwards.
type QuotaGate interface {
	Allow(ctx context.Context, id identity.Identity) (quota.Decision, error)
	// Record counts one search and returns the searches left (-1 if unlimited).
	Record(id identity.Identity) int64
}
