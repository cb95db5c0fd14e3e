package quota

import (
	"context"
	"time"

	domquota "github.com/AndiJegeni/cuemusic/internal/domain/quota"
)

// Store is the persistence interface for per-user search counters.
// IncrBy must be safe to call repeatedly.
type Store interface {
	Get(ctx context.Context, userID string, w domquota.Window, t time.Time) (int64, error)
	IncrBy(ctx context.Context, userID string, w domquota.Window, t time.Time, val int64) error
}
