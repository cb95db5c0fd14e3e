package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AndiJegeni/cuemusic/internal/db"
	domquota "github.com/AndiJegeni/cuemusic/internal/domain/quota"
)

// store is the consumer interface for counter operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}

// Store implements usecase/quota.Store on top of DB (INCRBY + EXPIRE NX, GET).
// Keys: {prefix}quota:{user}:daily:YYYY-MM-DD and {prefix}quota:{user}:monthly:YYYY-MM.
type Store struct {
	store    store
	prefix   string
	dailyTTL time.Duration
	monthTTL time.Duration
}

// New creates a quota counter store.
// dailyTTL is the TTL for daily keys (recommended: 48h).
// monthTTL is the TTL for monthly keys (recommended: 62 days).
func New(s store, prefix string, dailyTTL, monthTTL time.Duration) *Store {
	return &Store{
		store:    s,
		prefix:   prefix,
		dailyTTL: dailyTTL,
		monthTTL: monthTTL,
	}
}

// IncrBy atomically increments the window counter. The first increment of a window fixes its expiry.
func (s *Store) IncrBy(ctx context.Context, userID string, w domquota.Window, t time.Time, val int64) error {
	key := s.key(userID, w, t)
	if _, err := s.store.IncrWithTTL(ctx, key, val, s.ttl(w)); err != nil {
		return fmt.Errorf("quota incr %s: %w", key, err)
	}
	return nil
}

// Get returns the window counter. Missing keys count as 0.
func (s *Store) Get(ctx context.Context, userID string, w domquota.Window, t time.Time) (int64, error) {
	key := s.key(userID, w, t)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("quota GET %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("quota GET %s parse: %w", key, err)
	}
	return val, nil
}

func (s *Store) key(userID string, w domquota.Window, t time.Time) string {
	return fmt.Sprintf("%squota:%s:%s:%s", s.prefix, userID, w, w.Stamp(t))
}

func (s *Store) ttl(w domquota.Window) time.Duration {
	if w == domquota.WindowDaily {
		return s.dailyTTL
	}
	return s.monthTTL
}
