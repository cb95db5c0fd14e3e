package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/AndiJegeni/cuemusic/internal/db"
)

// Get retrieves a value by key. A missing key yields db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// SetNX stores a value only if the key does not exist. Reports whether it was stored.
func (s *Store) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Nx().Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpSet, Err: err}
	}
	return true, nil
}

// IncrWithTTL increments a counter and returns its new value. The TTL is applied
// with EXPIRE NX, so only the first increment of a key fixes its expiry.
// Both commands travel in one round trip.
func (s *Store) IncrWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error) {
	results := s.client.DoMulti(ctx,
		s.b().Incrby().Key(key).Increment(val).Build(),
		s.b().Expire().Key(key).Seconds(int64(ttl.Seconds())).Nx().Build(),
	)

	n, err := results[0].AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpIncrBy, Err: err}
	}
	if err := results[1].Error(); err != nil {
		return n, &db.Error{Op: db.OpExpire, Err: fmt.Errorf("key %s: %w", key, err)}
	}
	return n, nil
}
