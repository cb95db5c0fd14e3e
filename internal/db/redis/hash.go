package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/AndiJegeni/cuemusic/internal/db"
)

// HSet sets hash fields.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	cmd := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		cmd = cmd.FieldValue(k, v)
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash. A missing key yields db.ErrKeyNotFound.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	if len(m) == 0 {
		return nil, db.ErrKeyNotFound
	}
	return m, nil
}

// multiChunk bounds the commands sent in one DoMulti call.
const multiChunk = 256

// HGetAllMulti fetches all fields for multiple hashes, pipelining multiChunk keys per round trip.
// Keys deleted between listing and fetching come back as empty maps.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	out := make([]map[string]string, 0, len(keys))
	for lo := 0; lo < len(keys); lo += multiChunk {
		chunk := keys[lo:min(lo+multiChunk, len(keys))]

		cmds := make([]rueidis.Completed, len(chunk))
		for i, key := range chunk {
			cmds[i] = s.b().Hgetall().Key(key).Build()
		}

		for i, res := range s.client.DoMulti(ctx, cmds...) {
			m, err := res.AsStrMap()
			if err != nil {
				return nil, &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("key %s: %w", chunk[i], err)}
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	cmd := s.b().Exists().Key(key).Build()
	count, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return count > 0, nil
}

// Scan returns the hash keys matching a pattern. SCAN may repeat keys across pages;
// each key is returned once, in first-seen order.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	seen := make(map[string]struct{})
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(500).Type("hash").Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		for _, k := range res.Elements {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}
