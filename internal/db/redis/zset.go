package redis

import (
	"context"
	"strconv"

	"github.com/AndiJegeni/cuemusic/internal/db"
)

// ZAdd adds or re-scores a sorted set member.
func (s *Store) ZAdd(ctx context.Context, key string, score float64, member string) error {
	cmd := s.b().Zadd().Key(key).ScoreMember().ScoreMember(score, member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZRem removes a sorted set member.
func (s *Store) ZRem(ctx context.Context, key string, member string) error {
	cmd := s.b().Zrem().Key(key).Member(member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZRem, Err: err}
	}
	return nil
}

// ZRevRange returns members by descending score (ZRANGE ... REV), ranks start..stop inclusive.
func (s *Store) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	cmd := s.b().Zrange().Key(key).
		Min(strconv.FormatInt(start, 10)).
		Max(strconv.FormatInt(stop, 10)).
		Rev().Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	return members, nil
}
