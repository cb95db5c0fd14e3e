package db

import (
	"context"
	"time"
)

// Store is the Redis/Valkey facade shared by the repositories.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	HashStore
	KVStore
	SortedSetStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore holds sound and library records.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// KVStore provides string keys and counters.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	IncrWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}

// SortedSetStore provides ordered secondary indexes.
type SortedSetStore interface {
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRem(ctx context.Context, key string, member string) error
	// ZRevRange returns members by descending score, ranks start..stop inclusive (-1 = last).
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}
