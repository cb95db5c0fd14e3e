package library

import (
	"context"
	"testing"

	"github.com/AndiJegeni/cuemusic/internal/db"
)

// mockStore implements the consumer interface for tests.
// kv backs Get/SetNX so claim races can be simulated.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	zaddFn         func(ctx context.Context, key string, score float64, member string) error
	zremFn         func(ctx context.Context, key string, member string) error
	zrevRangeFn    func(ctx context.Context, key string, start, stop int64) ([]string, error)
	kv             map[string][]byte
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := m.kv[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	if _, ok := m.kv[key]; ok {
		return false, nil
	}
	m.kv[key] = value
	return true, nil
}

func (m *mockStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if m.zaddFn != nil {
		return m.zaddFn(ctx, key, score, member)
	}
	return nil
}

func (m *mockStore) ZRem(ctx context.Context, key string, member string) error {
	if m.zremFn != nil {
		return m.zremFn(ctx, key, member)
	}
	return nil
}

func (m *mockStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if m.zrevRangeFn != nil {
		return m.zrevRangeFn(ctx, key, start, stop)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{kv: map[string][]byte{}}
	return New(ms, "cuemusic:"), ms
}
