package sound

import (
	"context"
	"testing"

	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	zaddFn         func(ctx context.Context, key string, score float64, member string) error
	zremFn         func(ctx context.Context, key string, member string) error
	zrevRangeFn    func(ctx context.Context, key string, start, stop int64) ([]string, error)
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
	return map[string]string{}, nil
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

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
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
	ms := &mockStore{}
	return New(ms, "cuemusic:"), ms
}

func testSound(t *testing.T) domsound.Sound {
	t.Helper()
	s, err := domsound.New("s1", "Dusty Kick", "https://cdn.example.com/kick.wav",
		[]string{"drums", "kick"}, 90, "Am", "lib-1", 1700000000000)
	if err != nil {
		t.Fatalf("build sound: %v", err)
	}
	return s
}

func testHash() map[string]string {
	return map[string]string{
		"name":       "Dusty Kick",
		"url":        "https://cdn.example.com/kick.wav",
		"tags":       "drums,kick",
		"bpm":        "90",
		"key":        "Am",
		"library_id": "lib-1",
		"created_at": "1700000000000",
	}
}

func mustSound(t *testing.T, bpm int, key string) domsound.Sound {
	t.Helper()
	s, err := domsound.New("s2", "Snare", "", nil, bpm, key, "lib-1", 1)
	if err != nil {
		t.Fatalf("build sound: %v", err)
	}
	return s
}
