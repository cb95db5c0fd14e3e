package sound

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/AndiJegeni/cuemusic/internal/db"
	"github.com/AndiJegeni/cuemusic/internal/domain"
	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
)

// store is the consumer interface for sounds (ISP).
//
//nolint:interfacebloat // sound repo needs hash + sorted set operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRem(ctx context.Context, key string, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo implements usecase/sound.Repository and usecase/search.Repository.
//
// Layout: {prefix}sound:{id} is a hash per sound, {prefix}library:{id}:sounds
// is a sorted set of sound IDs scored by creation time.
type Repo struct {
	store  store
	prefix string
}

// New creates a sound repository. prefix namespaces every key (e.g. "cuemusic:").
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Put stores a sound and indexes it in its library.
func (r *Repo) Put(ctx context.Context, s domsound.Sound) error {
	key := r.soundKey(s.ID())
	if err := r.store.HSet(ctx, key, soundToHash(s)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}

	idx := r.libraryKey(s.LibraryID())
	if err := r.store.ZAdd(ctx, idx, float64(s.CreatedAt()), s.ID()); err != nil {
		// Roll back so ListAll and ListByLibrary stay consistent.
		if delErr := r.store.Del(ctx, key); delErr != nil {
			return fmt.Errorf("zadd %s: %w (rollback failed: %w)", idx, err, delErr)
		}
		return fmt.Errorf("zadd %s: %w", idx, err)
	}
	return nil
}

// Get returns a sound by ID.
func (r *Repo) Get(ctx context.Context, id string) (domsound.Sound, error) {
	key := r.soundKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsound.Sound{}, domain.ErrSoundNotFound
		}
		return domsound.Sound{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return hashToSound(id, m), nil
}

// ListByLibrary returns a page of a library's sounds, newest first.
// The cursor is the offset of the next page.
func (r *Repo) ListByLibrary(ctx context.Context, libraryID, cursor string, limit int) (
	[]domsound.Sound, string, error,
) {
	if limit <= 0 {
		limit = 20
	}

	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			return nil, "", fmt.Errorf("invalid cursor %q: %w", cursor, domain.ErrInvalidInput)
		}
		offset = parsed
	}

	// Fetch one extra to know whether another page exists.
	idx := r.libraryKey(libraryID)
	ids, err := r.store.ZRevRange(ctx, idx, int64(offset), int64(offset+limit))
	if err != nil {
		return nil, "", fmt.Errorf("zrange %s: %w", idx, err)
	}

	var nextCursor string
	if len(ids) > limit {
		ids = ids[:limit]
		nextCursor = strconv.Itoa(offset + limit)
	}

	sounds, err := r.fetch(ctx, ids)
	if err != nil {
		return nil, "", err
	}
	return sounds, nextCursor, nil
}

// ListAll returns every stored sound, oldest first with ties broken by id.
// SCAN order varies between calls, so the result is sorted here.
func (r *Repo) ListAll(ctx context.Context) ([]domsound.Sound, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"sound:*")
	if err != nil {
		return nil, fmt.Errorf("scan sounds: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, r.prefix+"sound:"))
	}

	sounds, err := r.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(sounds, func(i, j int) bool {
		a, b := &sounds[i], &sounds[j]
		if a.CreatedAt() != b.CreatedAt() {
			return a.CreatedAt() < b.CreatedAt()
		}
		return a.ID() < b.ID()
	})
	return sounds, nil
}

// Delete removes a sound and its library index entry.
func (r *Repo) Delete(ctx context.Context, id string) error {
	snd, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	idx := r.libraryKey(snd.LibraryID())
	if err := r.store.ZRem(ctx, idx, id); err != nil {
		return fmt.Errorf("zrem %s: %w", idx, err)
	}

	key := r.soundKey(id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// fetch loads hashes for ids in one round-trip. IDs whose hash vanished are skipped.
func (r *Repo) fetch(ctx context.Context, ids []string) ([]domsound.Sound, error) {
	if len(ids) == 0 {
		return []domsound.Sound{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.soundKey(id)
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch sounds: %w", err)
	}

	out := make([]domsound.Sound, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		out = append(out, hashToSound(ids[i], m))
	}
	return out, nil
}

func (r *Repo) soundKey(id string) string {
	return r.prefix + "sound:" + id
}

func (r *Repo) libraryKey(libraryID string) string {
	return r.prefix + "library:" + libraryID + ":sounds"
}
