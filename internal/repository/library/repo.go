package library

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/AndiJegeni/cuemusic/internal/db"
	"github.com/AndiJegeni/cuemusic/internal/domain"
	domlib "github.com/AndiJegeni/cuemusic/internal/domain/library"
)

// store is the consumer interface for libraries (ISP).
//
//nolint:interfacebloat // library repo needs hash, kv and sorted set operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRem(ctx context.Context, key string, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo implements usecase/library.Repository.
//
// Layout: {prefix}library:{id} hash, {prefix}user:{uid}:libraries sorted set
// scored by creation time, {prefix}user:{uid}:library holds the default library ID.
type Repo struct {
	store  store
	prefix string
}

// New creates a library repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Create stores a library and links it to its owner.
func (r *Repo) Create(ctx context.Context, lib domlib.Library) error {
	key := r.libraryKey(lib.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return fmt.Errorf("library %s: %w", lib.ID(), domain.ErrAlreadyExists)
	}

	if err := r.store.HSet(ctx, key, map[string]string{
		"name":       lib.Name(),
		"user_id":    lib.UserID(),
		"created_at": strconv.FormatInt(lib.CreatedAt(), 10),
	}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}

	userKey := r.userLibrariesKey(lib.UserID())
	if err := r.store.ZAdd(ctx, userKey, float64(lib.CreatedAt()), lib.ID()); err != nil {
		if delErr := r.store.Del(ctx, key); delErr != nil {
			return fmt.Errorf("zadd %s: %w (rollback failed: %w)", userKey, err, delErr)
		}
		return fmt.Errorf("zadd %s: %w", userKey, err)
	}
	return nil
}

// Get returns a library by ID.
func (r *Repo) Get(ctx context.Context, id string) (domlib.Library, error) {
	key := r.libraryKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domlib.Library{}, domain.ErrLibraryNotFound
		}
		return domlib.Library{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return hashToLibrary(id, m), nil
}

// ListByUser returns all libraries owned by the user, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domlib.Library, error) {
	userKey := r.userLibrariesKey(userID)
	ids, err := r.store.ZRevRange(ctx, userKey, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("zrange %s: %w", userKey, err)
	}
	if len(ids) == 0 {
		return []domlib.Library{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.libraryKey(id)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch libraries: %w", err)
	}

	libs := make([]domlib.Library, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		libs = append(libs, hashToLibrary(ids[i], m))
	}
	return libs, nil
}

// Delete removes a library and unlinks it from its owner. Sounds are not touched.
func (r *Repo) Delete(ctx context.Context, id string) error {
	lib, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	userKey := r.userLibrariesKey(lib.UserID())
	if err := r.store.ZRem(ctx, userKey, id); err != nil {
		return fmt.Errorf("zrem %s: %w", userKey, err)
	}
	key := r.libraryKey(id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// DefaultID returns the user's default library ID.
func (r *Repo) DefaultID(ctx context.Context, userID string) (string, error) {
	key := r.defaultKey(userID)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrLibraryNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return string(data), nil
}

// ClaimDefault sets the default library with SET NX. The first writer wins.
func (r *Repo) ClaimDefault(ctx context.Context, userID, libraryID string) (string, error) {
	key := r.defaultKey(userID)
	stored, err := r.store.SetNX(ctx, key, []byte(libraryID))
	if err != nil {
		return "", fmt.Errorf("setnx %s: %w", key, err)
	}
	if stored {
		return libraryID, nil
	}
	return r.DefaultID(ctx, userID)
}

func hashToLibrary(id string, m map[string]string) domlib.Library {
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		createdAt = 0
	}
	return domlib.Reconstruct(id, m["name"], m["user_id"], createdAt)
}

func (r *Repo) libraryKey(id string) string {
	return r.prefix + "library:" + id
}

func (r *Repo) userLibrariesKey(userID string) string {
	return r.prefix + "user:" + userID + ":libraries"
}

func (r *Repo) defaultKey(userID string) string {
	return r.prefix + "user:" + userID + ":library"
}
