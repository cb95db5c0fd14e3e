package redis

import "github.com/redis/rueidis"

// NewStoreWithClient wraps an existing rueidis client, typically a rueidis/mock client in tests.
// The store takes ownership: Close closes c.
func NewStoreWithClient(c rueidis.Client) *Store {
	return &Store{client: c}
}
