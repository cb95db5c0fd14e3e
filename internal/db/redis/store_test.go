package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/AndiJegeni/cuemusic/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreWithClient(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreWithClient(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestWaitForReady_RetriesUntilPong(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(mock.ErrorResult(errors.New("loading"))),
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(mock.Result(mock.RedisString("PONG"))),
	)

	s := NewStoreWithClient(c)
	if err := s.WaitForReady(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForReady_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(errors.New("connection refused"))).
		AnyTimes()

	s := NewStoreWithClient(c)
	err := s.WaitForReady(context.Background(), 250*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

// --- hash.go tests ---

func TestHSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET" && cmd[1] == "cuemusic:sound:s1"
		})).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreWithClient(c)
	err := s.HSet(context.Background(), "cuemusic:sound:s1", map[string]string{"name": "Kick"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreWithClient(c)
	err := s.HSet(context.Background(), "mykey", map[string]string{"f": "v"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestHGetAll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "mykey")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"f1": mock.RedisString("v1"),
			"f2": mock.RedisString("v2"),
		})))

	s := NewStoreWithClient(c)
	m, err := s.HGetAll(context.Background(), "mykey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["f1"] != "v1" || m["f2"] != "v2" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestHGetAll_MissingKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "mykey")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{})))

	s := NewStoreWithClient(c)
	_, err := s.HGetAll(context.Background(), "mykey")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestHGetAll_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "mykey")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreWithClient(c)
	_, err := s.HGetAll(context.Background(), "mykey")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Error("should not be ErrKeyNotFound for network errors")
	}
}

func TestHGetAllMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
				"f": mock.RedisString("a"),
			})),
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
				"f": mock.RedisString("b"),
			})),
		})

	s := NewStoreWithClient(c)
	results, err := s.HGetAllMulti(context.Background(), []string{"k1", "k2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0]["f"] != "a" || results[1]["f"] != "b" {
		t.Errorf("unexpected results: %v", results)
	}
}

func TestHGetAllMulti_Chunked(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var sizes []int
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmds ...rueidis.Completed) []rueidis.RedisResult {
			sizes = append(sizes, len(cmds))
			out := make([]rueidis.RedisResult, len(cmds))
			for i := range out {
				out[i] = mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
					"f": mock.RedisString("v"),
				}))
			}
			return out
		}).
		Times(2)

	keys := make([]string, multiChunk+44)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}

	s := NewStoreWithClient(c)
	results, err := s.HGetAllMulti(context.Background(), keys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(keys) {
		t.Fatalf("results = %d, want %d", len(results), len(keys))
	}
	if len(sizes) != 2 || sizes[0] != multiChunk || sizes[1] != 44 {
		t.Errorf("chunk sizes = %v", sizes)
	}
}

func TestHGetAllMulti_Empty(t *testing.T) {
	s := NewStoreWithClient(nil) // client not called
	results, err := s.HGetAllMulti(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil, got %v", results)
	}
}

func TestHGetAllMulti_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.ErrorResult(context.DeadlineExceeded)})

	s := NewStoreWithClient(c)
	if _, err := s.HGetAllMulti(context.Background(), []string{"k1"}); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestDel_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "mykey")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreWithClient(c)
	if err := s.Del(context.Background(), "mykey"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExists(t *testing.T) {
	for _, tc := range []struct {
		reply int64
		want  bool
	}{{1, true}, {0, false}} {
		ctrl := gomock.NewController(t)
		c := mock.NewClient(ctrl)

		c.EXPECT().
			Do(gomock.Any(), mock.Match("EXISTS", "mykey")).
			Return(mock.Result(mock.RedisInt64(tc.reply)))

		s := NewStoreWithClient(c)
		exists, err := s.Exists(context.Background(), "mykey")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if exists != tc.want {
			t.Errorf("Exists() = %v, want %v", exists, tc.want)
		}
	}
}

func TestScan_SinglePage(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	// SCAN returns [cursor, [elements...]]
	c.EXPECT().
		Do(gomock.Any(), mock.Match("SCAN", "0", "MATCH", "prefix:*", "COUNT", "500", "TYPE", "hash")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0), // cursor=0 means done
			mock.RedisArray(mock.RedisString("key1"), mock.RedisString("key2")),
		)))

	s := NewStoreWithClient(c)
	keys, err := s.Scan(context.Background(), "prefix:*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
}

func TestScan_MultiPageDeduplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("SCAN", "0", "MATCH", "prefix:*", "COUNT", "500", "TYPE", "hash")).
			Return(mock.Result(mock.RedisArray(
				mock.RedisInt64(42), // cursor=42 means more
				mock.RedisArray(mock.RedisString("key1"), mock.RedisString("key2")),
			))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("SCAN", "42", "MATCH", "prefix:*", "COUNT", "500", "TYPE", "hash")).
			Return(mock.Result(mock.RedisArray(
				mock.RedisInt64(0),
				mock.RedisArray(mock.RedisString("key2"), mock.RedisString("key3")),
			))),
	)

	s := NewStoreWithClient(c)
	keys, err := s.Scan(context.Background(), "prefix:*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"key1", "key2", "key3"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestScan_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "SCAN" })).
		Return(mock.ErrorResult(errors.New("READONLY")))

	s := NewStoreWithClient(c)
	if _, err := s.Scan(context.Background(), "prefix:*"); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

// --- kv.go tests ---

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisBlobString("value")))

	s := NewStoreWithClient(c)
	data, err := s.Get(context.Background(), "mykey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "value" {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreWithClient(c)
	_, err := s.Get(context.Background(), "mykey")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSetNX_Stored(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mykey", "v", "NX")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreWithClient(c)
	ok, err := s.SetNX(context.Background(), "mykey", []byte("v"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected stored")
	}
}

func TestSetNX_AlreadySet(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mykey", "v", "NX")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreWithClient(c)
	ok, err := s.SetNX(context.Background(), "mykey", []byte("v"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected not stored")
	}
}

func TestIncrWithTTL_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("INCRBY", "counter", "5"),
			mock.Match("EXPIRE", "counter", "300", "NX"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(7)),
			mock.Result(mock.RedisInt64(0)), // TTL already set
		})

	s := NewStoreWithClient(c)
	n, err := s.IncrWithTTL(context.Background(), "counter", 5, 300*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("n = %d, want 7", n)
	}
}

func TestIncrWithTTL_IncrError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.ErrorResult(errors.New("WRONGTYPE")),
			mock.Result(mock.RedisInt64(1)),
		})

	s := NewStoreWithClient(c)
	_, err := s.IncrWithTTL(context.Background(), "counter", 1, time.Hour)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpIncrBy {
		t.Fatalf("expected INCRBY db.Error, got %v", err)
	}
}

func TestIncrWithTTL_ExpireErrorKeepsCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.ErrorResult(errors.New("ERR syntax error")),
		})

	s := NewStoreWithClient(c)
	n, err := s.IncrWithTTL(context.Background(), "counter", 1, time.Hour)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpExpire {
		t.Fatalf("expected EXPIRE db.Error, got %v", err)
	}
	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
}

// --- zset.go tests ---

func TestZAdd_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZADD", "idx", "1700", "s1")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreWithClient(c)
	if err := s.ZAdd(context.Background(), "idx", 1700, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestZRem_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZREM", "idx", "s1")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreWithClient(c)
	if err := s.ZRem(context.Background(), "idx", "s1"); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestZRevRange_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZRANGE", "idx", "0", "9", "REV")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("s2"), mock.RedisString("s1"))))

	s := NewStoreWithClient(c)
	members, err := s.ZRevRange(context.Background(), "idx", 0, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 || members[0] != "s2" {
		t.Errorf("members = %v", members)
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
