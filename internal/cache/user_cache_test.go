package cache

import (
	"context"
	"testing"
	"time"

	dom "notesapi/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements userCacheClient with a movable clock so TTL elapse
// can be simulated without a server.
type fakeRedis struct {
	now     time.Time
	entries map[string]fakeEntry
}

type fakeEntry struct {
	val       string
	expiresAt time.Time
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		now:     time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		entries: map[string]fakeEntry{},
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	e, ok := f.entries[key]
	if !ok || f.now.After(e.expiresAt) {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(e.val, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	b, ok := value.([]byte)
	if !ok {
		return redis.NewStatusResult("", redis.ErrClosed)
	}
	f.entries[key] = fakeEntry{val: string(b), expiresAt: f.now.Add(expiration)}
	return redis.NewStatusResult("OK", nil)
}

func newTestUserCache(rdb *fakeRedis) *UserCache {
	return &UserCache{rdb: rdb, ttl: UserTTL}
}

func TestUserCache_RoundTrip(t *testing.T) {
	rdb := newFakeRedis()
	c := newTestUserCache(rdb)
	ctx := context.Background()

	u := dom.User{ID: 7, Email: "a@b.com", Username: "alice", Confirmed: true}
	require.NoError(t, c.Set(ctx, "a@b.com", u))

	got, err := c.Get(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u, *got)
}

func TestUserCache_KeyFormat(t *testing.T) {
	rdb := newFakeRedis()
	c := newTestUserCache(rdb)

	require.NoError(t, c.Set(context.Background(), "a@b.com", dom.User{ID: 1}))
	_, ok := rdb.entries["user:a@b.com"]
	assert.True(t, ok)
}

func TestUserCache_MissIsNotAnError(t *testing.T) {
	c := newTestUserCache(newFakeRedis())

	got, err := c.Get(context.Background(), "nobody@b.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserCache_EntryExpiresAfterTTL(t *testing.T) {
	rdb := newFakeRedis()
	c := newTestUserCache(rdb)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a@b.com", dom.User{ID: 1, Email: "a@b.com"}))

	// Just inside the 900s window the snapshot is still served.
	rdb.now = rdb.now.Add(UserTTL - time.Second)
	got, err := c.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Past the window the entry is gone; an expired entry and a
	// never-written one are indistinguishable.
	rdb.now = rdb.now.Add(2 * time.Second)
	got, err = c.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserCache_SetResetsTTL(t *testing.T) {
	rdb := newFakeRedis()
	c := newTestUserCache(rdb)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a@b.com", dom.User{ID: 1, Username: "old"}))

	rdb.now = rdb.now.Add(UserTTL - time.Second)
	require.NoError(t, c.Set(ctx, "a@b.com", dom.User{ID: 1, Username: "new"}))

	// The overwrite restarted the clock and replaced the snapshot.
	rdb.now = rdb.now.Add(2 * time.Second)
	got, err := c.Get(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.Username)
}
