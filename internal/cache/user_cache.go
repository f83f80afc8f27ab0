package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "notesapi/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix = "user:"

	// UserTTL bounds how stale a cached user snapshot can get. A store-side
	// change (password reset, confirmation) is not pushed to the cache; it
	// becomes visible once the entry expires.
	UserTTL = 900 * time.Second
)

// userCacheClient is the slice of *redis.Client the cache needs.
type userCacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// UserCache keeps JSON-serialized user snapshots in Redis, keyed by email.
type UserCache struct {
	rdb userCacheClient
	ttl time.Duration
}

// NewUserCache returns a UserCache. Non-positive ttl falls back to UserTTL.
func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = UserTTL
	}
	return &UserCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot for email, or nil on miss. An expired
// entry and a never-written one are indistinguishable.
func (c *UserCache) Get(ctx context.Context, email string) (*dom.User, error) {
	b, err := c.rdb.Get(ctx, userKeyPrefix+email).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u dom.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Set stores the snapshot for email, overwriting any prior entry and
// resetting its TTL.
func (c *UserCache) Set(ctx context.Context, email string, u dom.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, userKeyPrefix+email, b, c.ttl).Err()
}
