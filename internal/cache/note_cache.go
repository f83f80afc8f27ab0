package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "notesapi/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyNoteList = "notes:list:"

// NoteCache caches per-user note listings in Redis.
type NoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewNoteCache returns a new NoteCache.
func NewNoteCache(rdb *redis.Client, ttl time.Duration) *NoteCache {
	return &NoteCache{rdb: rdb, ttl: ttl}
}

func noteListKey(userID int64, skip, limit int) string {
	return keyNoteList + strconv.FormatInt(userID, 10) +
		":" + strconv.Itoa(skip) + ":" + strconv.Itoa(limit)
}

// GetList returns the cached listing or nil if miss.
func (c *NoteCache) GetList(ctx context.Context, userID int64, skip, limit int) ([]dom.Note, error) {
	b, err := c.rdb.Get(ctx, noteListKey(userID, skip, limit)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Note
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the listing in cache.
func (c *NoteCache) SetList(ctx context.Context, userID int64, skip, limit int, list []dom.Note) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, noteListKey(userID, skip, limit), b, c.ttl).Err()
}

// Invalidate removes every cached listing for the user (called on writes).
func (c *NoteCache) Invalidate(ctx context.Context, userID int64) error {
	pattern := keyNoteList + strconv.FormatInt(userID, 10) + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
