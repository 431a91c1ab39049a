package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// ContextCache keeps the built (extracted and truncated) document context
// per owner so repeated questions against the same active document skip
// the blob read and extraction. Entries are tagged with the file they were
// built from; a newer upload makes the tag stale and the entry is ignored.
type ContextCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

type cachedContext struct {
	FileID uint   `json:"file_id"`
	Text   string `json:"text"`
}

func NewContextCache(client *redisv9.Client, ttl time.Duration) *ContextCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ContextCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached context and the file it was built from.
func (c *ContextCache) Get(ctx context.Context, ownerID uint) (uint, string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(ownerID)).Result()
	if err == redisv9.Nil {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, fmt.Errorf("redis get context failed: %w", err)
	}

	var entry cachedContext
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return 0, "", false, fmt.Errorf("unmarshal cached context failed: %w", err)
	}
	return entry.FileID, entry.Text, true, nil
}

func (c *ContextCache) Set(ctx context.Context, ownerID, fileID uint, text string) error {
	payload, err := json.Marshal(cachedContext{FileID: fileID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal context cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(ownerID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set context failed: %w", err)
	}
	return nil
}

// Invalidate drops the owner's entry; called on upload and delete.
func (c *ContextCache) Invalidate(ctx context.Context, ownerID uint) error {
	if err := c.client.Del(ctx, c.key(ownerID)).Err(); err != nil {
		return fmt.Errorf("redis delete context failed: %w", err)
	}
	return nil
}

func (c *ContextCache) key(ownerID uint) string {
	return fmt.Sprintf("chat:context:%d", ownerID)
}
