package jurisdiction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"docket/pkg/platform/sentinel"
)

// treeCacheKey is the single cache entry for the assembled forest. There is
// deliberately no partial-invalidation API: any write to reference data
// invalidates the whole tree.
const treeCacheKey = "jurisdiction:tree"

// TreeCache caches the assembled forest. Best-effort: callers must treat any
// error as a miss and rebuild from the store.
type TreeCache interface {
	GetTree(ctx context.Context) ([]*TreeNode, error)
	SetTree(ctx context.Context, forest []*TreeNode, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// RedisTreeCache stores the forest as one JSON value under a TTL.
type RedisTreeCache struct {
	client *redis.Client
}

// NewRedisTreeCache constructs a Redis-backed tree cache.
func NewRedisTreeCache(client *redis.Client) *RedisTreeCache {
	return &RedisTreeCache{client: client}
}

func (c *RedisTreeCache) GetTree(ctx context.Context) ([]*TreeNode, error) {
	raw, err := c.client.Get(ctx, treeCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("tree cache: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tree cache get: %w: %w", sentinel.ErrUnavailable, err)
	}

	var forest []*TreeNode
	if err := json.Unmarshal(raw, &forest); err != nil {
		// A corrupt entry is a miss; the caller rebuilds and overwrites it.
		return nil, fmt.Errorf("tree cache decode: %w", sentinel.ErrNotFound)
	}
	return forest, nil
}

func (c *RedisTreeCache) SetTree(ctx context.Context, forest []*TreeNode, ttl time.Duration) error {
	raw, err := json.Marshal(forest)
	if err != nil {
		return fmt.Errorf("tree cache encode: %w", err)
	}
	if err := c.client.Set(ctx, treeCacheKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("tree cache set: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (c *RedisTreeCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, treeCacheKey).Err(); err != nil {
		return fmt.Errorf("tree cache invalidate: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
