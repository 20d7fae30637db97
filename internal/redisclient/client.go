package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// CacheMappings replaces the cached copy of one mapping table.
func (c *Client) CacheMappings(ctx context.Context, kind string, mappings map[string]int64) error {
	key := fmt.Sprintf("mapping:%s", kind)

	pipe := c.rdb.Pipeline()
	pipe.Del(ctx, key)
	for sourceKey, destID := range mappings {
		pipe.HSet(ctx, key, sourceKey, destID)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// GetCachedMapping reads one cached mapping entry. ok is false on a cache miss.
func (c *Client) GetCachedMapping(ctx context.Context, kind, sourceKey string) (int64, bool, error) {
	val, err := c.rdb.HGet(ctx, fmt.Sprintf("mapping:%s", kind), sourceKey).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	destID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cached mapping %s/%s: %w", kind, sourceKey, err)
	}
	return destID, true, nil
}

// SetCachedMapping backfills a single cache entry after a DB lookup.
func (c *Client) SetCachedMapping(ctx context.Context, kind, sourceKey string, destID int64) error {
	return c.rdb.HSet(ctx, fmt.Sprintf("mapping:%s", kind), sourceKey, destID).Err()
}

// InvalidateMappings drops the cached copy of one mapping table.
func (c *Client) InvalidateMappings(ctx context.Context, kind string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("mapping:%s", kind)).Err()
}

// AcquireBatchLock guards one entity type's ledger against concurrent batch
// invocations. Returns false when another batch already holds the lock.
func (c *Client) AcquireBatchLock(ctx context.Context, entity string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("batchlock:%s", entity), "1", ttl).Result()
}

// ReleaseBatchLock releases a batch lock.
func (c *Client) ReleaseBatchLock(ctx context.Context, entity string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("batchlock:%s", entity)).Err()
}
