// Package usage keeps per-organization daily AI call counters in Redis.
package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// counters outlive their day so yesterday's total is still readable
const keyTTL = 48 * time.Hour

var ErrLimitExceeded = errors.New("daily AI call limit reached")

type Counter struct {
	client *redis.Client
	limit  int64
	now    func() time.Time
}

// NewCounter connects to redisURL (redis://host:port/db). limit <= 0 disables
// enforcement but calls are still counted.
func NewCounter(redisURL, password string, limit int) (*Counter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newCounter(rdb, limit), nil
}

func newCounter(rdb *redis.Client, limit int) *Counter {
	return &Counter{client: rdb, limit: int64(limit), now: time.Now}
}

func (c *Counter) key(orgID string) string {
	return fmt.Sprintf("usage:ai:%s:%s", orgID, c.now().UTC().Format("2006-01-02"))
}

// Reserve counts one AI call for orgID against today's quota. Over the limit
// the reservation is released and ErrLimitExceeded returned.
func (c *Counter) Reserve(ctx context.Context, orgID string) error {
	if c == nil || c.client == nil {
		// No-op when Redis is not configured
		return nil
	}
	key := c.key(orgID)

	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("incrementing %s: %w", key, err)
	}
	if n == 1 {
		if err := c.client.Expire(ctx, key, keyTTL).Err(); err != nil {
			return fmt.Errorf("setting expiry on %s: %w", key, err)
		}
	}

	if c.limit > 0 && n > c.limit {
		if err := c.client.Decr(ctx, key).Err(); err != nil {
			return fmt.Errorf("releasing reservation on %s: %w", key, err)
		}
		return ErrLimitExceeded
	}
	return nil
}

// Today returns the number of AI calls counted for orgID today.
func (c *Counter) Today(ctx context.Context, orgID string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}

	n, err := c.client.Get(ctx, c.key(orgID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Limit is the configured daily limit, 0 when unlimited.
func (c *Counter) Limit() int64 {
	if c == nil || c.limit < 0 {
		return 0
	}
	return c.limit
}

func (c *Counter) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
