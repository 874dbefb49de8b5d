package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartCountTTL = 5 * time.Minute

// CartCountCache caches the cart badge counter per user so the storefront
// header does not hit Mongo on every page load.
// Key format: cartcount:<user_id>
type CartCountCache struct {
	client *redis.Client
}

// NewCartCountCache creates a CartCountCache wrapping the given Redis client.
func NewCartCountCache(client *redis.Client) *CartCountCache {
	return &CartCountCache{client: client}
}

// Get returns the cached count and whether the key was present.
func (c *CartCountCache) Get(ctx context.Context, userID string) (int, bool, error) {
	n, err := c.client.Get(ctx, c.key(userID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("cart count get: %w", err)
	}
	return n, true, nil
}

// Set stores the count (expires after cartCountTTL).
func (c *CartCountCache) Set(ctx context.Context, userID string, count int) error {
	return c.client.Set(ctx, c.key(userID), count, cartCountTTL).Err()
}

// Invalidate drops the cached count after a cart mutation.
func (c *CartCountCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *CartCountCache) key(userID string) string {
	return fmt.Sprintf("cartcount:%s", userID)
}
