package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

// Config carries the Redis connection settings. The marketplace uses Redis
// only as a best-effort cache (cart item counts), so a managed instance
// with a password and a dedicated DB index is the expected shape.
type Config struct {
	Addr        string
	Password    string
	DB          int
	PingTimeout time.Duration
}

// Connect builds the client and verifies the server is reachable before
// any cache depends on it. The ping is bounded by PingTimeout, defaulting
// to defaultPingTimeout when unset.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	return client, nil
}
