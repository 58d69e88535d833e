package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	logger "github.com/sirupsen/logrus"
)

// Response TTLs for the proxy routes. Portfolio snapshots move with every
// market tick; pnl history only changes as positions settle.
const (
	PortfolioTTL = 10 * time.Second
	PnlTTL       = 30 * time.Second
)

// Client wraps Redis with response-caching operations for the proxy routes.
// A nil *Client disables caching: every lookup misses and every store is a
// no-op, so callers never branch on cache availability.
type Client struct {
	rdb *redis.Client
}

// New connects to Redis and verifies the connection with a short ping.
func New(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// NewFromEnv connects using env config, returning nil (cache disabled) when
// ENABLE_CACHE is off.
func NewFromEnv() (*Client, error) {
	cfg := GetConfig()
	if !cfg.EnableCache {
		return nil, nil
	}
	return New(cfg)
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// Ping checks if Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("cache disabled")
	}
	return c.rdb.Ping(ctx).Err()
}

func responseKey(route, wallet, variant string) string {
	if variant == "" {
		return fmt.Sprintf("response:%s:%s", route, wallet)
	}
	return fmt.Sprintf("response:%s:%s:%s", route, wallet, variant)
}

// GetResponse returns a cached response body for the route, or ok=false on a
// miss. Redis errors degrade to a miss.
func (c *Client) GetResponse(ctx context.Context, route, wallet, variant string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	body, err := c.rdb.Get(ctx, responseKey(route, wallet, variant)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithError(err).WithField("route", route).Warn("cache lookup failed")
		}
		return nil, false
	}
	return body, true
}

// SetResponse stores a response body with the given TTL. Failures are logged
// and swallowed: a broken cache never breaks the route.
func (c *Client) SetResponse(ctx context.Context, route, wallet, variant string, body []byte, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, responseKey(route, wallet, variant), body, ttl).Err(); err != nil {
		logger.WithError(err).WithField("route", route).Warn("cache store failed")
	}
}

// InvalidateWallet drops every cached response for the wallet. Called after a
// claim or close lands so the next portfolio read reflects it.
func (c *Client) InvalidateWallet(ctx context.Context, wallet string) {
	if c == nil {
		return
	}
	var cursor uint64
	pattern := fmt.Sprintf("response:*:%s*", wallet)
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			logger.WithError(err).Warn("cache invalidation scan failed")
			return
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				logger.WithError(err).Warn("cache invalidation delete failed")
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
