// Package cache is a thin JSON cache over redis. Callers treat it as
// best-effort: a miss and a redis outage look the same.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

type Cache interface {
	// GetJSON unmarshals the cached value into out. ok is false on a
	// miss or any redis error.
	GetJSON(ctx context.Context, key string, out any) (ok bool)

	// SetJSON stores the value with a TTL. Errors are logged, not returned.
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration)

	// Delete drops keys, best-effort.
	Delete(ctx context.Context, keys ...string)

	Close() error
}

type redisCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisCache(log *logger.Logger) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{
		log: log.With("service", "RedisCache"),
		rdb: rdb,
	}, nil
}

func (c *redisCache) GetJSON(ctx context.Context, key string, out any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Cache read failed", "key", key, "error", err.Error())
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("Cache entry unparsable, dropping", "key", key, "error", err.Error())
		c.Delete(ctx, key)
		return false
	}
	return true
}

func (c *redisCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		c.log.Warn("Cache marshal failed", "key", key, "error", err.Error())
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", "key", key, "error", err.Error())
	}
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Cache delete failed", "keys", strings.Join(keys, ","), "error", err.Error())
	}
}

func (c *redisCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Noop returns a cache that never hits, used when REDIS_ADDR is unset.
func Noop() Cache { return noopCache{} }

type noopCache struct{}

func (noopCache) GetJSON(ctx context.Context, key string, out any) bool           { return false }
func (noopCache) SetJSON(ctx context.Context, key string, val any, _ time.Duration) {}
func (noopCache) Delete(ctx context.Context, keys ...string)                      {}
func (noopCache) Close() error                                                    { return nil }
