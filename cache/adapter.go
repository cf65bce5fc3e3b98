package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rsandor/Solace-sub001/cache/local"
	cacheredis "github.com/rsandor/Solace-sub001/cache/redis"
)

// Store is the key/value surface the cooldown tracker needs. Values expire
// after their TTL; a zero TTL keeps them until deleted.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Close() error
}

// IsNotFound reports whether err means the key was missing or expired, for
// either backend.
func IsNotFound(err error) bool {
	return errors.Is(err, local.ErrNotFound) || errors.Is(err, cacheredis.ErrNotFound)
}

// Config holds configuration for both Redis and the local store.
type Config struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	RedisPrefix     string        `mapstructure:"redis_prefix"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

// NewStore returns a Store backed by Redis if RedisAddr is set,
// otherwise an in-process LocalCache.
func NewStore(cfg Config) (Store, error) {
	if cfg.RedisAddr != "" {
		return cacheredis.NewCache(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	}
	return local.NewCache(local.Config{
		GCInterval: cfg.LocalGCInterval,
	})
}
