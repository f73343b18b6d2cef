// Package cache caches rendered report payloads so repeated reads of the
// trailing-month reports do not hit storage on every request.
//
// Two backends are available: an in-process store for local runs and tests,
// and Redis for deployments with more than one replica.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: key not found")

// Cache stores opaque payloads under string keys with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a cache backend.
type Config struct {
	Driver   string `yaml:"CACHE_DRIVER"`
	Addr     string `yaml:"REDIS_ADDR"`
	Password string `yaml:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB"`
	Prefix   string `yaml:"CACHE_PREFIX"`
}

// New builds the backend named by cfg.Driver. An empty driver means the
// in-process store.
func New(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(ctx, cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
