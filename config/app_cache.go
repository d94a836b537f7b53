package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/superblogger/waitlist/internal/log"
	pkgredis "github.com/superblogger/waitlist/pkg/redis"
)

type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set uses ttl=0 for no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

func (cs CacheSettings) IsConfigured() bool {
	return cs.Host != ""
}

func (cs CacheSettings) NewCache(logger *log.Logger) (Cache, error) {
	if !cs.IsConfigured() {
		logger.Error("Cache (Redis) configuration is missing")
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		Host:     cs.Host,
		Port:     cs.Port,
		Password: cs.Password,
		DB:       0,
	})
	if err != nil {
		logger.Error("Failed to create Cache (Redis)", "error", err)
		return nil, err
	}

	logger.Info("Cache (Redis) connected successfully")
	return cache, nil
}

// NewCacheOrMemory prefers Redis and falls back to a process-local cache when Redis is
// not configured or unreachable.
func (cs CacheSettings) NewCacheOrMemory(logger *log.Logger) Cache {
	if !cs.IsConfigured() {
		logger.Info("Cache (Redis) is not configured; using in-memory cache")
		return NewMemoryCache()
	}

	cache, err := cs.NewCache(logger)
	if err != nil {
		logger.Warn("Falling back to in-memory cache", "error", err)
		return newFallbackMemoryCache(err)
	}

	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		logger.Info("No cache provided; skipping cache close")
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}

var ErrCacheNotConfigured = &CacheError{Message: "cache host is not configured"}

type CacheError struct {
	Message string
}

func (e *CacheError) Error() string {
	return e.Message
}

// MemoryCache is a process-local Cache for single-instance deployments and tests.
type MemoryCache struct {
	items *ttlcache.Cache[string, string]
	// fallbackCause is set when Redis was configured but could not be reached; Ping
	// reports it so health checks do not mistake the fallback for the configured cache.
	fallbackCause error
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: ttlcache.New[string, string](
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

func newFallbackMemoryCache(cause error) *MemoryCache {
	cache := NewMemoryCache()
	cache.fallbackCause = cause
	return cache
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	item := m.items.Get(key)
	if item == nil {
		return "", nil
	}

	return item.Value(), nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}

	m.items.Set(key, value, ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

func (m *MemoryCache) Ping(_ context.Context) error {
	if m.fallbackCause != nil {
		return fmt.Errorf("redis unavailable, serving from in-memory cache: %w", m.fallbackCause)
	}
	return nil
}

func (m *MemoryCache) Close() error {
	m.items.DeleteAll()
	return nil
}
